package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ahlulathar/ahlulathar-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_InsertAndGetByID(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	id, err := s.Insert(ctx, store.UsersCollection, store.Record{
		"phoneNumber": "07306060377",
		"displayName": "Test User",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	record, err := s.GetByID(ctx, store.UsersCollection, id)
	require.NoError(t, err)
	assert.Equal(t, id, record["id"])
	assert.Equal(t, "07306060377", record["phoneNumber"])
	assert.NotEmpty(t, record["createdAt"])
	assert.NotEmpty(t, record["updatedAt"])
}

func TestMemoryStore_GetByID_NotFound(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.GetByID(context.Background(), store.UsersCollection, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDocumentNotFound))
	assert.True(t, errors.Is(err, store.ErrStore))
}

func TestMemoryStore_QueryByField(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	s.Seed(store.UsersCollection, []store.Record{
		{"id": "u1", "phoneNumber": "111", "displayName": "first"},
		{"id": "u2", "phoneNumber": "222", "displayName": "second"},
		{"id": "u3", "phoneNumber": "111", "displayName": "third"},
	})

	records, err := s.QueryByField(ctx, store.UsersCollection, "phoneNumber", "111", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Insertion order is preserved
	assert.Equal(t, "u1", records[0]["id"])
	assert.Equal(t, "u3", records[1]["id"])
}

func TestMemoryStore_QueryByField_EmptyFieldReturnsAll(t *testing.T) {
	s := store.NewMemoryStore()

	s.Seed(store.UpdatesCollection, []store.Record{
		{"id": "a", "title": "one"},
		{"id": "b", "title": "two"},
	})

	records, err := s.QueryByField(context.Background(), store.UpdatesCollection, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryStore_QueryByField_MaxResults(t *testing.T) {
	s := store.NewMemoryStore()

	s.Seed(store.UsersCollection, []store.Record{
		{"id": "u1", "phoneNumber": "111"},
		{"id": "u2", "phoneNumber": "111"},
		{"id": "u3", "phoneNumber": "111"},
	})

	records, err := s.QueryByField(context.Background(), store.UsersCollection, "phoneNumber", "111", 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryStore_Update(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	s.Seed(store.UsersCollection, []store.Record{
		{"id": "u1", "displayName": "before", "isActive": true},
	})

	err := s.Update(ctx, store.UsersCollection, "u1", store.Record{"displayName": "after"})
	require.NoError(t, err)

	record, err := s.GetByID(ctx, store.UsersCollection, "u1")
	require.NoError(t, err)
	assert.Equal(t, "after", record["displayName"])
	assert.Equal(t, true, record["isActive"])
}

func TestMemoryStore_Update_NotFound(t *testing.T) {
	s := store.NewMemoryStore()

	err := s.Update(context.Background(), store.UsersCollection, "missing", store.Record{"x": "y"})
	assert.True(t, errors.Is(err, store.ErrDocumentNotFound))
}

func TestMemoryStore_Delete(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	s.Seed(store.UpdatesCollection, []store.Record{{"id": "a", "title": "one"}})

	require.NoError(t, s.Delete(ctx, store.UpdatesCollection, "a"))

	_, err := s.GetByID(ctx, store.UpdatesCollection, "a")
	assert.True(t, errors.Is(err, store.ErrDocumentNotFound))

	// Deleting again reports not found
	err = s.Delete(ctx, store.UpdatesCollection, "a")
	assert.True(t, errors.Is(err, store.ErrDocumentNotFound))
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	s.Seed(store.UsersCollection, []store.Record{{"id": "u1", "displayName": "original"}})

	record, err := s.GetByID(ctx, store.UsersCollection, "u1")
	require.NoError(t, err)
	record["displayName"] = "mutated"

	again, err := s.GetByID(ctx, store.UsersCollection, "u1")
	require.NoError(t, err)
	assert.Equal(t, "original", again["displayName"])
}
