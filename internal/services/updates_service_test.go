package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ahlulathar/ahlulathar-api/internal/cache"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/services"
	"github.com/ahlulathar/ahlulathar-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func updateRecord(id, title, date, updateType string) store.Record {
	return store.Record{
		"id":          id,
		"title":       title,
		"description": "details",
		"date":        date,
		"type":        updateType,
	}
}

func newUpdatesService(t *testing.T, mockStore *MockStore) *services.UpdatesService {
	t.Helper()
	updatesCache := cache.NewUpdatesCache(services.FetchAll(mockStore), 5*time.Minute)
	require.NoError(t, updatesCache.Initialize(context.Background()))
	return services.NewUpdatesService(mockStore, updatesCache)
}

func TestGetUpdates_SortedNewestFirst(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("QueryByField", mock.Anything, store.UpdatesCollection, "", "", 0).
		Return([]store.Record{
			updateRecord("a", "older", "2025-01-10", "fix"),
			updateRecord("b", "newest", "2025-03-01", "feature"),
			updateRecord("c", "middle", "2025-02-15", "improvement"),
		}, nil)

	svc := newUpdatesService(t, mockStore)

	updates, err := svc.GetUpdates(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 3)
	assert.Equal(t, "newest", updates[0].Title)
	assert.Equal(t, "middle", updates[1].Title)
	assert.Equal(t, "older", updates[2].Title)
}

func TestGetUpdates_SkipsMalformedRecords(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("QueryByField", mock.Anything, store.UpdatesCollection, "", "", 0).
		Return([]store.Record{
			updateRecord("a", "good", "2025-01-10", "fix"),
			{"title": "no id"},
			updateRecord("c", "bad type", "2025-01-11", "announcement"),
		}, nil)

	svc := newUpdatesService(t, mockStore)

	updates, err := svc.GetUpdates(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "good", updates[0].Title)
}

func TestGetUpdates_ServedFromCache(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("QueryByField", mock.Anything, store.UpdatesCollection, "", "", 0).
		Return([]store.Record{updateRecord("a", "cached", "2025-01-10", "fix")}, nil).
		Once()

	svc := newUpdatesService(t, mockStore)

	for i := 0; i < 3; i++ {
		updates, err := svc.GetUpdates(context.Background())
		require.NoError(t, err)
		assert.Len(t, updates, 1)
	}

	mockStore.AssertExpectations(t)
}

func TestCreateUpdate_InvalidatesCache(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("QueryByField", mock.Anything, store.UpdatesCollection, "", "", 0).
		Return([]store.Record{}, nil).Once()
	mockStore.On("Insert", mock.Anything, store.UpdatesCollection, store.Record{
		"title":       "launch",
		"description": "we launched",
		"date":        "2025-04-01",
		"type":        "feature",
	}).Return("new-id", nil)
	mockStore.On("QueryByField", mock.Anything, store.UpdatesCollection, "", "", 0).
		Return([]store.Record{updateRecord("new-id", "launch", "2025-04-01", "feature")}, nil).Once()

	svc := newUpdatesService(t, mockStore)

	created, err := svc.CreateUpdate(context.Background(), &models.CreateUpdateRequest{
		Title:       "launch",
		Description: "we launched",
		Date:        "2025-04-01",
		Type:        "feature",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
	assert.Equal(t, models.UpdateTypeFeature, created.Type)

	// the next read refetches instead of serving the stale list
	updates, err := svc.GetUpdates(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "launch", updates[0].Title)

	mockStore.AssertExpectations(t)
}

func TestDeleteUpdate(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("QueryByField", mock.Anything, store.UpdatesCollection, "", "", 0).
		Return([]store.Record{updateRecord("a", "gone soon", "2025-01-10", "fix")}, nil)
	mockStore.On("Delete", mock.Anything, store.UpdatesCollection, "a").Return(nil)

	svc := newUpdatesService(t, mockStore)

	require.NoError(t, svc.DeleteUpdate(context.Background(), "a"))
	mockStore.AssertExpectations(t)
}

func TestDeleteUpdate_NotFound(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("QueryByField", mock.Anything, store.UpdatesCollection, "", "", 0).
		Return([]store.Record{}, nil)
	mockStore.On("Delete", mock.Anything, store.UpdatesCollection, "missing").
		Return(store.ErrDocumentNotFound)

	svc := newUpdatesService(t, mockStore)

	err := svc.DeleteUpdate(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}
