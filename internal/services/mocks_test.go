package services_test

import (
	"context"

	"github.com/ahlulathar/ahlulathar-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of store.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) QueryByField(ctx context.Context, collection, field, value string, maxResults int) ([]store.Record, error) {
	args := m.Called(ctx, collection, field, value, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Record), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, collection, id string) (store.Record, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, collection string, record store.Record) (string, error) {
	args := m.Called(ctx, collection, record)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, collection, id string, partial store.Record) error {
	args := m.Called(ctx, collection, id, partial)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

// MockStorageClient is a mock implementation of objstore.StorageClientInterface
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) UploadAvatar(ctx context.Context, imageData, key, contentType string) (string, error) {
	args := m.Called(ctx, imageData, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) ValidateImageType(contentType string) error {
	args := m.Called(contentType)
	return args.Error(0)
}

func (m *MockStorageClient) ValidateImageSize(imageData string) error {
	args := m.Called(imageData)
	return args.Error(0)
}
