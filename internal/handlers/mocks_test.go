package handlers

import (
	"context"

	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of services.AuthServiceInterface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, creds *models.Credentials) (*services.LoginResult, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout() {
	m.Called()
}

func (m *MockAuthService) State() services.AuthState {
	args := m.Called()
	return args.Get(0).(services.AuthState)
}

func (m *MockAuthService) CurrentUser() *models.User {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.User)
}

func (m *MockAuthService) SetPhotoURL(url string) {
	m.Called(url)
}

// MockUpdatesService is a mock implementation of services.UpdatesServiceInterface
type MockUpdatesService struct {
	mock.Mock
}

func (m *MockUpdatesService) GetUpdates(ctx context.Context) ([]*models.Update, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Update), args.Error(1)
}

func (m *MockUpdatesService) CreateUpdate(ctx context.Context, req *models.CreateUpdateRequest) (*models.Update, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Update), args.Error(1)
}

func (m *MockUpdatesService) DeleteUpdate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileService is a mock implementation of services.ProfileServiceInterface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) UploadAvatar(ctx context.Context, userID string, req *models.UploadAvatarRequest) (string, error) {
	args := m.Called(ctx, userID, req)
	return args.String(0), args.Error(1)
}
