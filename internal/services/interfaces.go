package services

import (
	"context"

	"github.com/ahlulathar/ahlulathar-api/internal/models"
)

// AuthServiceInterface defines the interface for authentication operations
type AuthServiceInterface interface {
	Login(ctx context.Context, creds *models.Credentials) (*LoginResult, error)
	Logout()
	State() AuthState
	CurrentUser() *models.User
	SetPhotoURL(url string)
}

// UpdatesServiceInterface defines the interface for the updates feed
type UpdatesServiceInterface interface {
	GetUpdates(ctx context.Context) ([]*models.Update, error)
	CreateUpdate(ctx context.Context, req *models.CreateUpdateRequest) (*models.Update, error)
	DeleteUpdate(ctx context.Context, id string) error
}

// ProfileServiceInterface defines the interface for profile operations
type ProfileServiceInterface interface {
	UploadAvatar(ctx context.Context, userID string, req *models.UploadAvatarRequest) (string, error)
}

// Ensure services implement their interfaces
var _ AuthServiceInterface = (*AuthService)(nil)
var _ UpdatesServiceInterface = (*UpdatesService)(nil)
var _ ProfileServiceInterface = (*ProfileService)(nil)
