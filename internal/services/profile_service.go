package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/store"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/ahlulathar/ahlulathar-api/pkg/metrics"
	"github.com/ahlulathar/ahlulathar-api/pkg/objstore"
	"go.uber.org/zap"
)

// ErrStorageUnavailable is returned when no object storage client is configured
var ErrStorageUnavailable = errors.New("object storage is not configured")

// ProfileService handles user profile mutations
type ProfileService struct {
	store   store.Store
	storage objstore.StorageClientInterface
}

// NewProfileService creates a new ProfileService
func NewProfileService(docStore store.Store, storage objstore.StorageClientInterface) *ProfileService {
	return &ProfileService{
		store:   docStore,
		storage: storage,
	}
}

// UploadAvatar validates and stores a new avatar image, then points the user
// record's photoURL at it. Returns the public URL of the uploaded image.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, req *models.UploadAvatarRequest) (string, error) {
	if s.storage == nil {
		metrics.AvatarUploads.WithLabelValues("unavailable").Inc()
		return "", ErrStorageUnavailable
	}
	if err := s.storage.ValidateImageType(req.ContentType); err != nil {
		metrics.AvatarUploads.WithLabelValues("invalid_type").Inc()
		return "", err
	}
	if err := s.storage.ValidateImageSize(req.ImageData); err != nil {
		metrics.AvatarUploads.WithLabelValues("too_large").Inc()
		return "", err
	}

	key := objstore.GenerateAvatarKey(userID, req.ContentType)

	url, err := s.storage.UploadAvatar(ctx, req.ImageData, key, req.ContentType)
	if err != nil {
		logger.Error("Avatar upload failed",
			zap.String("user_id", userID),
			zap.Error(err))
		metrics.AvatarUploads.WithLabelValues("upload_failed").Inc()
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.store.Update(ctx, store.UsersCollection, userID, store.Record{
		"photoURL": url,
	}); err != nil {
		logger.Error("Failed to save avatar URL",
			zap.String("user_id", userID),
			zap.Error(err))
		metrics.AvatarUploads.WithLabelValues("record_update_failed").Inc()
		return "", fmt.Errorf("save avatar url: %w", err)
	}

	metrics.AvatarUploads.WithLabelValues("success").Inc()

	logger.Info("Avatar updated",
		zap.String("user_id", userID),
		zap.String("url", url))

	return url, nil
}
