package services

import (
	"context"
	"fmt"

	"github.com/ahlulathar/ahlulathar-api/internal/cache"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/store"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"go.uber.org/zap"
)

// UpdatesService serves the public updates feed and its admin mutations
type UpdatesService struct {
	store store.Store
	cache *cache.UpdatesCache
}

// NewUpdatesService creates a new UpdatesService. The cache must be
// initialized separately during startup.
func NewUpdatesService(docStore store.Store, updatesCache *cache.UpdatesCache) *UpdatesService {
	return &UpdatesService{
		store: docStore,
		cache: updatesCache,
	}
}

// FetchAll loads every update record from the store, newest first.
// Records that fail to decode are skipped with a warning so one bad
// document cannot take down the whole feed.
func FetchAll(docStore store.Store) cache.UpdatesFetcher {
	return func(ctx context.Context) ([]*models.Update, error) {
		records, err := docStore.QueryByField(ctx, store.UpdatesCollection, "", "", 0)
		if err != nil {
			return nil, fmt.Errorf("list updates: %w", err)
		}

		updates := make([]*models.Update, 0, len(records))
		for _, record := range records {
			update, err := models.DecodeUpdate(record)
			if err != nil {
				logger.Warn("Skipping malformed update record", zap.Error(err))
				continue
			}
			updates = append(updates, update)
		}

		models.SortUpdatesNewestFirst(updates)
		return updates, nil
	}
}

// GetUpdates returns the feed, newest first, via the cache
func (s *UpdatesService) GetUpdates(ctx context.Context) ([]*models.Update, error) {
	return s.cache.Get(ctx)
}

// CreateUpdate publishes a new feed entry and invalidates the cache
func (s *UpdatesService) CreateUpdate(ctx context.Context, req *models.CreateUpdateRequest) (*models.Update, error) {
	record := store.Record{
		"title":       req.Title,
		"description": req.Description,
		"date":        req.Date,
		"type":        req.Type,
	}

	id, err := s.store.Insert(ctx, store.UpdatesCollection, record)
	if err != nil {
		logger.Error("Failed to create update", zap.Error(err))
		return nil, fmt.Errorf("create update: %w", err)
	}

	s.cache.Invalidate()

	logger.Info("Update created",
		zap.String("update_id", id),
		zap.String("type", req.Type))

	return &models.Update{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Type:        models.UpdateType(req.Type),
	}, nil
}

// DeleteUpdate removes a feed entry and invalidates the cache
func (s *UpdatesService) DeleteUpdate(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.UpdatesCollection, id); err != nil {
		logger.Error("Failed to delete update",
			zap.String("update_id", id),
			zap.Error(err))
		return fmt.Errorf("delete update: %w", err)
	}

	s.cache.Invalidate()

	logger.Info("Update deleted", zap.String("update_id", id))
	return nil
}
