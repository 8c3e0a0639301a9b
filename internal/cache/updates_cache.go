package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/ahlulathar/ahlulathar-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const updatesCacheKey = "updates"

// UpdatesFetcher loads the full updates list from the backing store
type UpdatesFetcher func(ctx context.Context) ([]*models.Update, error)

// UpdatesCache manages the in-memory cache for the public updates feed
type UpdatesCache struct {
	cache   *gocache.Cache
	fetcher UpdatesFetcher
	ttl     time.Duration
	mu      sync.RWMutex
	ready   bool
}

// NewUpdatesCache creates a new updates cache with the given TTL
func NewUpdatesCache(fetcher UpdatesFetcher, ttl time.Duration) *UpdatesCache {
	return &UpdatesCache{
		cache:   gocache.New(ttl, time.Minute),
		fetcher: fetcher,
		ttl:     ttl,
		ready:   false,
	}
}

// Initialize performs initial cache population (synchronous, blocks until ready)
// Should be called during application startup before accepting requests
func (uc *UpdatesCache) Initialize(ctx context.Context) error {
	logger.Info("Initializing updates cache...")
	_, err := uc.refresh(ctx)
	if err != nil {
		logger.Error("Failed to initialize updates cache", zap.Error(err))
		return err
	}

	uc.mu.Lock()
	uc.ready = true
	uc.mu.Unlock()

	logger.Info("Updates cache initialized successfully")
	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (uc *UpdatesCache) IsReady() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.ready
}

// Get retrieves updates from cache or fetches them on a miss
func (uc *UpdatesCache) Get(ctx context.Context) ([]*models.Update, error) {
	if !uc.IsReady() {
		return nil, fmt.Errorf("updates cache not initialized")
	}

	if data, found := uc.cache.Get(updatesCacheKey); found {
		logger.Debug("Updates cache hit")
		metrics.CacheHits.WithLabelValues(updatesCacheKey).Inc()
		updates, ok := data.([]*models.Update)
		if !ok {
			logger.Error("Invalid updates cache data type")
			uc.cache.Delete(updatesCacheKey)
			return nil, fmt.Errorf("invalid cache data type")
		}
		return updates, nil
	}

	logger.Info("Updates cache miss, fetching from store")
	metrics.CacheMisses.WithLabelValues(updatesCacheKey).Inc()

	return uc.refresh(ctx)
}

// Invalidate drops the cached list so the next read refetches.
// Called after an update is created or deleted.
func (uc *UpdatesCache) Invalidate() {
	uc.cache.Delete(updatesCacheKey)
	logger.Debug("Updates cache invalidated")
}

// refresh fetches updates from the store and repopulates the cache
func (uc *UpdatesCache) refresh(ctx context.Context) ([]*models.Update, error) {
	updates, err := uc.fetcher(ctx)
	if err != nil {
		logger.Error("Failed to refresh updates cache", zap.Error(err))
		return nil, err
	}

	uc.cache.Set(updatesCacheKey, updates, uc.ttl)

	logger.Info("Updates cache refreshed", zap.Int("count", len(updates)))

	return updates, nil
}
