package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheMetrics records cache lookup outcomes. Implemented by the
// metrics service; nil disables instrumentation.
type CacheMetrics interface {
	RecordCacheLookup(hit bool)
}

// CachedAdapter decorates a remote adapter with a Redis read-through
// cache per collection. Cache failures are logged and degrade to the
// remote store, they are never surfaced to callers.
type CachedAdapter struct {
	remote  Adapter
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics CacheMetrics
}

// NewCachedAdapter wraps remote with a Redis cache.
func NewCachedAdapter(remote Adapter, client *redis.Client, ttl time.Duration, logger *zap.Logger, metrics CacheMetrics) *CachedAdapter {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedAdapter{remote: remote, client: client, ttl: ttl, logger: logger, metrics: metrics}
}

func cacheKey(name Collection) string {
	return fmt.Sprintf("syncstore:%s", name)
}

// LoadCollection serves from the cache when possible, falling back to
// the remote store and populating the cache on a miss. A miss racing a
// concurrent SaveRecord invalidation can repopulate the key with the
// pre-save snapshot; such an entry is stale for at most the TTL.
func (a *CachedAdapter) LoadCollection(ctx context.Context, name Collection) ([]RawRecord, error) {
	key := cacheKey(name)
	if cached, err := a.client.Get(ctx, key).Bytes(); err == nil {
		var records []RawRecord
		if err := json.Unmarshal(cached, &records); err == nil {
			a.recordLookup(true)
			return records, nil
		}
		a.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		if err := a.client.Del(ctx, key).Err(); err != nil {
			a.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		}
	} else if err != redis.Nil {
		a.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	a.recordLookup(false)

	records, err := a.remote.LoadCollection(ctx, name)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(records); err == nil {
		if err := a.client.Set(ctx, key, encoded, a.ttl).Err(); err != nil {
			a.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return records, nil
}

// SaveRecord delegates to the remote store and invalidates the
// collection's cache entry on success.
func (a *CachedAdapter) SaveRecord(ctx context.Context, name Collection, record interface{}) (string, error) {
	id, err := a.remote.SaveRecord(ctx, name, record)
	if err != nil {
		return "", err
	}
	if err := a.client.Del(ctx, cacheKey(name)).Err(); err != nil {
		a.logger.Warn("cache invalidation failed", zap.String("collection", string(name)), zap.Error(err))
	}
	return id, nil
}

func (a *CachedAdapter) recordLookup(hit bool) {
	if a.metrics != nil {
		a.metrics.RecordCacheLookup(hit)
	}
}
