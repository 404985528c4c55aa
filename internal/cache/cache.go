// Package cache provides a two-tier response cache for upstream lookups: an
// in-process store in front of an optional shared redis tier. Category and
// CMS content lookups are cached; search results are always served live.
// Redis failures degrade to the in-process tier and never fail a request.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
)

const (
	keyPrefix     = "storefront:"
	scanBatchSize = 100

	defaultCategoryTTL = 5 * time.Minute
	defaultContentTTL  = time.Minute
)

// Config holds cache behaviour settings. TTLs are per entry class; zero
// values fall back to defaults.
type Config struct {
	Enabled     bool
	CategoryTTL time.Duration
	ContentTTL  time.Duration
	MaxEntries  int // in-process tier entry cap
}

// Store is the two-tier cache. The redis client is optional: when nil only
// the in-process tier is used.
type Store struct {
	config Config
	memory *memoryStore
	redis  *redis.Client
	logger *zap.Logger
}

// New creates a cache store. redisClient may be nil for in-process-only
// caching; logger may be nil.
func New(config Config, redisClient *redis.Client, logger *zap.Logger) *Store {
	if config.CategoryTTL <= 0 {
		config.CategoryTTL = defaultCategoryTTL
	}
	if config.ContentTTL <= 0 {
		config.ContentTTL = defaultContentTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		config: config,
		memory: newMemoryStore(config.MaxEntries),
		redis:  redisClient,
		logger: logger,
	}
}

// Enabled reports whether caching is active.
func (s *Store) Enabled() bool {
	return s.config.Enabled
}

// Flush drops every cached entry from both tiers. Redis keys are removed
// with SCAN and DEL so unrelated keys in a shared instance survive.
func (s *Store) Flush(ctx context.Context) error {
	s.memory.flush()
	if s.redis == nil {
		return nil
	}

	var cursor uint64
	var deleted int64
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, keyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return internalErrors.NewUpstreamError("redis", "flush cache", 0, err)
		}
		if len(keys) > 0 {
			n, err := s.redis.Del(ctx, keys...).Result()
			if err != nil {
				return internalErrors.NewUpstreamError("redis", "flush cache", 0, err)
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	s.logger.Info("flushed cache", zap.Int64("redis_keys", deleted))
	return nil
}

// redisGet loads and decodes a redis entry into out. A miss, a transport
// failure, and a corrupted entry all report false; failures are logged and
// corrupted entries removed.
func (s *Store) redisGet(ctx context.Context, key string, out interface{}) bool {
	if s.redis == nil {
		return false
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		s.logger.Warn("redis get failed, falling back to upstream",
			zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("dropping corrupted cache entry",
			zap.String("key", key), zap.Error(err))
		_ = s.redis.Del(ctx, key)
		return false
	}
	return true
}

// redisSet encodes and stores a redis entry. Failures are logged, never
// returned.
func (s *Store) redisSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode cache entry",
			zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

func categoryCacheKey(siteID, categoryID string) string {
	return keyPrefix + "category:" + siteID + ":" + categoryID
}

func contentIDCacheKey(locale, id string) string {
	return keyPrefix + "content:" + locale + ":id:" + id
}

func contentKeyCacheKey(locale, key string) string {
	return keyPrefix + "content:" + locale + ":key:" + key
}

func slotsCacheKey(siteID, categoryID, locale string) string {
	return keyPrefix + "slots:" + siteID + ":" + categoryID + ":" + locale
}
