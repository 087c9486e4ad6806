package cache

import (
	"context"
	"os"
	"time"

	"modelcatalog/internal/core"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "modelcatalog:"

// RedisCache implements core.Cache on Redis so that multiple instances share
// one resolution cache. Values must be serialized byte slices or strings;
// non-serialized values are dropped with a warning.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
	logger core.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(url string, logger core.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to Redis cache")
	return &RedisCache{client: client, ctx: ctx, logger: logger}, nil
}

// Get retrieves a cached value as a byte slice.
func (rc *RedisCache) Get(key string) (any, bool) {
	val, err := rc.client.Get(rc.ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			rc.logger.Warn("Redis get failed for %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// Set stores a serialized value with the given TTL.
func (rc *RedisCache) Set(key string, value any, duration time.Duration) {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		rc.logger.Warn("Redis cache requires serialized values, dropping key %s", key)
		return
	}

	if err := rc.client.Set(rc.ctx, redisKeyPrefix+key, data, duration).Err(); err != nil {
		rc.logger.Warn("Redis set failed for %s: %v", key, err)
	}
}

// Stop closes the Redis connection.
func (rc *RedisCache) Stop() {
	_ = rc.client.Close()
}

// InitCache selects the resolution cache store: Redis when REDIS_URL is set
// and reachable, otherwise the in-process LRU.
func InitCache(logger core.Logger) core.Cache {
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisCache, err := NewRedisCache(redisURL, logger)
		if err != nil {
			logger.Warn("Failed to initialize Redis cache: %v, falling back to in-process LRU", err)
			return NewCache()
		}
		logger.Info("Using Redis resolution cache")
		return redisCache
	}

	logger.Info("Using in-process LRU resolution cache")
	return NewCache()
}

var _ core.Cache = (*RedisCache)(nil)
