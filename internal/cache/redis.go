package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/models"
)

// RedisCache implements ResultCache on a Redis instance.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache creates a result cache with the given TTL (5 minutes when
// ttlSeconds <= 0).
func NewRedisCache(client *redis.Client, ttlSeconds int, logger *zap.Logger) *RedisCache {
	ttl := 5 * time.Minute
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get implements ResultCache. Any Redis or decode error is a miss.
func (c *RedisCache) Get(ctx context.Context, q *models.ProcessedQuery) (*models.SearchResponse, bool) {
	key := Key(q)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	c.logger.Debug("result cache hit", zap.String("key", key), zap.String("search_id", q.SearchID))
	return &resp, true
}

// Set implements ResultCache, best-effort.
func (c *RedisCache) Set(ctx context.Context, q *models.ProcessedQuery, resp *models.SearchResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	key := Key(q)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("result cache set failed", zap.String("key", key), zap.Error(err))
	}
}
