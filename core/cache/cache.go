package cache

import (
	"context"
	"time"

	"cusoon-api/core/config"
	"cusoon-api/core/constants"
	"cusoon-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON cache in front of event reads. Every mutating path
// (preference submission, invitation responses, optimization) must
// invalidate the owning event's entry.
type Cache interface {
	GetEventJSON(ctx context.Context, eventID string) ([]byte, error)
	SetEventJSON(ctx context.Context, eventID string, payload []byte) error
	InvalidateEvent(ctx context.Context, eventID string) error
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err, "addr", cfg.Addr)
		return nil, err
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr)
	return &redisCache{client: client}, nil
}

// GetEventJSON returns the cached payload, or nil on a cache miss.
func (c *redisCache) GetEventJSON(ctx context.Context, eventID string) ([]byte, error) {
	payload, err := c.client.Get(ctx, constants.EventCachePrefix+eventID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *redisCache) SetEventJSON(ctx context.Context, eventID string, payload []byte) error {
	return c.client.Set(ctx, constants.EventCachePrefix+eventID, payload, constants.EventCacheTTL).Err()
}

func (c *redisCache) InvalidateEvent(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, constants.EventCachePrefix+eventID).Err()
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
