package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "helpdesk:session:"

// RedisClient is the subset of redis.Cmdable used by RedisHandler.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisHandler stores sessions as Redis keys expiring after the lifetime.
type RedisHandler struct {
	client   RedisClient
	lifetime time.Duration
}

// NewRedisHandler builds a Redis-backed handler.
func NewRedisHandler(client RedisClient, lifetime time.Duration) *RedisHandler {
	return &RedisHandler{client: client, lifetime: lifetime}
}

func (h *RedisHandler) Read(ctx context.Context, id string) ([]byte, error) {
	data, err := h.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return data, nil
}

func (h *RedisHandler) Write(ctx context.Context, id string, data []byte) error {
	if err := h.client.Set(ctx, redisKeyPrefix+id, data, h.lifetime).Err(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (h *RedisHandler) Destroy(ctx context.Context, id string) error {
	if err := h.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// GC is a no-op: Redis expires keys on its own.
func (h *RedisHandler) GC(context.Context) (int64, error) {
	return 0, nil
}
