// Package cache holds a cache-aside store for user records.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pinboard-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// UserCache caches user records by id. Get returns a nil user on a miss, together with the
// generation to pass to Set. Set skips the write when the user was invalidated after that Get.
type UserCache interface {
	Get(ctx context.Context, id string) (*models.User, int64, error)
	Set(ctx context.Context, user *models.User, generation int64) error
	Invalidate(ctx context.Context, ids ...string) error
}

func userKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func generationKey(id string) string {
	return fmt.Sprintf("user:%s:gen", id)
}

// setIfCurrent writes KEYS[1] only while KEYS[2] still holds the generation read before the miss
var setIfCurrent = redis.NewScript(`
if tonumber(redis.call("GET", KEYS[2]) or "0") ~= tonumber(ARGV[2]) then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// RedisUserCache stores users as JSON under user:<id>
type RedisUserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisUserCache creates a redis backed user cache
func NewRedisUserCache(rdb *redis.Client, ttl time.Duration) *RedisUserCache {
	return &RedisUserCache{rdb: rdb, ttl: ttl}
}

func (c *RedisUserCache) Get(ctx context.Context, id string) (*models.User, int64, error) {
	var userCmd, generationCmd *redis.StringCmd
	_, err := c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		userCmd = p.Get(ctx, userKey(id))
		generationCmd = p.Get(ctx, generationKey(id))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("failed to read cached user: %w", err)
	}

	generation, err := generationCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("failed to read user generation: %w", err)
	}

	value, err := userCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, generation, nil
		}
		return nil, 0, fmt.Errorf("failed to read cached user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return nil, generation, fmt.Errorf("failed to decode cached user: %w", err)
	}
	return &user, generation, nil
}

func (c *RedisUserCache) Set(ctx context.Context, user *models.User, generation int64) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	keys := []string{userKey(user.ID), generationKey(user.ID)}
	if err := setIfCurrent.Run(ctx, c.rdb, keys, data, generation, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}
	return nil
}

// Invalidate drops the cached users and bumps their generations
func (c *RedisUserCache) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range ids {
			p.Incr(ctx, generationKey(id))
			p.Del(ctx, userKey(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cached users: %w", err)
	}
	return nil
}

// Noop is used when redis is disabled
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.User, int64, error) { return nil, 0, nil }
func (Noop) Set(context.Context, *models.User, int64) error           { return nil }
func (Noop) Invalidate(context.Context, ...string) error              { return nil }
