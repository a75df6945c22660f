package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "store:"

// RedisStore keeps each collection snapshot as one JSON value under
// store:<collection>. Snapshots never expire.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore pings the server so a misconfigured address fails at
// startup rather than on the first request.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Load(ctx context.Context, collection string, v any) (bool, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+collection).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s snapshot: %w", collection, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		log.Printf("storage: corrupt %s snapshot, treating as empty: %v", collection, err)
		return false, nil
	}
	return true, nil
}

func (r *RedisStore) Save(ctx context.Context, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", collection, err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+collection, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s snapshot: %w", collection, err)
	}
	return nil
}
