package repository

import (
	"context"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/redis"
)

// redisKV KVRepository backed by Redis strings.
type redisKV struct {
	client *redis.Client
}

// NewRedisKV creates a KVRepository on Redis.
func NewRedisKV(client *redis.Client) KVRepository {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	return r.client.Get(ctx, key)
}

func (r *redisKV) PutAll(ctx context.Context, entries map[string][]byte) error {
	return r.client.PutAll(ctx, entries)
}
