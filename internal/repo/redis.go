package repo

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKV хранит значения в Redis без TTL: коллекция живет, пока ее не перезапишут.
type RedisKV struct {
	client *redis.Client
	prefix string
}

func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
