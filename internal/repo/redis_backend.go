package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis creates a Redis client and verifies the connection with a ping.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisBackend stores each blob as a plain string value under Prefix+key.
// Values never expire.
type RedisBackend struct {
	Client *redis.Client
	Prefix string
}

// NewRedisBackend wraps client; prefix namespaces every key.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{Client: client, Prefix: prefix}
}

// Load returns the value under key, or ErrNotFound.
func (b *RedisBackend) Load(ctx context.Context, key string) ([]byte, error) {
	v, err := b.Client.Get(ctx, b.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Save replaces the value under key.
func (b *RedisBackend) Save(ctx context.Context, key string, blob []byte) error {
	return b.Client.Set(ctx, b.Prefix+key, blob, 0).Err()
}

// Delete removes key.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.Client.Del(ctx, b.Prefix+key).Err()
}
