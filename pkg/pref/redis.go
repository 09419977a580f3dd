package pref

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreClosed is returned when operations are attempted on a closed store.
var ErrStoreClosed = errors.New("pref: store is closed")

// RedisClient is the subset of *redis.Client the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps preferences in Redis, shared between server replicas.
type RedisStore struct {
	client RedisClient
	prefix string
	ttl    time.Duration
	closed atomic.Bool
}

// RedisStoreOption configures RedisStore behavior.
type RedisStoreOption func(*RedisStore)

// WithRedisPrefix sets the key prefix. Default: "pagefx:pref:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(r *RedisStore) {
		r.prefix = prefix
	}
}

// WithRedisTTL expires keys after ttl. Zero keeps them forever.
func WithRedisTTL(ttl time.Duration) RedisStoreOption {
	return func(r *RedisStore) {
		r.ttl = ttl
	}
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client RedisClient, opts ...RedisStoreOption) *RedisStore {
	r := &RedisStore{client: client, prefix: "pagefx:pref:"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if r.closed.Load() {
		return "", ErrStoreClosed
	}
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if r.closed.Load() {
		return ErrStoreClosed
	}
	return r.client.Set(ctx, r.key(key), value, r.ttl).Err()
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if r.closed.Load() {
		return ErrStoreClosed
	}
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close marks the store as closed. The client is left open; it may be
// shared.
func (r *RedisStore) Close() error {
	r.closed.Store(true)
	return nil
}

// Prefix returns the key prefix.
func (r *RedisStore) Prefix() string {
	return r.prefix
}
