package server

import (
	"context"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vango-dev/pagefx/internal/config"
	"github.com/vango-dev/pagefx/internal/errors"
	"github.com/vango-dev/pagefx/pkg/pref"
)

const redisPingTimeout = 3 * time.Second

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewStore builds the preference store named by cfg.Pref.Backend. The
// returned closer releases backend connections.
func NewStore(ctx context.Context, cfg *config.Config) (pref.Store, io.Closer, error) {
	switch cfg.Pref.Backend {
	case "", config.BackendMemory:
		return pref.NewMemoryStore(), closerFunc(func() error { return nil }), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Pref.RedisAddr,
			DB:   cfg.Pref.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.New(errors.CodeRedisUnavailable).
				WithDetail("Could not reach " + cfg.Pref.RedisAddr + ".").
				Wrap(err)
		}
		store := pref.NewRedisStore(client,
			pref.WithRedisPrefix(cfg.Pref.Prefix),
			pref.WithRedisTTL(cfg.PrefTTL()),
		)
		return store, closerFunc(func() error {
			_ = store.Close()
			return client.Close()
		}), nil
	default:
		return nil, nil, errors.New(errors.CodePrefBackend).
			WithDetail("Got " + cfg.Pref.Backend + ".")
	}
}
