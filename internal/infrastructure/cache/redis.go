// Package cache opens the redis client that backs the payment idempotency store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opticash-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Options mirror the REDIS_* settings.
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// OptionsFrom copies the redis settings out of cfg.
func OptionsFrom(cfg *config.Config) Options {
	return Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, PoolSize: cfg.RedisPoolSize}
}

// OpenRedis returns a client that answered PING. The client is closed when the ping fails.
func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	if o.Addr == "" {
		return nil, errors.New("redis address is empty")
	}
	r := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		PoolSize:     o.PoolSize,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.Ping(pctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("ping redis %s: %w", o.Addr, err)
	}
	return r, nil
}
