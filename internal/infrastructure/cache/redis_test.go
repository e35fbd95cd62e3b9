package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"opticash-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_SelectsDBAndPool(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("s3cret")

	c, err := OpenRedis(context.Background(), Options{Addr: s.Addr(), Password: "s3cret", DB: 2, PoolSize: 4})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options(); got.DB != 2 || got.PoolSize != 4 {
		t.Fatalf("options = db %d pool %d, want 2 and 4", got.DB, got.PoolSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Set(ctx, "idem:k", "v", time.Minute).Err(); err != nil {
		t.Fatalf("SET: %v", err)
	}
	if v, err := s.DB(2).Get("idem:k"); err != nil || v != "v" {
		t.Fatalf("stored %q %v, want v in db 2", v, err)
	}
}

func TestOpenRedis_Failures(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("s3cret")

	cases := []struct {
		name string
		opts Options
		want string
	}{
		{"empty address", Options{}, "empty"},
		{"wrong password", Options{Addr: s.Addr(), Password: "nope"}, s.Addr()},
		{"unresolvable host", Options{Addr: "not-a-real-host:6379"}, "not-a-real-host"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := OpenRedis(context.Background(), tc.opts)
			if err == nil {
				_ = c.Close()
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestOptionsFrom(t *testing.T) {
	cfg := &config.Config{RedisAddr: "redis:6379", RedisPassword: "pw", RedisDB: 3, RedisPoolSize: 8}
	want := Options{Addr: "redis:6379", Password: "pw", DB: 3, PoolSize: 8}
	if got := OptionsFrom(cfg); got != want {
		t.Fatalf("OptionsFrom = %+v, want %+v", got, want)
	}
}
