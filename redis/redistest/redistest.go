// Package redistest starts in-memory Redis servers for tests.
package redistest

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/batchkit/logger"
	"github.com/kbukum/batchkit/redis"
)

// Start runs a miniredis server for the duration of the test.
func Start(t testing.TB) *miniredis.Miniredis {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)
	return mini
}

// Config returns a client configuration pointing at mini.
func Config(mini *miniredis.Miniredis) redis.Config {
	cfg := redis.Config{Addr: mini.Addr()}
	cfg.ApplyDefaults()
	return cfg
}

// NewClient starts a miniredis server and returns a client connected to it.
func NewClient(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mini := Start(t)
	client, err := redis.New(Config(mini), logger.Nop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

// Seed adds n members "m00000".. with scores 0..n-1 to key.
func Seed(t testing.TB, mini *miniredis.Miniredis, key string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := mini.ZAdd(key, float64(i), MemberName(i)); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
}

// MemberName is the value Seed uses for rank i.
func MemberName(i int) string {
	return fmt.Sprintf("m%05d", i)
}
