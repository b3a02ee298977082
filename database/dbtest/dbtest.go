// Package dbtest opens isolated in-memory sqlite stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/database"
	"github.com/kbukum/batchkit/logger"
)

// Config returns a configuration for a private in-memory database.
func Config() database.Config {
	cfg := database.Config{
		DSN:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		AutoMigrate: true,
		LogLevel:    "silent",
	}
	cfg.ApplyDefaults()
	return cfg
}

// Open returns a migrated store on a private in-memory database that is
// closed when the test ends.
func Open(t testing.TB) *database.Store {
	t.Helper()
	db, err := database.Open(context.Background(), Config(), logger.Nop())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := database.NewStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

// Seed adds n members "m00000".. with scores 0..n-1 to key.
func Seed(t testing.TB, store *database.Store, key string, n int) {
	t.Helper()
	members := make([]batch.Member, n)
	for i := range members {
		members[i] = batch.Member{Value: MemberName(i), Score: float64(i)}
	}
	if err := store.Add(context.Background(), key, members...); err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
}

// MemberName is the value Seed uses for rank i.
func MemberName(i int) string {
	return fmt.Sprintf("m%05d", i)
}
