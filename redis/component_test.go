package redis_test

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/batchkit/component"
	"github.com/kbukum/batchkit/logger"
	"github.com/kbukum/batchkit/redis"
	"github.com/kbukum/batchkit/redis/redistest"
)

func TestComponent_Lifecycle(t *testing.T) {
	mini := redistest.Start(t)
	c := redis.NewComponent(redistest.Config(mini), logger.Nop())
	ctx := context.Background()

	if c.Store() != nil {
		t.Fatal("expected nil store before start")
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Store() == nil || c.Client() == nil {
		t.Fatal("expected store and client after start")
	}
	if h := c.Health(ctx); !h.Healthy() {
		t.Errorf("expected healthy, got %+v", h)
	}
	if !strings.Contains(c.Describe().Details, mini.Addr()) {
		t.Errorf("expected address in description, got %q", c.Describe().Details)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.Store() != nil {
		t.Error("expected nil store after stop")
	}
}

func TestComponent_StartFailsWhenUnreachable(t *testing.T) {
	mini := redistest.Start(t)
	cfg := redistest.Config(mini)
	mini.Close()
	cfg.MaxRetries = 1
	cfg.DialTimeout = "100ms"

	c := redis.NewComponent(cfg, logger.Nop())
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     redis.Config
		wantErr bool
	}{
		{"defaults", redis.Config{}, false},
		{"bad timeout", redis.Config{DialTimeout: "soon"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
