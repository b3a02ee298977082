package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/component"
	"github.com/kbukum/batchkit/logger"
	"github.com/kbukum/batchkit/resilience"
)

// Component owns a Client and exposes it as a sorted-set store once started.
type Component struct {
	client *Client
	store  *Store
	cfg    Config
	log    *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Redis component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Get("redis")
	}
	return &Component{
		cfg: cfg,
		log: log.WithComponent("redis"),
	}
}

// Client returns the underlying *Client, or nil if not started.
func (c *Component) Client() *Client {
	return c.client
}

// Store returns the sorted-set store, or nil if not started.
func (c *Component) Store() batch.SortedSetStore {
	if c.store == nil {
		return nil
	}
	return c.store
}

// RedisStore returns the concrete store, or nil if not started.
func (c *Component) RedisStore() *Store {
	return c.store
}

// Name returns the component name.
func (c *Component) Name() string { return "redis" }

// Start creates the client and verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}
	err = resilience.RetryFunc(ctx, resilience.RetryConfig{
		MaxAttempts: c.cfg.MaxRetries,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			c.log.Warn("redis ping failed, retrying", logger.Fields(
				"attempt", attempt,
				logger.FieldError, err.Error(),
				"backoff", backoff.String(),
			))
		},
	}, func() error {
		return client.Ping(ctx)
	})
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start ping: %w", err)
	}
	c.client = client
	c.store = NewStore(client)
	return nil
}

// Stop closes the Redis connection.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client, c.store = nil, nil
	return err
}

// Health pings Redis.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "redis not initialized",
		}
	}
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe summarizes the connection settings.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize),
	}
}
