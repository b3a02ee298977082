package database

import (
	"context"
	"fmt"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/component"
	"github.com/kbukum/batchkit/logger"
)

// Component owns the sqlite connection and exposes it as a sorted-set store
// once started.
type Component struct {
	db    *DB
	store *Store
	cfg   Config
	log   *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Get("database")
	}
	return &Component{
		cfg: cfg,
		log: log.WithComponent("database"),
	}
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

// Store returns the sorted-set store, or nil if not started.
func (c *Component) Store() batch.SortedSetStore {
	if c.store == nil {
		return nil
	}
	return c.store
}

// SQLStore returns the concrete store, or nil if not started.
func (c *Component) SQLStore() *Store {
	return c.store
}

// Name returns the component name.
func (c *Component) Name() string { return "sqlite" }

// Start opens the database and, when enabled, migrates the sorted-set table.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	store := NewStore(db)
	if c.cfg.AutoMigrate {
		if err := store.Migrate(); err != nil {
			_ = db.Close()
			return fmt.Errorf("database auto-migrate: %w", err)
		}
	}
	c.db, c.store = db, store
	return nil
}

// Stop closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db, c.store = nil, nil
	return err
}

// Health pings the database and reports pool usage.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not initialized",
		}
	}
	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	open, inUse, idle := c.db.Stats()
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("open=%d in_use=%d idle=%d", open, inUse, idle),
	}
}

// Describe summarizes the connection settings.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s pool=%d/%d", c.cfg.DSN, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return component.Description{
		Name:    "SQLite",
		Type:    "sqlite",
		Details: details,
	}
}
