package cli

import (
	"fmt"
	"time"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/config"
	"github.com/kbukum/batchkit/database"
	"github.com/kbukum/batchkit/observability"
	"github.com/kbukum/batchkit/redis"
	"github.com/kbukum/batchkit/util"
	"github.com/kbukum/batchkit/validation"
)

const (
	serviceName = "batchctl"

	storeRedis  = "redis"
	storeSQLite = "sqlite"
)

// Config is the batchctl configuration file layout.
//
//	name: batchctl
//	store: redis
//	batch:
//	  size: 500
//	  interval: 250ms
//	redis:
//	  addr: localhost:6379
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Store    string                     `yaml:"store" mapstructure:"store" validate:"oneof=redis sqlite"`
	Batch    BatchConfig                `yaml:"batch" mapstructure:"batch"`
	Redis    redis.Config               `yaml:"redis" mapstructure:"redis"`
	Database database.Config            `yaml:"database" mapstructure:"database"`
	Tracing  observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics  observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// BatchConfig holds iteration defaults that flags may override.
type BatchConfig struct {
	Size        int           `yaml:"size" mapstructure:"size" validate:"gte=0"`
	Interval    time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=0"`
}

// ApplyDefaults implements config.Defaulter.
func (c *Config) ApplyDefaults() {
	c.Name = util.Coalesce(c.Name, serviceName)
	c.ServiceConfig.ApplyDefaults()
	c.Store = util.Coalesce(c.Store, storeRedis)

	if c.Batch.Size == 0 {
		c.Batch.Size = batch.DefaultBatchSize
	}
	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = 4
	}

	c.Redis.ApplyDefaults()
	// batchctl owns the sorted-set table, so it is always migrated.
	c.Database.AutoMigrate = true
	c.Database.ApplyDefaults()

	tracing := observability.DefaultTracerConfig(c.Name)
	c.Tracing.ServiceName = util.Coalesce(c.Tracing.ServiceName, tracing.ServiceName)
	c.Tracing.ServiceVersion = util.Coalesce(c.Tracing.ServiceVersion, c.Version, tracing.ServiceVersion)
	c.Tracing.Environment = util.Coalesce(c.Tracing.Environment, c.Environment)
	c.Tracing.Endpoint = util.Coalesce(c.Tracing.Endpoint, tracing.Endpoint)
	c.Tracing.SampleRate = util.Coalesce(c.Tracing.SampleRate, tracing.SampleRate)

	metrics := observability.DefaultMeterConfig(c.Name)
	c.Metrics.ServiceName = util.Coalesce(c.Metrics.ServiceName, metrics.ServiceName)
	c.Metrics.ServiceVersion = util.Coalesce(c.Metrics.ServiceVersion, c.Version, metrics.ServiceVersion)
	c.Metrics.Environment = util.Coalesce(c.Metrics.Environment, c.Environment)
	c.Metrics.Endpoint = util.Coalesce(c.Metrics.Endpoint, metrics.Endpoint)
	c.Metrics.Interval = util.Coalesce(c.Metrics.Interval, metrics.Interval)
}

// Validate implements config.Defaulter. Only the selected store's section
// is checked.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	switch c.Store {
	case storeRedis:
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	case storeSQLite:
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}
