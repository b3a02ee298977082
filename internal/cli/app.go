package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/component"
	"github.com/kbukum/batchkit/database"
	"github.com/kbukum/batchkit/logger"
	"github.com/kbukum/batchkit/observability"
	"github.com/kbukum/batchkit/redis"
)

// memberStore is a sorted-set store batchctl can also write to.
type memberStore interface {
	batch.SortedSetStore
	Add(ctx context.Context, key string, members ...batch.Member) error
	Remove(ctx context.Context, key string, values ...string) error
}

var (
	_ memberStore = (*redis.Store)(nil)
	_ memberStore = (*database.Store)(nil)
)

// app is the per-invocation state shared by subcommands.
type app struct {
	cfg      *Config
	log      *logger.Logger
	registry *component.Registry
	metrics  *observability.BatchMetrics
	shutdown []func(context.Context) error
}

func newApp(cfg *Config) *app {
	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)
	return &app{
		cfg:      cfg,
		log:      log,
		registry: component.NewRegistry(log.WithComponent("component")),
	}
}

// withStore starts telemetry and the configured store, runs fn, and tears
// everything down again.
func (a *app) withStore(ctx context.Context, fn func(ctx context.Context, store memberStore) error) (err error) {
	defer func() {
		err = errors.Join(err, a.close(context.WithoutCancel(ctx)))
	}()

	if err := a.initTelemetry(ctx); err != nil {
		return err
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, store)
}

func (a *app) openStore(ctx context.Context) (memberStore, error) {
	var (
		comp component.Component
		get  func() memberStore
	)
	switch a.cfg.Store {
	case storeRedis:
		c := redis.NewComponent(a.cfg.Redis, a.log)
		comp, get = c, func() memberStore { return c.RedisStore() }
	case storeSQLite:
		c := database.NewComponent(a.cfg.Database, a.log)
		comp, get = c, func() memberStore { return c.SQLStore() }
	default:
		return nil, fmt.Errorf("unknown store %q", a.cfg.Store)
	}

	if err := a.registry.Register(comp); err != nil {
		return nil, err
	}
	if err := a.registry.StartAll(ctx); err != nil {
		return nil, err
	}
	return get(), nil
}

func (a *app) initTelemetry(ctx context.Context) error {
	if a.cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, a.cfg.Tracing)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		a.shutdown = append(a.shutdown, tp.Shutdown)
	}
	if a.cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, a.cfg.Metrics)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		a.shutdown = append(a.shutdown, mp.Shutdown)
		if a.metrics, err = observability.NewBatchMetrics(observability.Meter(serviceName)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) processor(store batch.SortedSetStore) *batch.Processor {
	return batch.New(store,
		batch.WithLogger(a.log.WithComponent("batch")),
		batch.WithMetrics(a.metrics),
	)
}

func (a *app) close(ctx context.Context) error {
	errs := []error{a.registry.StopAll(ctx)}
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		errs = append(errs, a.shutdown[i](ctx))
	}
	a.shutdown = nil
	return errors.Join(errs...)
}
