package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/batchkit/logger"
	"github.com/kbukum/batchkit/observability"
)

// ProcessArray hands items to h in contiguous windows of opts.Batch, one at a
// time. Empty input returns nil without inspecting h.
func ProcessArray[T any](ctx context.Context, items []T, h Handler[T], opts ArrayOptions) (err error) {
	if len(items) == 0 {
		return nil
	}
	process, err := h.invoker()
	if err != nil {
		return err
	}
	if err := opts.normalize(); err != nil {
		return err
	}

	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := logger.Get("batch").WithContext(ctx)

	ctx, span := observability.StartSpan(ctx, observability.SpanProcessArray, trace.WithAttributes(
		attribute.String(observability.AttrRunID, runID),
		attribute.Int(observability.AttrBatchSize, opts.Batch),
		attribute.Int(observability.AttrItems, len(items)),
	))
	started := time.Now()
	batches := 0
	defer func() {
		finish(ctx, log, nil, kindArray, pathGeneric, batches, started, err)
		observability.EndSpan(span, err)
	}()

	start := 0
	return drive(ctx, opts.Interval, func(ctx context.Context) (bool, error) {
		window := slice(items, start, opts.Batch)
		if len(window) == 0 {
			return true, nil
		}
		if err := invoke(ctx, log, nil, kindArray, batches, window, process); err != nil {
			return false, err
		}
		batches++
		start += opts.Batch
		return false, nil
	})
}

// ProcessArrayAsync runs ProcessArray in a new goroutine and reports its
// result to done.
func ProcessArrayAsync[T any](ctx context.Context, items []T, h Handler[T], opts ArrayOptions, done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	go func() {
		done(ProcessArray(ctx, items, h, opts))
	}()
}

// slice returns items[start:start+n] clamped to the slice bounds.
func slice[T any](items []T, start, n int) []T {
	if start >= len(items) {
		return nil
	}
	end := start + n
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}
