package batch

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/batchkit/errors"
	"github.com/kbukum/batchkit/logger"
	"github.com/kbukum/batchkit/observability"
)

const (
	kindSortedSet = "sorted_set"
	kindArray     = "array"

	pathGeneric = "generic"
	pathNative  = "native"
)

// Processor runs sorted-set iterations against one store. It holds no
// per-call state and is safe for concurrent use.
type Processor struct {
	store   SortedSetStore
	native  NativeSortedSetProcessor
	log     *logger.Logger
	metrics *observability.BatchMetrics
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the processor logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// WithMetrics attaches OpenTelemetry batch instruments.
func WithMetrics(m *observability.BatchMetrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// WithoutNative disables the store's native fast path even if it has one.
func WithoutNative() Option {
	return func(p *Processor) { p.native = nil }
}

// New creates a Processor. The native fast path is detected here, once.
func New(store SortedSetStore, opts ...Option) *Processor {
	p := &Processor{
		store: store,
		log:   logger.Get("batch"),
	}
	if native, ok := store.(NativeSortedSetProcessor); ok {
		p.native = native
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HasNative reports whether eligible iterations are delegated to the store.
func (p *Processor) HasNative() bool {
	return p.native != nil
}

// ProcessSortedSet hands every window of the sorted set at key to h, one at a
// time, until a fetch comes back empty or opts.DoneIf reports completion.
func (p *Processor) ProcessSortedSet(ctx context.Context, key string, h Handler[Member], opts Options) (err error) {
	process, err := h.invoker()
	if err != nil {
		return err
	}
	if err := opts.normalize(); err != nil {
		return err
	}

	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := p.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldSetKey, key))

	ctx, span := observability.StartSpan(ctx, observability.SpanProcessSortedSet, trace.WithAttributes(
		attribute.String(observability.AttrSetKey, key),
		attribute.String(observability.AttrRunID, runID),
		attribute.Int(observability.AttrBatchSize, opts.Batch),
	))
	started := time.Now()
	path := pathGeneric
	batches := 0
	defer func() {
		finish(ctx, log, p.metrics, kindSortedSet, path, batches, started, err)
		observability.EndSpan(span, err)
	}()

	if opts.Progress != nil {
		total, cardErr := p.store.SortedSetCard(ctx, key)
		if cardErr != nil {
			return storeError("card", key, cardErr)
		}
		opts.Progress.SetTotal(total)
	}

	counted := func(ctx context.Context, members []Member) error {
		index := batches
		batches++
		return invoke(ctx, log, p.metrics, kindSortedSet, index, members, process)
	}

	if p.native != nil && opts.eligibleForNative() {
		path = pathNative
		span.SetAttributes(attribute.String(observability.AttrPath, path))
		log.Debug("delegating to native sorted set processor")
		if nativeErr := p.native.ProcessSortedSet(ctx, key, counted, opts); nativeErr != nil {
			return storeError("native_process", key, nativeErr)
		}
		return nil
	}
	span.SetAttributes(attribute.String(observability.AttrPath, path))

	doneIf := opts.DoneIf
	if doneIf == nil {
		doneIf = neverDone
	}
	fetch := p.store.SortedSetRange
	if opts.WithScores {
		fetch = p.store.SortedSetRangeWithScores
	}
	cur := newCursor(opts.Batch)
	step := opts.step()

	return drive(ctx, opts.Interval, func(ctx context.Context) (bool, error) {
		members, fetchErr := fetch(ctx, key, cur.start, cur.stop)
		if fetchErr != nil {
			return false, storeError("range", key, fetchErr)
		}
		if len(members) == 0 || doneIf(cur.start, cur.stop, members) {
			log.Debug("iteration complete", logger.WindowFields(batches, cur.start, cur.stop))
			return true, nil
		}
		log.Debug("window fetched", logger.WindowFields(batches, cur.start, cur.stop))
		if err := counted(ctx, members); err != nil {
			return false, err
		}
		cur.advance(step)
		return false, nil
	})
}

// ProcessSortedSetAsync runs ProcessSortedSet in a new goroutine and reports
// its result to done.
func (p *Processor) ProcessSortedSetAsync(ctx context.Context, key string, h Handler[Member], opts Options, done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	go func() {
		done(p.ProcessSortedSet(ctx, key, h, opts))
	}()
}

// invoke runs one window through process, wrapping handler failures.
func invoke[T any](ctx context.Context, log *logger.Logger, metrics *observability.BatchMetrics, kind string, index int, items []T, process Func[T]) error {
	if err := process(ctx, items); err != nil {
		if isContextErr(err) {
			return err
		}
		log.Warn("batch handler failed", logger.MergeFields(
			logger.ErrorFields("process", err),
			logger.Fields(logger.FieldBatchIndex, index),
		))
		return errors.ProcessingFailure(index, err)
	}
	metrics.RecordBatch(ctx, kind, len(items))
	trace.SpanFromContext(ctx).AddEvent(observability.EventBatchProcessed, trace.WithAttributes(
		attribute.Int(observability.AttrBatchIndex, index),
		attribute.Int(observability.AttrItems, len(items)),
	))
	return nil
}

func finish(ctx context.Context, log *logger.Logger, metrics *observability.BatchMetrics, kind, path string, batches int, started time.Time, err error) {
	elapsed := time.Since(started)
	status := "ok"
	if err != nil {
		status = "error"
		code := string(errors.CodeOf(err))
		if code == "" {
			code = "CANCELED"
		}
		metrics.RecordError(ctx, kind, code)
		log.Error("iteration failed", logger.MergeFields(
			logger.ErrorFields(kind, err),
			logger.Fields(logger.FieldBatches, batches, logger.FieldPath, path),
		))
	} else {
		log.Debug("iteration finished", logger.MergeFields(
			logger.DurationFields(kind, elapsed),
			logger.Fields(logger.FieldBatches, batches, logger.FieldPath, path),
		))
	}
	metrics.RecordRun(ctx, kind, path, status, elapsed)
}

// storeError wraps a store failure. Context errors and errors the store
// already classified pass through untouched.
func storeError(op, key string, err error) error {
	if isContextErr(err) || errors.IsAppError(err) {
		return err
	}
	return errors.StoreFailure(op, key, err)
}

func isContextErr(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
