package batch

import (
	"context"
	"sync"

	"github.com/kbukum/batchkit/errors"
)

// Convention identifies how a handler reports completion.
type Convention int

const (
	// ConventionDirect handlers return their result.
	ConventionDirect Convention = iota + 1
	// ConventionCallback handlers report their result through a done callback.
	ConventionCallback
)

// String returns the convention name.
func (c Convention) String() string {
	switch c {
	case ConventionDirect:
		return "direct"
	case ConventionCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// Func processes one window and returns when it is finished.
type Func[T any] func(ctx context.Context, items []T) error

// CallbackFunc processes one window and calls done exactly once when finished.
// done may be called from another goroutine.
type CallbackFunc[T any] func(ctx context.Context, items []T, done func(error))

// Handler is a batch handler in either calling convention. The zero Handler
// is invalid and rejected at call entry.
type Handler[T any] struct {
	convention Convention
	direct     Func[T]
	callback   CallbackFunc[T]
}

// Direct wraps a handler that returns its result.
func Direct[T any](fn Func[T]) Handler[T] {
	return Handler[T]{convention: ConventionDirect, direct: fn}
}

// Callback wraps a handler that reports its result through a callback.
func Callback[T any](fn CallbackFunc[T]) Handler[T] {
	return Handler[T]{convention: ConventionCallback, callback: fn}
}

// Convention returns the handler's calling convention, or 0 if unset.
func (h Handler[T]) Convention() Convention {
	return h.convention
}

// invoker resolves the handler into the uniform Func form.
func (h Handler[T]) invoker() (Func[T], error) {
	switch {
	case h.convention == ConventionDirect && h.direct != nil:
		return h.direct, nil
	case h.convention == ConventionCallback && h.callback != nil:
		return awaitCallback(h.callback), nil
	default:
		return nil, errors.InvalidArgument("handler", "handler must be a non-nil function")
	}
}

// awaitCallback adapts a callback-style handler so the caller can block on it.
// Extra done calls are ignored.
func awaitCallback[T any](fn CallbackFunc[T]) Func[T] {
	return func(ctx context.Context, items []T) error {
		result := make(chan error, 1)
		var once sync.Once
		fn(ctx, items, func(err error) {
			once.Do(func() { result <- err })
		})
		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
