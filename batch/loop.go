package batch

import (
	"context"
	"time"
)

// stepFunc fetches and handles one window. It returns true once the
// collection is exhausted.
type stepFunc func(ctx context.Context) (done bool, err error)

// drive runs step until it reports done or fails, pausing between rounds.
func drive(ctx context.Context, interval time.Duration, step stepFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := step(ctx)
		if err != nil || done {
			return err
		}
		if err := pause(ctx, interval); err != nil {
			return err
		}
	}
}

// pause waits for d or until ctx is done. Non-positive durations return at once.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cursor is the current inclusive window. stop >= start always holds.
type cursor struct {
	start, stop int64
	width       int64
}

func newCursor(width int) *cursor {
	return &cursor{start: 0, stop: int64(width), width: int64(width)}
}

func (c *cursor) advance(by int64) {
	c.start += by
	c.stop = c.start + c.width
}
