package batch

import (
	"time"

	"github.com/kbukum/batchkit/validation"
)

// DefaultBatchSize is used when Options.Batch or ArrayOptions.Batch is zero.
const DefaultBatchSize = 100

// DoneFunc reports early completion after inspecting a fetched window.
// The window that makes it return true is never handed to the handler.
type DoneFunc func(start, stop int64, members []Member) bool

// Options configures a sorted-set iteration.
type Options struct {
	// Batch is the window width. The window [start, start+Batch] is inclusive.
	Batch int `mapstructure:"batch" validate:"gte=0"`
	// Interval pauses between windows. Zero disables the pause.
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
	// WithScores fetches scores alongside member values.
	WithScores bool `mapstructure:"with_scores"`
	// AlwaysStartAt, when set, is the fixed amount the window start advances
	// each round instead of Batch+1. Zero re-reads the head of the set, which
	// suits handlers that remove what they process.
	AlwaysStartAt *int64 `mapstructure:"always_start_at" validate:"omitempty,gte=0"`
	// DoneIf adds a content-based termination check.
	DoneIf DoneFunc `mapstructure:"-" validate:"-"`
	// Progress receives the set cardinality once, before iterating.
	Progress Progress `mapstructure:"-" validate:"-"`
}

// ArrayOptions configures a slice iteration.
type ArrayOptions struct {
	Batch    int           `mapstructure:"batch" validate:"gte=0"`
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

func (o *Options) normalize() error {
	if err := validation.Validate(o); err != nil {
		return err
	}
	if o.Batch == 0 {
		o.Batch = DefaultBatchSize
	}
	return nil
}

// eligibleForNative reports whether a native processor may take over.
func (o *Options) eligibleForNative() bool {
	return o.DoneIf == nil && o.AlwaysStartAt == nil
}

// step is how far the window start moves after a processed window.
func (o *Options) step() int64 {
	if o.AlwaysStartAt != nil {
		return *o.AlwaysStartAt
	}
	return int64(o.Batch) + 1
}

func (o *ArrayOptions) normalize() error {
	if err := validation.Validate(o); err != nil {
		return err
	}
	if o.Batch == 0 {
		o.Batch = DefaultBatchSize
	}
	return nil
}

func neverDone(int64, int64, []Member) bool { return false }
