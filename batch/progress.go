package batch

import (
	"sync/atomic"

	"github.com/kbukum/batchkit/logger"
)

// Progress receives the collection size before iteration starts. It is set
// once and not refreshed if the collection changes mid-run.
type Progress interface {
	SetTotal(total int64)
}

// ProgressTracker is a concurrency-safe Progress that handlers advance as they
// work through batches.
type ProgressTracker struct {
	name    string
	log     *logger.Logger
	total   atomic.Int64
	current atomic.Int64
}

// NewProgressTracker creates a tracker that reports through log.
// A nil log uses the "progress" component logger.
func NewProgressTracker(name string, log *logger.Logger) *ProgressTracker {
	if log == nil {
		log = logger.Get("progress")
	}
	return &ProgressTracker{name: name, log: log}
}

// SetTotal implements Progress.
func (p *ProgressTracker) SetTotal(total int64) {
	p.total.Store(total)
}

// Incr adds n processed items and returns the new count.
func (p *ProgressTracker) Incr(n int64) int64 {
	return p.current.Add(n)
}

// Total returns the recorded total.
func (p *ProgressTracker) Total() int64 { return p.total.Load() }

// Current returns the processed count.
func (p *ProgressTracker) Current() int64 { return p.current.Load() }

// Percent returns progress in [0, 100]. Unknown totals report 0.
func (p *ProgressTracker) Percent() float64 {
	total := p.total.Load()
	if total <= 0 {
		return 0
	}
	pct := float64(p.current.Load()) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Report logs the current position.
func (p *ProgressTracker) Report() {
	p.log.Info("progress", logger.Fields(
		"name", p.name,
		logger.FieldItems, p.Current(),
		logger.FieldTotal, p.Total(),
		"percent", int(p.Percent()),
	))
}
