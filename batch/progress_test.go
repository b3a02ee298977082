package batch_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/logger"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	p := batch.NewProgressTracker("users", logger.NewWithWriter(&buf, "info"))

	if p.Percent() != 0 {
		t.Errorf("expected 0%% with unknown total, got %v", p.Percent())
	}
	p.SetTotal(200)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Incr(10)
		}()
	}
	wg.Wait()

	if p.Current() != 100 || p.Percent() != 50 {
		t.Errorf("expected 100 items (50%%), got %d (%v%%)", p.Current(), p.Percent())
	}
	p.Incr(500)
	if p.Percent() != 100 {
		t.Errorf("expected percent capped at 100, got %v", p.Percent())
	}

	p.Report()
	if !strings.Contains(buf.String(), `"name":"users"`) {
		t.Errorf("expected report to carry the tracker name, got %s", buf.String())
	}
}
