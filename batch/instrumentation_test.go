package batch_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/batch/batchtest"
	"github.com/kbukum/batchkit/observability"
)

func TestProcessSortedSet_Instrumentation(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	metrics, err := observability.NewBatchMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewBatchMetrics: %v", err)
	}

	store := batchtest.NewStore()
	store.Fill(testKey, 25)
	proc := newProcessor(store, batch.WithMetrics(metrics))
	if err := proc.ProcessSortedSet(context.Background(), testKey, (&collector{}).handler(), batch.Options{Batch: 9}); err != nil {
		t.Fatalf("ProcessSortedSet: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != observability.SpanProcessSortedSet {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
	events := 0
	for _, e := range spans[0].Events {
		if e.Name == observability.EventBatchProcessed {
			events++
		}
	}
	if events != 3 {
		t.Errorf("expected 3 batch events, got %d", events)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					got[m.Name] += dp.Value
				}
			}
		}
	}
	if got["batch.batches.total"] != 3 || got["batch.items.total"] != 25 {
		t.Errorf("unexpected counters %v", got)
	}
}
