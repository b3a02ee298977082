// Package observability wires OpenTelemetry tracing and metrics into batch
// runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("batchctl"))
//	defer tp.Shutdown(ctx)
//
// Every iteration opens one span; each processed window is recorded as a
// span event.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("batchctl"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewBatchMetrics(observability.Meter("batchctl"))
//	proc := batch.New(store, batch.WithMetrics(metrics))
package observability
