// Package batch iterates large collections in bounded windows, handing each
// window to a caller-supplied handler and waiting for it before fetching the
// next one.
//
// Two iterators are provided:
//
//   - Processor.ProcessSortedSet walks a sorted set held by a SortedSetStore
//     using inclusive rank windows [start, stop]. Stores that implement
//     NativeSortedSetProcessor are handed the whole iteration when the caller
//     asks for no custom termination or advance step.
//   - ProcessArray walks an in-memory slice in contiguous windows.
//
// Handlers may be written in either calling convention:
//
//	batch.Direct(func(ctx context.Context, members []batch.Member) error { ... })
//	batch.Callback(func(ctx context.Context, members []batch.Member, done func(error)) { ... })
//
// # Usage
//
//	proc := batch.New(redisStore, batch.WithLogger(log))
//	err := proc.ProcessSortedSet(ctx, "users:joindate", batch.Direct(migrate), batch.Options{
//	    Batch:    500,
//	    Interval: 50 * time.Millisecond,
//	})
//
// Iteration stops at the first handler or store error; batches already
// processed are not rolled back.
package batch
