// Package redis provides a Redis-backed sorted-set store for batch
// iterations, built on go-redis.
//
// Store maps the batch store surface onto ZCARD and ZRANGE (optionally
// WITHSCORES). Component wraps the client in the component lifecycle so
// batchctl can start, health-check and stop it.
//
//	client, err := redis.New(redis.Config{Addr: "localhost:6379"}, log)
//	proc := batch.New(redis.NewStore(client))
//	err = proc.ProcessSortedSet(ctx, "users:joindate", handler, batch.Options{Batch: 500})
package redis
