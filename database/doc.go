// Package database provides a sqlite-backed sorted-set store built on GORM.
//
// Members live in a single sorted_set_entries table indexed by
// (set_key, score, value). Store answers rank-window queries for the generic
// batch loop and also implements batch.NativeSortedSetProcessor, walking a
// set with keyset pagination so each window costs one indexed seek no matter
// how deep into the set it is.
//
//	db, err := database.Open(ctx, database.Config{DSN: "sets.db"}, log)
//	store := database.NewStore(db)
//	_ = store.Migrate()
//	proc := batch.New(store) // eligible runs take the keyset path
package database
