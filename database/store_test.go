package database_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/database/dbtest"
	"github.com/kbukum/batchkit/errors"
	"github.com/kbukum/batchkit/logger"
	"github.com/kbukum/batchkit/util"
)

const key = "users:joindate"

func TestStore_CardAndRange(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.Seed(t, store, key, 25)
	dbtest.Seed(t, store, "other", 5)
	ctx := context.Background()

	n, err := store.SortedSetCard(ctx, key)
	if err != nil || n != 25 {
		t.Fatalf("expected 25 members, got %d, %v", n, err)
	}

	members, err := store.SortedSetRange(ctx, key, 10, 12)
	if err != nil {
		t.Fatalf("SortedSetRange: %v", err)
	}
	if fmt.Sprint(batch.Values(members)) != "[m00010 m00011 m00012]" {
		t.Errorf("unexpected window %v", batch.Values(members))
	}
	for _, m := range members {
		if m.Score != 0 {
			t.Errorf("expected no score, got %v", m.Score)
		}
	}

	members, err = store.SortedSetRangeWithScores(ctx, key, 23, 100)
	if err != nil {
		t.Fatalf("SortedSetRangeWithScores: %v", err)
	}
	if len(members) != 2 || members[1].Score != 24 {
		t.Errorf("unexpected tail window %+v", members)
	}

	members, err = store.SortedSetRange(ctx, key, 25, 30)
	if err != nil || len(members) != 0 {
		t.Errorf("expected empty window past the end, got %v, %v", members, err)
	}
}

func TestStore_OrdersTiesByValue(t *testing.T) {
	store := dbtest.Open(t)
	ctx := context.Background()
	err := store.Add(ctx, key,
		batch.Member{Value: "c", Score: 1},
		batch.Member{Value: "a", Score: 1},
		batch.Member{Value: "z", Score: 0},
		batch.Member{Value: "b", Score: 1},
	)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	members, err := store.SortedSetRange(ctx, key, 0, 10)
	if err != nil {
		t.Fatalf("SortedSetRange: %v", err)
	}
	if got := fmt.Sprint(batch.Values(members)); got != "[z a b c]" {
		t.Errorf("expected [z a b c], got %s", got)
	}
}

func TestStore_AddUpdatesScore(t *testing.T) {
	store := dbtest.Open(t)
	ctx := context.Background()
	if err := store.Add(ctx, key, batch.Member{Value: "a", Score: 1}, batch.Member{Value: "b", Score: 2}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Add(ctx, key, batch.Member{Value: "a", Score: 3}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	n, _ := store.SortedSetCard(ctx, key)
	if n != 2 {
		t.Fatalf("expected 2 members after upsert, got %d", n)
	}
	members, _ := store.SortedSetRangeWithScores(ctx, key, 0, 1)
	want := []batch.Member{{Value: "b", Score: 2}, {Value: "a", Score: 3}}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("member %d: expected %+v, got %+v", i, want[i], members[i])
		}
	}
}

func TestStore_RemoveAndClear(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.Seed(t, store, key, 10)
	ctx := context.Background()

	if err := store.Remove(ctx, key, dbtest.MemberName(0), dbtest.MemberName(1)); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n, _ := store.SortedSetCard(ctx, key); n != 8 {
		t.Errorf("expected 8 after remove, got %d", n)
	}
	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := store.SortedSetCard(ctx, key); n != 0 {
		t.Errorf("expected 0 after clear, got %d", n)
	}
}

func TestStore_NativeWalk(t *testing.T) {
	tests := []struct {
		name      string
		n, size   int
		wantSizes string
	}{
		{"partial last window", 250, 100, "[100 100 50]"},
		{"exact multiple", 200, 100, "[100 100]"},
		{"empty set", 0, 100, "[]"},
		{"default size", 150, 0, "[100 50]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := dbtest.Open(t)
			dbtest.Seed(t, store, key, tc.n)

			var sizes []int
			var values []string
			err := store.ProcessSortedSet(context.Background(), key, func(_ context.Context, members []batch.Member) error {
				sizes = append(sizes, len(members))
				values = append(values, batch.Values(members)...)
				return nil
			}, batch.Options{Batch: tc.size})
			if err != nil {
				t.Fatalf("ProcessSortedSet: %v", err)
			}
			if fmt.Sprint(sizes) != tc.wantSizes {
				t.Errorf("expected sizes %s, got %v", tc.wantSizes, sizes)
			}
			for i, v := range values {
				if v != dbtest.MemberName(i) {
					t.Fatalf("rank %d: expected %s, got %s", i, dbtest.MemberName(i), v)
				}
			}
		})
	}
}

func TestStore_NativeWalkWithScoresAndTies(t *testing.T) {
	store := dbtest.Open(t)
	ctx := context.Background()
	var members []batch.Member
	for i := 0; i < 9; i++ {
		members = append(members, batch.Member{Value: fmt.Sprintf("v%d", i), Score: float64(i / 3)})
	}
	if err := store.Add(ctx, key, members...); err != nil {
		t.Fatalf("Add: %v", err)
	}

	var got []batch.Member
	err := store.ProcessSortedSet(ctx, key, func(_ context.Context, window []batch.Member) error {
		got = append(got, window...)
		return nil
	}, batch.Options{Batch: 2, WithScores: true})
	if err != nil {
		t.Fatalf("ProcessSortedSet: %v", err)
	}
	if len(got) != len(members) {
		t.Fatalf("expected %d members across ties, got %d", len(members), len(got))
	}
	for i := range members {
		if got[i] != members[i] {
			t.Errorf("member %d: expected %+v, got %+v", i, members[i], got[i])
		}
	}
}

func TestStore_NativeWalkStopsOnError(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.Seed(t, store, key, 50)
	boom := fmt.Errorf("boom")
	calls := 0

	err := store.ProcessSortedSet(context.Background(), key, func(context.Context, []batch.Member) error {
		calls++
		return boom
	}, batch.Options{Batch: 10})
	if !stderrors.Is(err, boom) || calls != 1 {
		t.Fatalf("expected to stop after the first error, got %d calls, %v", calls, err)
	}
}

func TestStore_NativeWalkCanceledDuringInterval(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.Seed(t, store, key, 50)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := store.ProcessSortedSet(ctx, key, func(context.Context, []batch.Member) error {
		cancel()
		return nil
	}, batch.Options{Batch: 10, Interval: time.Hour})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProcessor_UsesKeysetPath(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.Seed(t, store, key, 1000)
	proc := batch.New(store, batch.WithLogger(logger.Nop()))
	if !proc.HasNative() {
		t.Fatal("expected sqlite store to provide the native path")
	}

	progress := batch.NewProgressTracker("sqlite", logger.Nop())
	seen := make(map[string]bool)
	err := proc.ProcessSortedSet(context.Background(), key, batch.Direct(func(_ context.Context, members []batch.Member) error {
		for _, m := range members {
			if seen[m.Value] {
				return fmt.Errorf("duplicate member %s", m.Value)
			}
			seen[m.Value] = true
		}
		progress.Incr(int64(len(members)))
		return nil
	}), batch.Options{Batch: 100, Progress: progress})
	if err != nil {
		t.Fatalf("ProcessSortedSet: %v", err)
	}
	if len(seen) != 1000 || progress.Total() != 1000 {
		t.Errorf("expected 1000 members and total, got %d and %d", len(seen), progress.Total())
	}
}

func TestProcessor_GenericPathOverSqlite(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.Seed(t, store, key, 300)
	proc := batch.New(store, batch.WithLogger(logger.Nop()))

	var starts []int64
	calls := 0
	err := proc.ProcessSortedSet(context.Background(), key, batch.Direct(func(context.Context, []batch.Member) error {
		calls++
		return nil
	}), batch.Options{
		Batch: 100,
		DoneIf: func(start, _ int64, _ []batch.Member) bool {
			starts = append(starts, start)
			return false
		},
	})
	if err != nil {
		t.Fatalf("ProcessSortedSet: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected ceil(300/101)=3 invocations, got %d", calls)
	}
	if fmt.Sprint(starts) != "[0 101 202]" {
		t.Errorf("unexpected window starts %v", starts)
	}
}

func TestProcessor_DrainOverSqlite(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.Seed(t, store, key, 120)
	proc := batch.New(store, batch.WithLogger(logger.Nop()))

	processed := 0
	err := proc.ProcessSortedSet(context.Background(), key, batch.Direct(func(ctx context.Context, members []batch.Member) error {
		processed += len(members)
		return store.Remove(ctx, key, batch.Values(members)...)
	}), batch.Options{Batch: 50, AlwaysStartAt: util.Ptr(int64(0))})
	if err != nil {
		t.Fatalf("ProcessSortedSet: %v", err)
	}
	if processed != 120 {
		t.Errorf("expected 120 processed, got %d", processed)
	}
}

func TestStore_ClosedDatabase(t *testing.T) {
	store := dbtest.Open(t)
	dbtest.Seed(t, store, key, 10)
	db := store.DB()
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err := store.SortedSetCard(context.Background(), key)
	if !errors.HasCode(err, errors.ErrCodeStoreFailure) {
		t.Fatalf("expected STORE_FAILURE, got %v", err)
	}
	if appErr, _ := errors.AsAppError(err); !appErr.Retryable {
		t.Error("expected a closed pool to be retryable")
	}
}
