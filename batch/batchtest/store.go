// Package batchtest provides in-memory sorted-set stores for exercising batch
// iterations in tests.
package batchtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/batchkit/batch"
)

// Call is one recorded store operation.
type Call struct {
	Op          string
	Key         string
	Start, Stop int64
}

// Store is an in-memory SortedSetStore that records every call.
type Store struct {
	mu    sync.Mutex
	sets  map[string][]batch.Member
	calls []Call

	// FailOn makes the n-th (1-based) call of the named operation return Err.
	FailOn map[string]int
	// Err is returned by failing operations.
	Err error
}

var _ batch.SortedSetStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sets:   make(map[string][]batch.Member),
		FailOn: make(map[string]int),
		Err:    fmt.Errorf("batchtest: injected store failure"),
	}
}

// Add inserts or updates a member, keeping the set ordered by score then value.
func (s *Store) Add(key string, score float64, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.sets[key]
	for i, m := range members {
		if m.Value == value {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	members = append(members, batch.Member{Value: value, Score: score})
	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score < members[j].Score
		}
		return members[i].Value < members[j].Value
	})
	s.sets[key] = members
}

// Fill adds n members named "m00000".."m<n-1>" with scores 0..n-1.
func (s *Store) Fill(key string, n int) {
	for i := 0; i < n; i++ {
		s.Add(key, float64(i), MemberName(i))
	}
}

// MemberName is the value Fill uses for rank i.
func MemberName(i int) string {
	return fmt.Sprintf("m%05d", i)
}

// Remove deletes members from the set.
func (s *Store) Remove(key string, values ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]struct{}, len(values))
	for _, v := range values {
		drop[v] = struct{}{}
	}
	kept := s.sets[key][:0]
	for _, m := range s.sets[key] {
		if _, ok := drop[m.Value]; !ok {
			kept = append(kept, m)
		}
	}
	s.sets[key] = kept
}

// Calls returns a copy of every recorded call.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsFor returns the recorded calls of one operation.
func (s *Store) CallsFor(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// RangeCalls counts range fetches with or without scores.
func (s *Store) RangeCalls() int {
	return len(s.CallsFor(OpRange)) + len(s.CallsFor(OpRangeWithScores))
}

// Operation names recorded in Call.Op.
const (
	OpCard            = "card"
	OpRange           = "range"
	OpRangeWithScores = "range_with_scores"
	OpNative          = "native"
)

func (s *Store) record(op, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: op, Key: key, Start: start, Stop: stop})
	if n, ok := s.FailOn[op]; ok && n > 0 {
		count := 0
		for _, c := range s.calls {
			if c.Op == op {
				count++
			}
		}
		if count == n {
			return s.Err
		}
	}
	return nil
}

// SortedSetCard implements batch.SortedSetStore.
func (s *Store) SortedSetCard(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.record(OpCard, key, 0, 0); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sets[key])), nil
}

// SortedSetRange implements batch.SortedSetStore.
func (s *Store) SortedSetRange(ctx context.Context, key string, start, stop int64) ([]batch.Member, error) {
	members, err := s.rangeOf(ctx, OpRange, key, start, stop)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].Score = 0
	}
	return members, nil
}

// SortedSetRangeWithScores implements batch.SortedSetStore.
func (s *Store) SortedSetRangeWithScores(ctx context.Context, key string, start, stop int64) ([]batch.Member, error) {
	return s.rangeOf(ctx, OpRangeWithScores, key, start, stop)
}

func (s *Store) rangeOf(ctx context.Context, op, key string, start, stop int64) ([]batch.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.record(op, key, start, stop); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return window(s.sets[key], start, stop), nil
}

// window copies the inclusive rank range [start, stop] out of members.
func window(members []batch.Member, start, stop int64) []batch.Member {
	n := int64(len(members))
	if start < 0 || start >= n || stop < start {
		return nil
	}
	if stop >= n {
		stop = n - 1
	}
	return append([]batch.Member(nil), members[start:stop+1]...)
}

// NativeStore is a Store that also implements the native fast path. The fast
// path reads the set directly and never records range calls.
type NativeStore struct {
	*Store
}

var _ batch.NativeSortedSetProcessor = (*NativeStore)(nil)

// NewNativeStore creates an empty NativeStore.
func NewNativeStore() *NativeStore {
	return &NativeStore{Store: NewStore()}
}

// ProcessSortedSet implements batch.NativeSortedSetProcessor.
func (n *NativeStore) ProcessSortedSet(ctx context.Context, key string, fn batch.Func[batch.Member], opts batch.Options) error {
	if err := n.record(OpNative, key, 0, 0); err != nil {
		return err
	}
	n.mu.Lock()
	snapshot := append([]batch.Member(nil), n.sets[key]...)
	n.mu.Unlock()

	size := opts.Batch
	for start := 0; start < len(snapshot); start += size {
		end := start + size
		if end > len(snapshot) {
			end = len(snapshot)
		}
		chunk := append([]batch.Member(nil), snapshot[start:end]...)
		if !opts.WithScores {
			for i := range chunk {
				chunk[i].Score = 0
			}
		}
		if err := fn(ctx, chunk); err != nil {
			return err
		}
		if opts.Interval > 0 && end < len(snapshot) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.Interval):
			}
		}
	}
	return nil
}
