package batch

import "context"

// Member is one sorted-set entry. Score is only populated when the window was
// fetched with scores.
type Member struct {
	Value string  `json:"value"`
	Score float64 `json:"score,omitempty"`
}

// Values returns the member values in order.
func Values(members []Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Value
	}
	return out
}

// SortedSetStore is the range-query surface the sorted-set iterator needs.
// Range bounds are zero-based ranks, inclusive on both ends, ascending.
type SortedSetStore interface {
	SortedSetCard(ctx context.Context, key string) (int64, error)
	SortedSetRange(ctx context.Context, key string, start, stop int64) ([]Member, error)
	SortedSetRangeWithScores(ctx context.Context, key string, start, stop int64) ([]Member, error)
}

// NativeSortedSetProcessor is implemented by stores that can walk a sorted set
// more efficiently than repeated rank queries. Implementations must call fn
// sequentially, honor opts.Batch, opts.WithScores and opts.Interval, and stop
// at the first error fn returns.
type NativeSortedSetProcessor interface {
	ProcessSortedSet(ctx context.Context, key string, fn Func[Member], opts Options) error
}
