package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/batchkit/batch"
)

// Store serves sorted-set windows with ZCARD and ZRANGE. Redis has no
// cheaper walk than rank ranges, so Store does not implement
// batch.NativeSortedSetProcessor.
type Store struct {
	client *Client
}

var _ batch.SortedSetStore = (*Store)(nil)

// NewStore creates a Store over client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// Client returns the underlying client.
func (s *Store) Client() *Client { return s.client }

// SortedSetCard returns ZCARD key. Missing keys have cardinality 0.
func (s *Store) SortedSetCard(ctx context.Context, key string) (int64, error) {
	n, err := s.client.rdb.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard %s: %w", key, err)
	}
	return n, nil
}

// SortedSetRange returns ZRANGE key start stop.
func (s *Store) SortedSetRange(ctx context.Context, key string, start, stop int64) ([]batch.Member, error) {
	values, err := s.client.rdb.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange %s [%d,%d]: %w", key, start, stop, err)
	}
	members := make([]batch.Member, len(values))
	for i, v := range values {
		members[i] = batch.Member{Value: v}
	}
	return members, nil
}

// SortedSetRangeWithScores returns ZRANGE key start stop WITHSCORES.
func (s *Store) SortedSetRangeWithScores(ctx context.Context, key string, start, stop int64) ([]batch.Member, error) {
	zs, err := s.client.rdb.ZRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange withscores %s [%d,%d]: %w", key, start, stop, err)
	}
	return fromZ(zs), nil
}

func fromZ(zs []goredis.Z) []batch.Member {
	members := make([]batch.Member, len(zs))
	for i, z := range zs {
		value, ok := z.Member.(string)
		if !ok {
			value = fmt.Sprint(z.Member)
		}
		members[i] = batch.Member{Value: value, Score: z.Score}
	}
	return members
}

// Add inserts members into key, updating the score of members already present.
func (s *Store) Add(ctx context.Context, key string, members ...batch.Member) error {
	if err := s.client.ZAdd(ctx, key, members...); err != nil {
		return fmt.Errorf("zadd %s: %w", key, err)
	}
	return nil
}

// Remove deletes members from key.
func (s *Store) Remove(ctx context.Context, key string, values ...string) error {
	if err := s.client.ZRem(ctx, key, values...); err != nil {
		return fmt.Errorf("zrem %s: %w", key, err)
	}
	return nil
}
