package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/batchkit/batch"
	"github.com/kbukum/batchkit/logger"
)

// Store keeps sorted sets in the sorted_set_entries table. Rank queries use
// OFFSET/LIMIT over the (set_key, score, value) index; the native walk uses
// keyset pagination on the same index and never scans skipped rows.
type Store struct {
	db  *DB
	log *logger.Logger
}

var (
	_ batch.SortedSetStore           = (*Store)(nil)
	_ batch.NativeSortedSetProcessor = (*Store)(nil)
)

// NewStore creates a Store over db. The table must already exist; see
// Migrate.
func NewStore(db *DB) *Store {
	return &Store{db: db, log: db.log.WithComponent("sqlite_store")}
}

// Migrate creates or updates the sorted-set table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&SortedSetEntry{})
}

func (s *Store) entries(ctx context.Context, key string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&SortedSetEntry{}).Where("set_key = ?", key)
}

// SortedSetCard counts the members of key.
func (s *Store) SortedSetCard(ctx context.Context, key string) (int64, error) {
	var n int64
	if err := s.entries(ctx, key).Count(&n).Error; err != nil {
		return 0, FromDatabase("card", key, err)
	}
	return n, nil
}

// SortedSetRange returns the members ranked start..stop inclusive.
func (s *Store) SortedSetRange(ctx context.Context, key string, start, stop int64) ([]batch.Member, error) {
	rows, err := s.rank(ctx, key, start, stop)
	if err != nil {
		return nil, err
	}
	return toMembers(rows, false), nil
}

// SortedSetRangeWithScores is SortedSetRange with scores populated.
func (s *Store) SortedSetRangeWithScores(ctx context.Context, key string, start, stop int64) ([]batch.Member, error) {
	rows, err := s.rank(ctx, key, start, stop)
	if err != nil {
		return nil, err
	}
	return toMembers(rows, true), nil
}

func (s *Store) rank(ctx context.Context, key string, start, stop int64) ([]SortedSetEntry, error) {
	if start < 0 || stop < start {
		return nil, nil
	}
	var rows []SortedSetEntry
	err := s.entries(ctx, key).
		Order("score ASC, value ASC").
		Offset(int(start)).
		Limit(int(stop - start + 1)).
		Find(&rows).Error
	if err != nil {
		return nil, FromDatabase("range", key, err)
	}
	return rows, nil
}

// ProcessSortedSet walks key in (score, value) order, opts.Batch members at a
// time, resuming each query after the last member handed to fn.
func (s *Store) ProcessSortedSet(ctx context.Context, key string, fn batch.Func[batch.Member], opts batch.Options) error {
	size := opts.Batch
	if size <= 0 {
		size = batch.DefaultBatchSize
	}

	var last *SortedSetEntry
	for {
		q := s.entries(ctx, key)
		if last != nil {
			q = q.Where("score > ? OR (score = ? AND value > ?)", last.Score, last.Score, last.Value)
		}
		var rows []SortedSetEntry
		if err := q.Order("score ASC, value ASC").Limit(size).Find(&rows).Error; err != nil {
			return FromDatabase("keyset_range", key, err)
		}
		if len(rows) == 0 {
			return nil
		}

		if err := fn(ctx, toMembers(rows, opts.WithScores)); err != nil {
			return err
		}
		if len(rows) < size {
			return nil
		}
		last = &rows[len(rows)-1]

		if err := contextSleep(ctx, opts.Interval); err != nil {
			return err
		}
	}
}

// Add inserts members into key, updating the score of members already present.
func (s *Store) Add(ctx context.Context, key string, members ...batch.Member) error {
	if len(members) == 0 {
		return nil
	}
	rows := make([]SortedSetEntry, len(members))
	for i, m := range members {
		rows[i] = SortedSetEntry{SetKey: key, Score: m.Score, Value: m.Value}
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "set_key"}, {Name: "value"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).CreateInBatches(rows, 500).Error
	if err != nil {
		return FromDatabase("add", key, err)
	}
	return nil
}

// Remove deletes members from key.
func (s *Store) Remove(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("set_key = ? AND value IN ?", key, values).
		Delete(&SortedSetEntry{}).Error
	if err != nil {
		return FromDatabase("remove", key, err)
	}
	return nil
}

// Clear deletes every member of key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("set_key = ?", key).Delete(&SortedSetEntry{}).Error; err != nil {
		return FromDatabase("clear", key, err)
	}
	return nil
}

func toMembers(rows []SortedSetEntry, withScores bool) []batch.Member {
	members := make([]batch.Member, len(rows))
	for i, r := range rows {
		members[i] = batch.Member{Value: r.Value}
		if withScores {
			members[i].Score = r.Score
		}
	}
	return members
}

// DB returns the underlying database.
func (s *Store) DB() *DB { return s.db }
