package database

import "time"

// SortedSetEntry is one member of a sorted set. Members are unique per set
// and ordered by (score, value), matching Redis ordering for equal scores.
type SortedSetEntry struct {
	ID        uint    `gorm:"primaryKey"`
	SetKey    string  `gorm:"size:255;not null;uniqueIndex:idx_set_member,priority:1;index:idx_set_order,priority:1"`
	Score     float64 `gorm:"not null;index:idx_set_order,priority:2"`
	Value     string  `gorm:"size:1024;not null;uniqueIndex:idx_set_member,priority:2;index:idx_set_order,priority:3"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM default.
func (SortedSetEntry) TableName() string { return "sorted_set_entries" }
