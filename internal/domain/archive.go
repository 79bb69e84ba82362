package domain

import (
	"fmt"
	"time"
)

// ArchiveMonth identifies one monthly archive of a player's games.
// The cache key for fetched games is username + month.
type ArchiveMonth struct {
	Year  int
	Month time.Month
}

func NewArchiveMonth(year int, month time.Month) (ArchiveMonth, error) {
	if month < time.January || month > time.December {
		return ArchiveMonth{}, fmt.Errorf("invalid month: %d", month)
	}
	if year < 2007 || year > 9999 {
		// chess.com has no archives from before its launch
		return ArchiveMonth{}, fmt.Errorf("invalid year: %d", year)
	}
	return ArchiveMonth{Year: year, Month: month}, nil
}

// ArchiveMonthOf returns the archive month containing t. Archives are keyed in UTC.
func ArchiveMonthOf(t time.Time) ArchiveMonth {
	utc := t.UTC()
	return ArchiveMonth{Year: utc.Year(), Month: utc.Month()}
}

func (m ArchiveMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseArchiveMonth is the inverse of ArchiveMonth.String. Only the canonical
// "YYYY-MM" form is accepted.
func ParseArchiveMonth(s string) (ArchiveMonth, error) {
	var year, monthNumber int
	if _, err := fmt.Sscanf(s, "%4d-%2d", &year, &monthNumber); err != nil {
		return ArchiveMonth{}, fmt.Errorf("invalid archive month %q: %w", s, err)
	}
	month, err := NewArchiveMonth(year, time.Month(monthNumber))
	if err != nil {
		return ArchiveMonth{}, err
	}
	// Sscanf ignores trailing input, so "2024-123" would scan as 2024-12
	if month.String() != s {
		return ArchiveMonth{}, fmt.Errorf("invalid archive month %q", s)
	}
	return month, nil
}

func (m ArchiveMonth) Before(other ArchiveMonth) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m ArchiveMonth) Compare(other ArchiveMonth) int {
	if m.Before(other) {
		return -1
	}
	if other.Before(m) {
		return 1
	}
	return 0
}

// ArchiveState tracks what we know about a locally cached month.
type ArchiveState struct {
	Username  string
	Month     ArchiveMonth
	ETag      string
	GameCount int
	FetchedAt time.Time
}

// SyncReport summarizes one pass over a player's archives.
type SyncReport struct {
	Username      string
	MonthsListed  int
	MonthsFetched int
	MonthsSkipped int
	GamesFetched  int
}

// GameFilter narrows a stats query. Nil fields match everything.
type GameFilter struct {
	From      *ArchiveMonth
	To        *ArchiveMonth
	TimeClass *TimeClass
	Rated     *bool
}
