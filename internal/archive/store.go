// Package archive keeps an append-only log of report results. It is written
// after a report completes and is never consulted to answer an upstream query.
package archive

import (
	"context"
	"time"

	"league-piper/internal/report"
)

// Lookup kinds
const (
	KindRecent  = "recent"
	KindFriends = "friends"
)

// Lookup is one archived report run
type Lookup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists report results
type Store interface {
	SaveMatchRecords(ctx context.Context, name string, records []report.MatchRecord) error
	SaveTeammates(ctx context.Context, name string, rows []report.TeammateStat) error
	RecentLookups(ctx context.Context, limit int) ([]Lookup, error)
	Close()
}

// DefaultLookupLimit is used when RecentLookups gets a non-positive limit
const DefaultLookupLimit = 20

// Open picks a backend: Postgres when databaseURL is set, otherwise SQLite
// when path is set. With neither it returns a nil Store and archiving is off.
func Open(ctx context.Context, databaseURL, path string) (Store, error) {
	switch {
	case databaseURL != "":
		pg, err := NewPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case path != "":
		lite, err := NewSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return lite, nil
	default:
		return nil, nil
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLookupLimit
	}
	return limit
}
