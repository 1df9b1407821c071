package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"league-piper/internal/report"
)

// SQLite archives reports in a local database file
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the archive file at path
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrate(ctx, db, goose.DialectSQLite3, "sqlite"); err != nil {
		db.Close()
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	return &SQLite{db: db}, nil
}

// Close closes the database
func (s *SQLite) Close() {
	s.db.Close()
}

// save runs insertRows inside one transaction after recording the lookup
func (s *SQLite) save(ctx context.Context, name, kind string, n int, insertRows func(tx *sql.Tx, lookupID int64) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO lookups (name, kind, row_count, created_at) VALUES (?, ?, ?, ?)`,
		name, kind, n, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert lookup: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := insertRows(tx, id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SaveMatchRecords archives a recent-games report
func (s *SQLite) SaveMatchRecords(ctx context.Context, name string, records []report.MatchRecord) error {
	return s.save(ctx, name, KindRecent, len(records), func(tx *sql.Tx, id int64) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO match_records (lookup_id, match_id, kills, deaths, assists, champion_name, lane, win)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, id, r.MatchID, r.Kills, r.Deaths, r.Assists, r.ChampionName, r.Lane, r.Win); err != nil {
				return fmt.Errorf("failed to insert match %s: %w", r.MatchID, err)
			}
		}
		return nil
	})
}

// SaveTeammates archives a friend list report
func (s *SQLite) SaveTeammates(ctx context.Context, name string, rows []report.TeammateStat) error {
	return s.save(ctx, name, KindFriends, len(rows), func(tx *sql.Tx, id int64) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO teammates (lookup_id, name, total_games, wins, win_rate)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range rows {
			if _, err := stmt.ExecContext(ctx, id, t.Name, t.TotalGames, t.Wins, t.WinRate); err != nil {
				return fmt.Errorf("failed to insert teammate %s: %w", t.Name, err)
			}
		}
		return nil
	})
}

// RecentLookups returns the newest archived runs first
func (s *SQLite) RecentLookups(ctx context.Context, limit int) ([]Lookup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, row_count, created_at
		FROM lookups
		ORDER BY id DESC
		LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lookups := []Lookup{}
	for rows.Next() {
		var l Lookup
		var created string
		if err := rows.Scan(&l.ID, &l.Name, &l.Kind, &l.Rows, &created); err != nil {
			return nil, err
		}
		l.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp for lookup %d: %w", l.ID, err)
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
