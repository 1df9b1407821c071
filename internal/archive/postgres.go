package archive

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"league-piper/internal/report"
)

// Postgres archives reports in a Postgres database
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and applies the migrations
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Migrations run over database/sql on a short-lived handle
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to open migration handle: %w", err)
	}
	defer db.Close()
	if err := migrate(ctx, db, goose.DialectPostgres, "postgres"); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool
func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) insertLookup(ctx context.Context, tx pgx.Tx, name, kind string, rows int) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO lookups (name, kind, row_count) VALUES ($1, $2, $3) RETURNING id`,
		name, kind, rows).Scan(&id)
	return id, err
}

// SaveMatchRecords archives a recent-games report
func (p *Postgres) SaveMatchRecords(ctx context.Context, name string, records []report.MatchRecord) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		id, err := p.insertLookup(ctx, tx, name, KindRecent, len(records))
		if err != nil {
			return fmt.Errorf("failed to insert lookup: %w", err)
		}

		batch := &pgx.Batch{}
		for _, r := range records {
			batch.Queue(`
				INSERT INTO match_records (lookup_id, match_id, kills, deaths, assists, champion_name, lane, win)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, id, r.MatchID, r.Kills, r.Deaths, r.Assists, r.ChampionName, r.Lane, r.Win)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert match records: %w", err)
		}
		return nil
	})
}

// SaveTeammates archives a friend list report
func (p *Postgres) SaveTeammates(ctx context.Context, name string, rows []report.TeammateStat) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		id, err := p.insertLookup(ctx, tx, name, KindFriends, len(rows))
		if err != nil {
			return fmt.Errorf("failed to insert lookup: %w", err)
		}

		batch := &pgx.Batch{}
		for _, s := range rows {
			batch.Queue(`
				INSERT INTO teammates (lookup_id, name, total_games, wins, win_rate)
				VALUES ($1, $2, $3, $4, $5)
			`, id, s.Name, s.TotalGames, s.Wins, s.WinRate)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert teammates: %w", err)
		}
		return nil
	})
}

// RecentLookups returns the newest archived runs first
func (p *Postgres) RecentLookups(ctx context.Context, limit int) ([]Lookup, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, kind, row_count, created_at
		FROM lookups
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lookups := []Lookup{}
	for rows.Next() {
		var l Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.Kind, &l.Rows, &l.CreatedAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
