package report

import (
	"context"
	"fmt"

	"league-piper/internal/ddragon"
	"league-piper/internal/riot"

	"golang.org/x/sync/errgroup"
)

// RiotAPI is implemented by riot.Client
type RiotAPI interface {
	GetAccount(ctx context.Context, name string) (*riot.Account, error)
	GetRankEntries(ctx context.Context, summonerID string) ([]riot.RankEntry, error)
	GetMatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*riot.Match, error)
	GetMasteries(ctx context.Context, summonerID string) ([]riot.MasteryEntry, error)
}

// AssetAPI is implemented by ddragon.Client
type AssetAPI interface {
	LatestVersion(ctx context.Context) (string, error)
	Catalog(ctx context.Context, version string) (*ddragon.Catalog, error)
	Icon(ctx context.Context, version, championID string) ([]byte, error)
}

// Reporter builds match, teammate, comparison and mastery reports. It holds
// no per-query state; every call resolves the account again.
type Reporter struct {
	riot   RiotAPI
	assets AssetAPI

	concurrency int
	iconVersion string
	logf        func(format string, args ...any)
}

// Option configures a Reporter
type Option func(*Reporter)

// WithConcurrency fetches up to n match details at once. n <= 1 keeps the
// sequential one-request-at-a-time behaviour.
func WithConcurrency(n int) Option {
	return func(r *Reporter) { r.concurrency = n }
}

// WithIconVersion overrides the Data Dragon version used for champion icons
func WithIconVersion(v string) Option {
	return func(r *Reporter) {
		if v != "" {
			r.iconVersion = v
		}
	}
}

// WithLogf receives per-match progress lines
func WithLogf(logf func(format string, args ...any)) Option {
	return func(r *Reporter) { r.logf = logf }
}

// New creates a Reporter over the given API clients
func New(riotAPI RiotAPI, assets AssetAPI, opts ...Option) *Reporter {
	r := &Reporter{
		riot:        riotAPI,
		assets:      assets,
		concurrency: 1,
		iconVersion: ddragon.IconVersion,
		logf:        func(string, ...any) {},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// resolve looks up the account and its most recent match ids
func (r *Reporter) resolve(ctx context.Context, name string, count int) (*riot.Account, []string, error) {
	account, err := r.riot.GetAccount(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account %s: %w", name, err)
	}

	matchIDs, err := r.riot.GetMatchIDs(ctx, account.PUUID, count)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get match ids for %s: %w", name, err)
	}
	if len(matchIDs) > count {
		matchIDs = matchIDs[:count]
	}
	return account, matchIDs, nil
}

// eachMatch fetches every match and hands them to fn in matchIDs order
func (r *Reporter) eachMatch(ctx context.Context, matchIDs []string, fn func(matchID string, match *riot.Match) error) error {
	if r.concurrency <= 1 {
		for i, matchID := range matchIDs {
			r.logf("[Report] [%d/%d] Fetching match %s", i+1, len(matchIDs), matchID)
			match, err := r.riot.GetMatch(ctx, matchID)
			if err != nil {
				return fmt.Errorf("failed to fetch match %s: %w", matchID, err)
			}
			if err := fn(matchID, match); err != nil {
				return err
			}
		}
		return nil
	}

	matches := make([]*riot.Match, len(matchIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, matchID := range matchIDs {
		g.Go(func() error {
			r.logf("[Report] [%d/%d] Fetching match %s", i+1, len(matchIDs), matchID)
			match, err := r.riot.GetMatch(gctx, matchID)
			if err != nil {
				return fmt.Errorf("failed to fetch match %s: %w", matchID, err)
			}
			matches[i] = match
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, match := range matches {
		if err := fn(matchIDs[i], match); err != nil {
			return err
		}
	}
	return nil
}
