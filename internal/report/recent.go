package report

import (
	"context"

	"league-piper/internal/riot"
)

const (
	// DefaultRecentCount is the match count used when none is given
	DefaultRecentCount = 10

	// CompareCount is how many matches each player contributes to a comparison
	CompareCount = 20
)

// MatchRecord is the queried player's line from one match
type MatchRecord struct {
	MatchID      string `json:"matchId"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	ChampionName string `json:"championName"`
	Lane         string `json:"lane"`
	Win          bool   `json:"win"`
}

func newMatchRecord(matchID string, p *riot.Participant) MatchRecord {
	return MatchRecord{
		MatchID:      matchID,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		Assists:      p.Assists,
		ChampionName: p.ChampionName,
		Lane:         p.Lane,
		Win:          p.Win,
	}
}

// RecentGames returns the player's line from each of their last count matches,
// most recent first. Matches that do not list the player are skipped.
func (r *Reporter) RecentGames(ctx context.Context, name string, count int) ([]MatchRecord, error) {
	records := make([]MatchRecord, 0)
	err := r.RecentGamesFunc(ctx, name, count, func(rec MatchRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// RecentGamesFunc is RecentGames delivering each record to emit as soon as it
// is available. A non-nil error from emit stops the walk.
func (r *Reporter) RecentGamesFunc(ctx context.Context, name string, count int, emit func(MatchRecord) error) error {
	if count <= 0 {
		count = DefaultRecentCount
	}

	account, matchIDs, err := r.resolve(ctx, name, count)
	if err != nil {
		return err
	}

	return r.eachMatch(ctx, matchIDs, func(matchID string, match *riot.Match) error {
		p := match.FindParticipant(account.PUUID)
		if p == nil {
			return nil
		}
		return emit(newMatchRecord(matchID, p))
	})
}
