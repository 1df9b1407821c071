package report

import (
	"context"
	"math"
	"sort"
	"strings"

	"league-piper/internal/riot"

	"github.com/samber/lo"
)

// FriendMatchCount is the fixed number of recent matches FriendList scans
const FriendMatchCount = 10

// TeammateStat is how often a player shared an outcome with the queried player
type TeammateStat struct {
	Name       string  `json:"name"`
	TotalGames int     `json:"totalGames"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"winRate"` // 0-100, two decimals
}

// CoOccurrence is one participant who finished a match with the same result
// as the queried player
type CoOccurrence struct {
	Name string
	Win  bool
}

// FriendList returns everyone who shared the queried player's result at least
// twice over the last FriendMatchCount matches, most frequent first.
//
// Sharing a result is treated as being on the same team, which only holds for
// two-team modes where one side wins and the other loses.
func (r *Reporter) FriendList(ctx context.Context, name string) ([]TeammateStat, error) {
	account, matchIDs, err := r.resolve(ctx, name, FriendMatchCount)
	if err != nil {
		return nil, err
	}

	var rows []CoOccurrence
	err = r.eachMatch(ctx, matchIDs, func(_ string, match *riot.Match) error {
		rows = append(rows, sameOutcome(match, account.PUUID)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FriendTable(rows, name), nil
}

// sameOutcome lists every participant, the player included, whose win flag
// matches the player's. Matches without the player contribute nothing.
func sameOutcome(match *riot.Match, puuid string) []CoOccurrence {
	me := match.FindParticipant(puuid)
	if me == nil {
		return nil
	}

	var rows []CoOccurrence
	for _, p := range match.Info.Participants {
		if p.Win == me.Win {
			rows = append(rows, CoOccurrence{Name: p.DisplayName(), Win: p.Win})
		}
	}
	return rows
}

// FriendTable groups co-occurrences by name, drops the queried player and
// one-off encounters, and sorts by games together descending (name ascending
// on ties).
func FriendTable(rows []CoOccurrence, queryName string) []TeammateStat {
	groups := lo.GroupBy(rows, func(c CoOccurrence) string { return c.Name })

	stats := lo.MapToSlice(groups, func(name string, games []CoOccurrence) TeammateStat {
		wins := lo.CountBy(games, func(c CoOccurrence) bool { return c.Win })
		return TeammateStat{
			Name:       name,
			TotalGames: len(games),
			Wins:       wins,
			WinRate:    winRate(wins, len(games)),
		}
	})

	stats = lo.Filter(stats, func(s TeammateStat, _ int) bool {
		return !strings.EqualFold(s.Name, queryName) && s.TotalGames > 1
	})

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalGames != stats[j].TotalGames {
			return stats[i].TotalGames > stats[j].TotalGames
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// winRate is wins/total as a percentage rounded to two decimals, ties to even
func winRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.RoundToEven(float64(wins)/float64(total)*100*100) / 100
}
