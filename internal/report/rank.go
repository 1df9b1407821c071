package report

import (
	"context"
	"fmt"

	"league-piper/internal/riot"
)

// RankSummary is a summoner's ranked standing across queues
type RankSummary struct {
	Summoner string           `json:"summoner"`
	Entries  []riot.RankEntry `json:"entries"`
}

// HasRank reports whether the summoner has any ranked entry
func (s *RankSummary) HasRank() bool {
	return len(s.Entries) > 0
}

// Lines renders the summary one line per queue
func (s *RankSummary) Lines() []string {
	lines := []string{"Summoner: " + s.Summoner}
	if !s.HasRank() {
		return append(lines, "Summoner has no ranked information")
	}
	for _, e := range s.Entries {
		lines = append(lines, fmt.Sprintf("%s: %d wins, %d losses", e.QueueType, e.Wins, e.Losses))
	}
	return lines
}

// RankSummary looks up the summoner's ranked entries. An unranked summoner is
// a normal result, not an error.
func (r *Reporter) RankSummary(ctx context.Context, name string) (*RankSummary, error) {
	account, err := r.riot.GetAccount(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", name, err)
	}

	entries, err := r.riot.GetRankEntries(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranked entries for %s: %w", name, err)
	}
	if entries == nil {
		entries = []riot.RankEntry{}
	}

	summoner := account.Name
	if summoner == "" {
		summoner = name
	}
	return &RankSummary{Summoner: summoner, Entries: entries}, nil
}
