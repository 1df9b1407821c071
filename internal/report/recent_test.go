package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"league-piper/internal/riot"
)

func TestRecentGames(t *testing.T) {
	f := newFakeRiot()
	f.addPlayer("Faker", "P1",
		newMatch("KR_3", player("P1", "Faker", 7, 1, 9, true), player("P2", "Other", 1, 7, 0, false)),
		newMatch("KR_2", player("P9", "Stranger", 0, 0, 0, true)),
		newMatch("KR_1", player("P2", "Other", 2, 2, 2, true), player("P1", "Faker", 3, 4, 5, false)),
	)

	records, err := New(f, nil).RecentGames(context.Background(), "Faker", 10)
	if err != nil {
		t.Fatalf("RecentGames failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected match without the player to be skipped, got %d records", len(records))
	}
	if records[0].MatchID != "KR_3" || records[1].MatchID != "KR_1" {
		t.Errorf("upstream order not preserved: %s, %s", records[0].MatchID, records[1].MatchID)
	}

	want := MatchRecord{MatchID: "KR_1", Kills: 3, Deaths: 4, Assists: 5, ChampionName: "Ahri", Lane: "MIDDLE", Win: false}
	if records[1] != want {
		t.Errorf("got %+v, want %+v", records[1], want)
	}
}

func TestRecentGames_EmptyMatchSkipped(t *testing.T) {
	f := newFakeRiot()
	f.addPlayer("Faker", "P1",
		newMatch("KR_2"),
		newMatch("KR_1", player("P1", "Faker", 1, 2, 3, true)),
	)

	records, err := New(f, nil).RecentGames(context.Background(), "Faker", 10)
	if err != nil {
		t.Fatalf("empty match should be skipped, got %v", err)
	}
	if len(records) != 1 || records[0].MatchID != "KR_1" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestRecentGames_DefaultCount(t *testing.T) {
	f := newFakeRiot()
	f.addPlayer("Faker", "P1")

	records, err := New(f, nil).RecentGames(context.Background(), "Faker", 0)
	if err != nil {
		t.Fatalf("RecentGames failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if records == nil {
		t.Error("expected empty, non-nil slice")
	}
	if len(f.idCounts) != 1 || f.idCounts[0] != DefaultRecentCount {
		t.Errorf("expected match ids requested with count %d, got %v", DefaultRecentCount, f.idCounts)
	}
}

// Output never exceeds the requested count nor the matches containing the player
func TestRecentGames_LengthBound(t *testing.T) {
	f := newFakeRiot()
	var matches []*riot.Match
	present := 0
	for i := 0; i < 15; i++ {
		if i%3 == 0 {
			matches = append(matches, newMatch(fmt.Sprintf("NA1_%d", i), player("PX", "x", 0, 0, 0, true)))
			continue
		}
		present++
		matches = append(matches, newMatch(fmt.Sprintf("NA1_%d", i), player("P1", "me", i, 0, 0, true)))
	}
	f.addPlayer("me", "P1", matches...)

	for _, count := range []int{1, 5, 10, 15, 20} {
		records, err := New(f, nil).RecentGames(context.Background(), "me", count)
		if err != nil {
			t.Fatalf("count %d: %v", count, err)
		}
		if len(records) > count {
			t.Errorf("count %d: got %d records", count, len(records))
		}
		if len(records) > present {
			t.Errorf("count %d: got %d records but player is in only %d matches", count, len(records), present)
		}
	}
}

func TestRecentGames_Concurrent(t *testing.T) {
	f := newFakeRiot()
	var matches []*riot.Match
	for i := 0; i < 20; i++ {
		matches = append(matches, newMatch(fmt.Sprintf("NA1_%02d", i), player("P1", "me", i, 0, 0, true)))
	}
	f.addPlayer("me", "P1", matches...)

	records, err := New(f, nil, WithConcurrency(6)).RecentGames(context.Background(), "me", 20)
	if err != nil {
		t.Fatalf("RecentGames failed: %v", err)
	}
	if len(records) != 20 {
		t.Fatalf("expected 20 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.Kills != i {
			t.Fatalf("record %d out of order: %+v", i, rec)
		}
	}
}

func TestRecentGames_UpstreamErrorPropagates(t *testing.T) {
	f := newFakeRiot()
	f.addPlayer("me", "P1", newMatch("NA1_1", player("P1", "me", 1, 1, 1, true)))
	f.matchIDs["P1"] = append(f.matchIDs["P1"], "NA1_GONE")

	_, err := New(f, nil).RecentGames(context.Background(), "me", 10)
	var ue *riot.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !strings.Contains(err.Error(), "NA1_GONE") {
		t.Errorf("error should name the failing match: %v", err)
	}
}

func TestRecentGames_UnknownSummoner(t *testing.T) {
	_, err := New(newFakeRiot(), nil).RecentGames(context.Background(), "nobody", 10)
	if !riot.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecentGamesFunc_StopsOnEmitError(t *testing.T) {
	f := newFakeRiot()
	f.addPlayer("me", "P1",
		newMatch("NA1_2", player("P1", "me", 1, 1, 1, true)),
		newMatch("NA1_1", player("P1", "me", 1, 1, 1, true)),
	)

	stop := errors.New("client went away")
	emitted := 0
	err := New(f, nil).RecentGamesFunc(context.Background(), "me", 10, func(MatchRecord) error {
		emitted++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected emit error, got %v", err)
	}
	if emitted != 1 || len(f.matchCalls) != 1 {
		t.Errorf("expected walk to stop after first record, emitted=%d calls=%d", emitted, len(f.matchCalls))
	}
}
