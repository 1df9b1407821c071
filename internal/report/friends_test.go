package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"league-piper/internal/riot"
)

// P1 and T1 win together three times; everyone else appears once
func TestFriendList_Scenario(t *testing.T) {
	f := newFakeRiot()
	var matches []*riot.Match
	for i := 0; i < 3; i++ {
		matches = append(matches, newMatch(fmt.Sprintf("NA1_%d", i),
			player("P1", "Me", 5, 2, 3, true),
			player("T1", "T1", 1, 1, 1, true),
			player(fmt.Sprintf("W%d", i), fmt.Sprintf("Ally%d", i), 1, 1, 1, true),
			player(fmt.Sprintf("L%d", i), "Enemy", 1, 1, 1, false),
			player(fmt.Sprintf("M%d", i), "Enemy", 1, 1, 1, false),
		))
	}
	f.addPlayer("Me", "P1", matches...)

	rows, err := New(f, nil).FriendList(context.Background(), "Me")
	if err != nil {
		t.Fatalf("FriendList failed: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected exactly one row, got %+v", rows)
	}
	want := TeammateStat{Name: "T1", TotalGames: 3, Wins: 3, WinRate: 100.0}
	if rows[0] != want {
		t.Errorf("got %+v, want %+v", rows[0], want)
	}
	if len(f.idCounts) != 1 || f.idCounts[0] != FriendMatchCount {
		t.Errorf("expected fixed count %d, got %v", FriendMatchCount, f.idCounts)
	}
}

// A shared loss counts as a game together with zero wins
func TestFriendList_SharedLosses(t *testing.T) {
	f := newFakeRiot()
	f.addPlayer("Me", "P1",
		newMatch("NA1_2", player("P1", "Me", 0, 0, 0, false), player("T1", "Duo", 0, 0, 0, false), player("X", "Winner", 0, 0, 0, true)),
		newMatch("NA1_1", player("P1", "Me", 0, 0, 0, true), player("T1", "Duo", 0, 0, 0, true), player("X", "Winner", 0, 0, 0, false)),
		newMatch("NA1_0", player("P1", "Me", 0, 0, 0, false), player("T1", "Duo", 0, 0, 0, false), player("X", "Winner", 0, 0, 0, true)),
	)

	rows, err := New(f, nil).FriendList(context.Background(), "Me")
	if err != nil {
		t.Fatalf("FriendList failed: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected one row, got %+v", rows)
	}
	if rows[0].Name != "Duo" || rows[0].TotalGames != 3 || rows[0].Wins != 1 || rows[0].WinRate != 33.33 {
		t.Errorf("unexpected row %+v", rows[0])
	}
}

// Matches without the queried player, or with no participants at all,
// contribute nothing
func TestFriendList_SkipsMatchesWithoutPlayer(t *testing.T) {
	f := newFakeRiot()
	f.addPlayer("Me", "P1",
		newMatch("NA1_3", player("P1", "Me", 0, 0, 0, true), player("T1", "Duo", 0, 0, 0, true)),
		newMatch("NA1_2", player("X1", "Loser", 0, 0, 0, false), player("X2", "Loser", 0, 0, 0, false), player("T1", "Duo", 0, 0, 0, false)),
		newMatch("NA1_1"),
		newMatch("NA1_0", player("P1", "Me", 0, 0, 0, true), player("T1", "Duo", 0, 0, 0, true)),
	)

	rows, err := New(f, nil).FriendList(context.Background(), "Me")
	if err != nil {
		t.Fatalf("FriendList failed: %v", err)
	}

	want := []TeammateStat{{Name: "Duo", TotalGames: 2, Wins: 2, WinRate: 100}}
	if len(rows) != 1 || rows[0] != want[0] {
		t.Errorf("got %+v, want %+v", rows, want)
	}
	if len(f.matchCalls) != 4 {
		t.Errorf("expected all 4 matches fetched, got %v", f.matchCalls)
	}
}

func TestFriendTable(t *testing.T) {
	rows := []CoOccurrence{
		{"me", true}, {"ME", true}, {"Me", false},
		{"Alpha", true}, {"Alpha", true}, {"Alpha", false},
		{"Bravo", true}, {"Bravo", false},
		{"Charlie", true}, {"Charlie", true},
		{"Delta", true},
	}

	stats := FriendTable(rows, "mE")

	for _, s := range stats {
		if strings.EqualFold(s.Name, "me") {
			t.Errorf("queried player must be excluded, got %+v", s)
		}
		if s.TotalGames <= 1 {
			t.Errorf("single encounters must be excluded, got %+v", s)
		}
		if s.WinRate < 0 || s.WinRate > 100 {
			t.Errorf("win rate out of range: %+v", s)
		}
		want := math.RoundToEven(float64(s.Wins)/float64(s.TotalGames)*100*100) / 100
		if s.WinRate != want {
			t.Errorf("%s: win rate %v, want %v", s.Name, s.WinRate, want)
		}
	}

	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Name
	}
	if got := strings.Join(names, ","); got != "Alpha,Bravo,Charlie" {
		t.Errorf("expected Alpha,Bravo,Charlie (games desc, name asc), got %s", got)
	}

	if stats[0].WinRate != 66.67 {
		t.Errorf("expected 2/3 rounded to 66.67, got %v", stats[0].WinRate)
	}
	if stats[1].WinRate != 50 {
		t.Errorf("expected 50, got %v", stats[1].WinRate)
	}
}

func TestFriendTable_SortedDescending(t *testing.T) {
	var rows []CoOccurrence
	for i := 1; i <= 6; i++ {
		for j := 0; j < i; j++ {
			rows = append(rows, CoOccurrence{Name: fmt.Sprintf("p%d", i), Win: j%2 == 0})
		}
	}

	stats := FriendTable(rows, "nobody")
	if len(stats) != 5 {
		t.Fatalf("expected 5 rows (p1 filtered), got %d", len(stats))
	}
	for i := 1; i < len(stats); i++ {
		if stats[i].TotalGames > stats[i-1].TotalGames {
			t.Errorf("not sorted descending at %d: %+v", i, stats)
		}
	}
}

func TestFriendTable_Empty(t *testing.T) {
	stats := FriendTable(nil, "me")
	if stats == nil || len(stats) != 0 {
		t.Errorf("expected empty non-nil table, got %#v", stats)
	}
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		wins, total int
		want        float64
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 7, 71.43},
		{4, 4, 100},
		{1, 32, 3.12},
		{3, 32, 9.38},
	}
	for _, tt := range tests {
		if got := winRate(tt.wins, tt.total); got != tt.want {
			t.Errorf("winRate(%d, %d) = %v, want %v", tt.wins, tt.total, got, tt.want)
		}
	}
}
