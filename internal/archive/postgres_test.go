package archive

import (
	"context"
	"os"
	"testing"

	"league-piper/internal/report"
)

// Runs against a real database only when ARCHIVE_TEST_DATABASE_URL is set
func TestPostgres_SaveAndList(t *testing.T) {
	url := os.Getenv("ARCHIVE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ARCHIVE_TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := Open(ctx, url, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*Postgres); !ok {
		t.Fatalf("expected *Postgres, got %T", store)
	}

	name := "pg-test-" + t.Name()
	if err := store.SaveTeammates(ctx, name, []report.TeammateStat{{Name: "T1", TotalGames: 2, Wins: 1, WinRate: 50}}); err != nil {
		t.Fatalf("SaveTeammates failed: %v", err)
	}

	lookups, err := store.RecentLookups(ctx, 1)
	if err != nil {
		t.Fatalf("RecentLookups failed: %v", err)
	}
	if len(lookups) != 1 || lookups[0].Name != name || lookups[0].Kind != KindFriends || lookups[0].Rows != 1 {
		t.Errorf("unexpected lookups %+v", lookups)
	}
}
