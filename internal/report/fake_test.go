package report

import (
	"context"
	"net/http"
	"sync"

	"league-piper/internal/riot"
)

// fakeRiot serves canned responses the way the Riot API would
type fakeRiot struct {
	accounts  map[string]*riot.Account
	ranks     map[string][]riot.RankEntry
	matchIDs  map[string][]string
	matches   map[string]*riot.Match
	masteries map[string][]riot.MasteryEntry

	mu         sync.Mutex
	idCounts   []int
	matchCalls []string
}

func newFakeRiot() *fakeRiot {
	return &fakeRiot{
		accounts:  make(map[string]*riot.Account),
		ranks:     make(map[string][]riot.RankEntry),
		matchIDs:  make(map[string][]string),
		matches:   make(map[string]*riot.Match),
		masteries: make(map[string][]riot.MasteryEntry),
	}
}

func notFound() error {
	return &riot.UpstreamError{Status: http.StatusNotFound, Body: `{"status":{"message":"Data not found"}}`}
}

// addPlayer registers an account whose summoner id is "S-"+puuid
func (f *fakeRiot) addPlayer(name, puuid string, matches ...*riot.Match) {
	f.accounts[name] = &riot.Account{ID: "S-" + puuid, PUUID: puuid, Name: name}
	for _, m := range matches {
		f.matchIDs[puuid] = append(f.matchIDs[puuid], m.Metadata.MatchID)
		f.matches[m.Metadata.MatchID] = m
	}
}

func (f *fakeRiot) GetAccount(ctx context.Context, name string) (*riot.Account, error) {
	a, ok := f.accounts[name]
	if !ok {
		return nil, notFound()
	}
	return a, nil
}

func (f *fakeRiot) GetRankEntries(ctx context.Context, summonerID string) ([]riot.RankEntry, error) {
	return f.ranks[summonerID], nil
}

func (f *fakeRiot) GetMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	f.mu.Lock()
	f.idCounts = append(f.idCounts, count)
	f.mu.Unlock()

	ids := f.matchIDs[puuid]
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

func (f *fakeRiot) GetMatch(ctx context.Context, matchID string) (*riot.Match, error) {
	f.mu.Lock()
	f.matchCalls = append(f.matchCalls, matchID)
	f.mu.Unlock()

	m, ok := f.matches[matchID]
	if !ok {
		return nil, notFound()
	}
	return m, nil
}

func (f *fakeRiot) GetMasteries(ctx context.Context, summonerID string) ([]riot.MasteryEntry, error) {
	return f.masteries[summonerID], nil
}

func newMatch(id string, participants ...riot.Participant) *riot.Match {
	return &riot.Match{
		Metadata: riot.MatchMetadata{MatchID: id},
		Info:     &riot.MatchInfo{Participants: participants},
	}
}

func player(puuid, name string, k, d, a int, win bool) riot.Participant {
	return riot.Participant{
		PUUID:        puuid,
		SummonerName: name,
		ChampionName: "Ahri",
		Lane:         "MIDDLE",
		Kills:        k,
		Deaths:       d,
		Assists:      a,
		Win:          win,
	}
}
