package riot

// Account represents the response from /lol/summoner/v4/summoners/by-name
type Account struct {
	ID            string `json:"id"` // encrypted summoner id (league, mastery)
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"` // match-v5 key
	Name          string `json:"name"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int    `json:"summonerLevel"`
}

// RankEntry represents a ranked league entry from /lol/league/v4/entries/by-summoner
type RankEntry struct {
	LeagueID     string `json:"leagueId"`
	SummonerID   string `json:"summonerId"`
	SummonerName string `json:"summonerName"`
	QueueType    string `json:"queueType"` // RANKED_SOLO_5x5, RANKED_FLEX_SR
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// Match represents the response from /lol/match/v5/matches/{matchId}
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     *MatchInfo    `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameCreation int64         `json:"gameCreation"`
	GameDuration int           `json:"gameDuration"`
	GameMode     string        `json:"gameMode"`
	GameVersion  string        `json:"gameVersion"`
	QueueID      int           `json:"queueId"`
	Participants []Participant `json:"participants"`
}

type Participant struct {
	PUUID          string `json:"puuid"`
	SummonerName   string `json:"summonerName"`
	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagline  string `json:"riotIdTagline"`
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	Lane           string `json:"lane"`
	TeamPosition   string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	TeamID         int    `json:"teamId"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	Win            bool   `json:"win"`
}

// DisplayName prefers the legacy summoner name and falls back to the Riot ID
// game name, which is all newer matches carry.
func (p *Participant) DisplayName() string {
	if p.SummonerName != "" {
		return p.SummonerName
	}
	return p.RiotIDGameName
}

// FindParticipant returns the participant with the given PUUID, or nil
func (m *Match) FindParticipant(puuid string) *Participant {
	if m.Info == nil {
		return nil
	}
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			return &m.Info.Participants[i]
		}
	}
	return nil
}

// MasteryEntry represents one champion from /lol/champion-mastery/v4/champion-masteries/by-summoner
type MasteryEntry struct {
	ChampionID     int   `json:"championId"`
	ChampionLevel  int   `json:"championLevel"`
	ChampionPoints int   `json:"championPoints"`
	LastPlayTime   int64 `json:"lastPlayTime"`
}
