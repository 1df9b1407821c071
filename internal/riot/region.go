package riot

import (
	"fmt"
	"strings"
)

// Region pairs a platform host (summoner, league, mastery) with the regional
// routing host that serves match-v5 for it.
type Region struct {
	Platform string
	Regional string
}

const (
	na1BaseURL      = "https://na1.api.riotgames.com"
	americasBaseURL = "https://americas.api.riotgames.com"
)

// DefaultRegion is NA1 routed through americas
var DefaultRegion = Region{Platform: na1BaseURL, Regional: americasBaseURL}

var platformRouting = map[string]string{
	"NA1":  "americas",
	"BR1":  "americas",
	"LA1":  "americas",
	"LA2":  "americas",
	"EUW1": "europe",
	"EUN1": "europe",
	"TR1":  "europe",
	"RU":   "europe",
	"KR":   "asia",
	"JP1":  "asia",
	"OC1":  "sea",
}

// aliases accepted on the command line
var regionAliases = map[string]string{
	"NA":   "NA1",
	"BR":   "BR1",
	"LAN":  "LA1",
	"LAS":  "LA2",
	"EUW":  "EUW1",
	"EUNE": "EUN1",
	"TR":   "TR1",
	"JP":   "JP1",
	"OCE":  "OC1",
}

// LookupRegion resolves a platform code ("NA1", "euw1") or alias ("EUW") to its hosts
func LookupRegion(code string) (Region, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return DefaultRegion, nil
	}
	if alias, ok := regionAliases[c]; ok {
		c = alias
	}
	routing, ok := platformRouting[c]
	if !ok {
		return Region{}, fmt.Errorf("unknown region %q", code)
	}
	return Region{
		Platform: fmt.Sprintf("https://%s.api.riotgames.com", strings.ToLower(c)),
		Regional: fmt.Sprintf("https://%s.api.riotgames.com", routing),
	}, nil
}
