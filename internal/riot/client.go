package riot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	defaultTimeout = 30 * time.Second

	// Upstream error bodies are truncated to this many bytes
	maxErrorBody = 4 << 10
)

// Client is a Riot API client. It issues exactly one GET per call: no retries,
// no rate limiting, no caching. Callers get upstream failures verbatim.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	platformURL string
	regionalURL string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithPlatformURL overrides the platform host (useful for testing)
func WithPlatformURL(u string) Option {
	return func(c *Client) { c.platformURL = strings.TrimRight(u, "/") }
}

// WithRegionalURL overrides the regional routing host (useful for testing)
func WithRegionalURL(u string) Option {
	return func(c *Client) { c.regionalURL = strings.TrimRight(u, "/") }
}

// WithRegion sets both hosts from a Region
func WithRegion(r Region) Option {
	return func(c *Client) {
		c.platformURL = r.Platform
		c.regionalURL = r.Regional
	}
}

// New creates a new Riot API client for the given key
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		platformURL: DefaultRegion.Platform,
		regionalURL: DefaultRegion.Regional,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchBody performs a GET and returns the full body of a 2xx response.
// Transport failures become *NetworkError, non-2xx statuses *UpstreamError.
func FetchBody(ctx context.Context, hc *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		// *url.Error repeats the full URL, key included
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, &NetworkError{URL: redactKey(rawURL), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(b)),
			URL:    redactKey(rawURL),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: redactKey(rawURL), Err: err}
	}
	return body, nil
}

// GetJSON fetches rawURL and decodes the body into out
func GetJSON(ctx context.Context, hc *http.Client, rawURL string, out any) error {
	body, err := FetchBody(ctx, hc, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		u, _ := url.Parse(rawURL)
		what := rawURL
		if u != nil {
			what = u.Path
		}
		return &MalformedResponseError{What: "decode " + what, Err: err}
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, base, path string, q url.Values, out any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)
	return GetJSON(ctx, c.httpClient, base+path+"?"+q.Encode(), out)
}

// GetAccount fetches a summoner by display name
func (c *Client) GetAccount(ctx context.Context, name string) (*Account, error) {
	path := "/lol/summoner/v4/summoners/by-name/" + url.PathEscape(name)

	var account Account
	if err := c.doRequest(ctx, c.platformURL, path, nil, &account); err != nil {
		return nil, err
	}
	if account.ID == "" {
		return nil, Malformed("account %q has no id", name)
	}
	if account.PUUID == "" {
		return nil, Malformed("account %q has no puuid", name)
	}
	return &account, nil
}

// GetRankEntries fetches ranked entries for an encrypted summoner id.
// Zero, one or two entries (solo, flex) are normal.
func (c *Client) GetRankEntries(ctx context.Context, summonerID string) ([]RankEntry, error) {
	path := "/lol/league/v4/entries/by-summoner/" + url.PathEscape(summonerID)

	var entries []RankEntry
	if err := c.doRequest(ctx, c.platformURL, path, nil, &entries); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if e.QueueType == "" {
			return nil, Malformed("rank entry %d has no queueType", i)
		}
	}
	return entries, nil
}

// GetMatchIDs fetches up to count match IDs for a player, most recent first
func (c *Client) GetMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	q := url.Values{}
	q.Set("start", "0")
	q.Set("count", strconv.Itoa(count))

	var matchIDs []string
	if err := c.doRequest(ctx, c.regionalURL, path, q, &matchIDs); err != nil {
		return nil, err
	}
	return matchIDs, nil
}

// GetMatch fetches match details. An empty participant list is valid and
// simply matches no player.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)

	var match Match
	if err := c.doRequest(ctx, c.regionalURL, path, nil, &match); err != nil {
		return nil, err
	}
	if match.Info == nil {
		return nil, Malformed("match %s has no info", matchID)
	}
	return &match, nil
}

// GetMasteries fetches champion masteries for an encrypted summoner id.
// The API returns them sorted by points, highest first.
func (c *Client) GetMasteries(ctx context.Context, summonerID string) ([]MasteryEntry, error) {
	path := "/lol/champion-mastery/v4/champion-masteries/by-summoner/" + url.PathEscape(summonerID)

	var masteries []MasteryEntry
	if err := c.doRequest(ctx, c.platformURL, path, nil, &masteries); err != nil {
		return nil, err
	}
	for i, m := range masteries {
		if m.ChampionID == 0 {
			return nil, Malformed("mastery entry %d has no championId", i)
		}
	}
	return masteries, nil
}

// redactKey strips the api_key query parameter so keys never land in logs
func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
