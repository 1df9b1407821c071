package ddragon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"league-piper/internal/riot"
)

const (
	defaultBaseURL = "https://ddragon.leagueoflegends.com"

	// IconVersion pins the asset version used for champion icons. It is
	// deliberately independent of LatestVersion, which drives the catalog.
	IconVersion = "12.23.1"
)

// Champion holds one entry of champion.json
type Champion struct {
	ID   string `json:"id"`   // asset id, e.g. "MonkeyKing"
	Key  string `json:"key"`  // numeric champion id as a string, e.g. "62"
	Name string `json:"name"` // display name, e.g. "Wukong"
}

// Catalog maps numeric champion ids to champions for one Data Dragon version.
// It is never refreshed after construction.
type Catalog struct {
	version   string
	champions map[int]Champion
}

// Client fetches Data Dragon versions, catalogs and icons. No key is required.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL sets a custom CDN base URL (useful for testing)
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a new Data Dragon client
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// LatestVersion returns the first entry of versions.json
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := riot.GetJSON(ctx, c.httpClient, c.baseURL+"/api/versions.json", &versions); err != nil {
		return "", err
	}
	if len(versions) == 0 || versions[0] == "" {
		return "", riot.Malformed("no versions available")
	}
	return versions[0], nil
}

// Catalog fetches champion.json for version and builds the key -> champion map
func (c *Client) Catalog(ctx context.Context, version string) (*Catalog, error) {
	champURL := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.baseURL, url.PathEscape(version))

	var champData struct {
		Data map[string]Champion `json:"data"`
	}
	if err := riot.GetJSON(ctx, c.httpClient, champURL, &champData); err != nil {
		return nil, err
	}
	if champData.Data == nil {
		return nil, riot.Malformed("champion.json %s has no data", version)
	}

	return NewCatalog(version, champData.Data), nil
}

// NewCatalog builds a Catalog from champion.json's data object. Entries whose
// key is not numeric are skipped.
func NewCatalog(version string, data map[string]Champion) *Catalog {
	cat := &Catalog{
		version:   version,
		champions: make(map[int]Champion, len(data)),
	}
	for id, champ := range data {
		key, err := strconv.Atoi(champ.Key)
		if err != nil {
			continue
		}
		if champ.ID == "" {
			// The map key is the icon ID (e.g., "Ahri", "MonkeyKing")
			champ.ID = id
		}
		cat.champions[key] = champ
	}
	return cat
}

// Version returns the Data Dragon version the catalog was built from
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of champions in the catalog
func (c *Catalog) Len() int {
	return len(c.champions)
}

// Lookup returns the champion for a numeric id
func (c *Catalog) Lookup(championID int) (Champion, bool) {
	champ, ok := c.champions[championID]
	return champ, ok
}

// Icon fetches the square champion icon PNG for an asset id at the given version
func (c *Client) Icon(ctx context.Context, version, championID string) ([]byte, error) {
	return riot.FetchBody(ctx, c.httpClient, c.IconURL(version, championID))
}

// IconURL returns the Data Dragon icon URL for an asset id
func (c *Client) IconURL(version, championID string) string {
	return fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", c.baseURL, url.PathEscape(version), url.PathEscape(championID))
}
