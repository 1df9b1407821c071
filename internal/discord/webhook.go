package discord

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"league-piper/internal/report"
)

const (
	// Colors for Discord embeds
	colorBlue  = 3447003  // 0x3498DB - comparisons
	colorGreen = 5763719  // 0x57F287 - friend lists
	colorGold  = 15844367 // 0xF1C40F - ranked

	defaultWebhookTimeout = 10 * time.Second

	// Discord rejects embeds with more fields than this
	maxEmbedFields = 25
)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField represents a field in a Discord embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter represents the footer of a Discord embed
type EmbedFooter struct {
	Text string `json:"text"`
}

// NewFriendListPayload creates a payload listing frequent co-players
func NewFriendListPayload(name string, rows []report.TeammateStat) WebhookPayload {
	embed := Embed{
		Title: "👥 Frequent teammates of " + name,
		Color: colorGreen,
	}
	if len(rows) == 0 {
		embed.Description = "No repeat teammates in the last " + fmt.Sprint(report.FriendMatchCount) + " matches"
	}

	shown := rows
	if len(shown) > maxEmbedFields {
		shown = shown[:maxEmbedFields]
		embed.Footer = &EmbedFooter{Text: fmt.Sprintf("%d more not shown", len(rows)-maxEmbedFields)}
	}
	for _, r := range shown {
		embed.Fields = append(embed.Fields, EmbedField{
			Name:   r.Name,
			Value:  fmt.Sprintf("%d games, %d wins (%.2f%%)", r.TotalGames, r.Wins, r.WinRate),
			Inline: true,
		})
	}

	return WebhookPayload{Embeds: []Embed{embed}}
}

// NewComparisonPayload creates a payload with one inline field per player
func NewComparisonPayload(t *report.Table) WebhookPayload {
	embed := Embed{
		Title: "⚔️ " + strings.Join(t.Columns, " vs "),
		Color: colorBlue,
		Footer: &EmbedFooter{
			Text: fmt.Sprintf("Averages over the last %d matches", report.CompareCount),
		},
	}

	for ci, player := range t.Columns {
		var lines []string
		for ri, label := range t.Index {
			lines = append(lines, fmt.Sprintf("%s: %s", label, formatMean(t.Values[ri][ci])))
		}
		embed.Fields = append(embed.Fields, EmbedField{
			Name:   player,
			Value:  strings.Join(lines, "\n"),
			Inline: true,
		})
	}

	return WebhookPayload{Embeds: []Embed{embed}}
}

// NewRankSummaryPayload creates a payload with one field per ranked queue
func NewRankSummaryPayload(s *report.RankSummary) WebhookPayload {
	embed := Embed{
		Title: "🏆 " + s.Summoner,
		Color: colorGold,
	}
	if !s.HasRank() {
		embed.Description = "Summoner has no ranked information"
	}
	for _, e := range s.Entries {
		value := fmt.Sprintf("%d wins, %d losses", e.Wins, e.Losses)
		if e.Tier != "" {
			value = fmt.Sprintf("%s %s %d LP\n%s", e.Tier, e.Rank, e.LeaguePoints, value)
		}
		embed.Fields = append(embed.Fields, EmbedField{Name: e.QueueType, Value: value, Inline: true})
	}

	return WebhookPayload{Embeds: []Embed{embed}}
}

// WebhookClient posts report embeds to a Discord webhook
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

// SendFriendList posts a friend list report
func (c *WebhookClient) SendFriendList(ctx context.Context, name string, rows []report.TeammateStat) error {
	return c.sendPayload(ctx, NewFriendListPayload(name, rows))
}

// SendComparison posts a comparison table
func (c *WebhookClient) SendComparison(ctx context.Context, t *report.Table) error {
	return c.sendPayload(ctx, NewComparisonPayload(t))
}

// SendRankSummary posts a ranked summary
func (c *WebhookClient) SendRankSummary(ctx context.Context, s *report.RankSummary) error {
	return c.sendPayload(ctx, NewRankSummaryPayload(s))
}

// sendPayload posts once; rate limiting is reported as an error like any
// other non-success status
func (c *WebhookClient) sendPayload(ctx context.Context, payload WebhookPayload) error {
	payload.Embeds[0].Timestamp = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	resp.Body.Close()

	// Discord returns 204 No Content, or 200 with ?wait=true
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
		return nil
	}
	return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
}

// formatMean renders a mean with two decimals, or "n/a" for a player with no games
func formatMean(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
