package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"league-piper/internal/archive"
	"league-piper/internal/config"
	"league-piper/internal/ddragon"
	"league-piper/internal/discord"
	"league-piper/internal/render"
	"league-piper/internal/report"
	"league-piper/internal/riot"
)

const usage = `Usage: piper [flags] <command> [args]

Commands:
  rank NAME                       ranked wins and losses per queue
  recent NAME [-count N]          the player's line from each recent match
  friends NAME                    players who shared the result at least twice in 10 matches
  compare NAME1 NAME2 [-chart F]  average KDA over 20 matches, optional PNG chart
  favorite NAME [-o F]            highest-mastery champion, optional icon file

Flags:
`

// app holds what every command needs
type app struct {
	reporter *report.Reporter
	store    archive.Store
	webhook  *discord.WebhookClient
}

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exit
func run() int {
	config.LoadEnv()

	region := flag.String("region", "", "platform code, e.g. NA1, EUW1, KR (default NA1, or RIOT_REGION)")
	archivePath := flag.String("archive", "", "SQLite file to archive results in; takes precedence over DATABASE_URL and ARCHIVE_PATH")
	webhookURL := flag.String("webhook", "", "Discord webhook to post results to (or DISCORD_WEBHOOK_URL)")
	concurrency := flag.Int("concurrency", 0, "fetch up to N match details at once (default sequential)")
	verbose := flag.Bool("v", false, "log each match fetch")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}
	applyFlags(cfg, *region, *archivePath, *webhookURL, *concurrency)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := setup(ctx, cfg, *verbose)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	if a.store != nil {
		defer a.store.Close()
	}

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		if riot.IsNotFound(err) {
			log.Printf("Not found: %v", err)
		} else {
			log.Printf("%s failed: %v", flag.Arg(0), err)
		}
		return 1
	}
	return 0
}

// applyFlags overlays command-line values on cfg. An explicit -archive file
// replaces any Postgres archive from the environment.
func applyFlags(cfg *config.Config, region, archivePath, webhookURL string, concurrency int) {
	override(&cfg.Region, region)
	override(&cfg.WebhookURL, webhookURL)
	if archivePath != "" {
		cfg.ArchivePath = archivePath
		cfg.DatabaseURL = ""
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// setup validates the key and builds the reporter and optional sinks
func setup(ctx context.Context, cfg *config.Config, verbose bool) (*app, error) {
	region, err := riot.LookupRegion(cfg.Region)
	if err != nil {
		return nil, err
	}

	validator := riot.NewKeyValidator(riot.WithValidatorURL(region.Platform))
	valid, err := validator.ValidateKey(ctx, cfg.RiotAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to validate API key: %w", err)
	}
	if !valid {
		return nil, fmt.Errorf("API key rejected (expired or revoked); development keys last 24 hours")
	}

	opts := []report.Option{
		report.WithConcurrency(cfg.Concurrency),
		report.WithIconVersion(cfg.IconVersion),
	}
	if verbose {
		opts = append(opts, report.WithLogf(log.Printf))
	}

	a := &app{
		reporter: report.New(riot.New(cfg.RiotAPIKey, riot.WithRegion(region)), ddragon.New(), opts...),
	}

	a.store, err = archive.Open(ctx, cfg.DatabaseURL, cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if cfg.WebhookURL != "" {
		a.webhook = discord.NewWebhookClient(cfg.WebhookURL)
	}
	return a, nil
}

// parseArgs parses fs allowing flags before, between or after the n positional names
func parseArgs(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	var names []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		names = append(names, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(names) != n {
		return nil, fmt.Errorf("%s takes %d name(s), got %d", fs.Name(), n, len(names))
	}
	return names, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "rank":
		return a.rank(ctx, args)
	case "recent":
		return a.recent(ctx, args)
	case "friends":
		return a.friends(ctx, args)
	case "compare":
		return a.compare(ctx, args)
	case "favorite":
		return a.favorite(ctx, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) rank(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	names, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	summary, err := a.reporter.RankSummary(ctx, names[0])
	if err != nil {
		return err
	}
	for _, line := range summary.Lines() {
		fmt.Println(line)
	}

	if a.webhook != nil {
		if err := a.webhook.SendRankSummary(ctx, summary); err != nil {
			log.Printf("[Discord] Failed to post rank summary: %v", err)
		}
	}
	return nil
}

func (a *app) recent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	count := fs.Int("count", report.DefaultRecentCount, "number of recent matches")
	names, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATCH\tCHAMPION\tLANE\tK/D/A\tRESULT")

	var records []report.MatchRecord
	err = a.reporter.RecentGamesFunc(ctx, names[0], *count, func(rec report.MatchRecord) error {
		records = append(records, rec)
		result := "Loss"
		if rec.Win {
			result = "Win"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d/%d\t%s\n", rec.MatchID, rec.ChampionName, rec.Lane, rec.Kills, rec.Deaths, rec.Assists, result)
		return nil
	})
	w.Flush()
	if err != nil {
		return err
	}

	if a.store != nil {
		if err := a.store.SaveMatchRecords(ctx, names[0], records); err != nil {
			log.Printf("[Archive] Failed to save recent games: %v", err)
		}
	}
	return nil
}

func (a *app) friends(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("friends", flag.ExitOnError)
	names, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	rows, err := a.reporter.FriendList(ctx, names[0])
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Printf("No player shared a result with %s more than once in the last %d matches\n", names[0], report.FriendMatchCount)
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tGAMES\tWINS\tWIN RATE")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.2f%%\n", r.Name, r.TotalGames, r.Wins, r.WinRate)
		}
		w.Flush()
	}

	if a.store != nil {
		if err := a.store.SaveTeammates(ctx, names[0], rows); err != nil {
			log.Printf("[Archive] Failed to save friend list: %v", err)
		}
	}
	if a.webhook != nil {
		if err := a.webhook.SendFriendList(ctx, names[0], rows); err != nil {
			log.Printf("[Discord] Failed to post friend list: %v", err)
		}
	}
	return nil
}

func (a *app) compare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	chart := fs.String("chart", "", "write a grouped bar chart PNG to this file")
	names, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	table, err := a.reporter.ComparePlayers(ctx, names[0], names[1])
	if err != nil {
		return err
	}
	fmt.Print(table)

	if *chart != "" {
		var buf bytes.Buffer
		if err := render.BarChart(&buf, table); err != nil {
			return err
		}
		if err := os.WriteFile(*chart, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		fmt.Printf("Chart written to %s\n", *chart)
	}

	if a.webhook != nil {
		if err := a.webhook.SendComparison(ctx, table); err != nil {
			log.Printf("[Discord] Failed to post comparison: %v", err)
		}
	}
	return nil
}

func (a *app) favorite(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("favorite", flag.ExitOnError)
	out := fs.String("o", "", "write the champion icon to this file")
	names, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	start := time.Now()
	fav, err := a.reporter.FavoriteChampion(ctx, names[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s (%d points)\n", names[0], fav.Champion.Name, fav.ChampionPoints)
	fmt.Printf("Catalog %s, icon %s (%dx%d), fetched in %s\n",
		fav.CatalogVersion, fav.IconVersion, fav.Image.Bounds().Dx(), fav.Image.Bounds().Dy(),
		time.Since(start).Round(time.Millisecond))

	if *out != "" {
		if !strings.HasSuffix(strings.ToLower(*out), ".png") {
			log.Printf("Note: Data Dragon icons are PNG; writing raw bytes to %s", *out)
		}
		if err := os.WriteFile(*out, fav.Icon, 0644); err != nil {
			return fmt.Errorf("failed to write icon: %w", err)
		}
		fmt.Printf("Icon written to %s\n", *out)
	}
	return nil
}
