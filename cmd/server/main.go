package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"league-piper/internal/archive"
	"league-piper/internal/config"
	"league-piper/internal/ddragon"
	"league-piper/internal/report"
	"league-piper/internal/riot"
	"league-piper/internal/server"
)

func main() {
	// Load .env file - try multiple locations
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	region, err := riot.LookupRegion(cfg.Region)
	if err != nil {
		log.Fatalf("Invalid RIOT_REGION: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Fail fast on an expired key; dev keys last 24 hours
	valid, err := riot.NewKeyValidator(riot.WithValidatorURL(region.Platform)).ValidateKey(ctx, cfg.RiotAPIKey)
	if err != nil {
		log.Fatalf("Failed to validate API key: %v", err)
	}
	if !valid {
		log.Fatal("API key rejected (expired or revoked)")
	}

	store, err := archive.Open(ctx, cfg.DatabaseURL, cfg.ArchivePath)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	if store != nil {
		defer store.Close()
		log.Println("[Server] Archiving reports")
	} else {
		log.Println("[Server] No DATABASE_URL or ARCHIVE_PATH, archiving disabled")
	}

	reporter := report.New(
		riot.New(cfg.RiotAPIKey, riot.WithRegion(region)),
		ddragon.New(),
		report.WithConcurrency(cfg.Concurrency),
		report.WithIconVersion(cfg.IconVersion),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(reporter, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[Server] Starting on http://localhost:%s (platform %s)", cfg.Port, region.Platform)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("[Server] Stopped")
}
