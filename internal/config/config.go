// Package config reads runtime settings from the environment and .env files.
package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPaths are tried in order; the first .env that loads wins
var EnvPaths = []string{".env", "../.env", "../../.env"}

// Config holds settings shared by the CLI and the server
type Config struct {
	RiotAPIKey  string
	Region      string
	DatabaseURL string
	ArchivePath string
	WebhookURL  string
	Port        string
	IconVersion string
	Concurrency int
}

// ErrNoAPIKey is returned when no Riot API key is configured
var ErrNoAPIKey = errors.New("RIOT_API_KEY environment variable not set")

// LoadEnv loads the first .env file found in paths. Missing files are fine.
func LoadEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = EnvPaths
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("[Config] Loaded .env from: %s", path)
			return path
		}
	}
	log.Println("[Config] No .env file found, using environment variables")
	return ""
}

// Load reads the environment. Only the API key is required.
func Load() (*Config, error) {
	cfg := &Config{
		RiotAPIKey:  os.Getenv("RIOT_API_KEY"),
		Region:      os.Getenv("RIOT_REGION"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ArchivePath: os.Getenv("ARCHIVE_PATH"),
		WebhookURL:  os.Getenv("DISCORD_WEBHOOK_URL"),
		Port:        os.Getenv("PORT"),
		IconVersion: os.Getenv("ICON_VERSION"),
	}
	if cfg.RiotAPIKey == "" {
		// Fallback to old name
		cfg.RiotAPIKey = os.Getenv("RIOT-DEV-KEY")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if v := os.Getenv("FETCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errors.New("FETCH_CONCURRENCY must be a non-negative integer")
		}
		cfg.Concurrency = n
	}

	if cfg.RiotAPIKey == "" {
		return nil, ErrNoAPIKey
	}
	return cfg, nil
}
