// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for actuaryhub.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	ScrapeBaseURL       string
	PagesToScrape       int // how many listing pages one scrape run walks
	ScrapeIntervalHours int // cron interval; 0 disables the scheduler
	Headless            bool
}

// Load reads .env (when present) and environment variables, returning a
// validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := os.Getenv("SCRAPE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.actuarylist.com"
	}

	pages, err := envInt("PAGES_TO_SCRAPE", 2)
	if err != nil {
		return nil, err
	}
	if pages < 1 {
		return nil, fmt.Errorf("PAGES_TO_SCRAPE must be a positive integer, got %d", pages)
	}

	interval, err := envInt("SCRAPE_INTERVAL_HOURS", 6)
	if err != nil {
		return nil, err
	}
	if interval < 0 {
		return nil, fmt.Errorf("SCRAPE_INTERVAL_HOURS must not be negative, got %d", interval)
	}

	headless := true
	if s := os.Getenv("HEADLESS"); s != "" {
		headless, err = strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS must be a boolean, got %q", s)
		}
	}

	return &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		ScrapeBaseURL:       baseURL,
		PagesToScrape:       pages,
		ScrapeIntervalHours: interval,
		Headless:            headless,
	}, nil
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, s)
	}
	return v, nil
}
