package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// QuotaLimits carries the daily call budgets for the paid external services.
type QuotaLimits struct {
	Verifier int
	Finder   int
	LLM      int
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	TokenTTL    time.Duration

	ScraperBaseURL   string
	LLMWorkerBaseURL string
	VerifierBaseURL  string
	VerifierAPIKey   string
	FinderBaseURL    string
	FinderAPIKey     string

	DefaultPhoneRegion string
	PatternChecks      int
	Quotas             QuotaLimits
	RateLimitResolve   RateLimitConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		Port:               getEnv("PORT", "8080"),
		TokenTTL:           parseDuration(getEnv("JWT_TTL", "24h")),
		ScraperBaseURL:     getEnv("SCRAPER_BASE_URL", "http://scraper:9000"),
		LLMWorkerBaseURL:   getEnv("LLM_WORKER_BASE_URL", "http://llm-worker:9100"),
		VerifierBaseURL:    getEnv("VERIFIER_BASE_URL", "https://api.millionverifier.com"),
		VerifierAPIKey:     os.Getenv("VERIFIER_API_KEY"),
		FinderBaseURL:      getEnv("FINDER_BASE_URL", "https://api.anymailfinder.com"),
		FinderAPIKey:       os.Getenv("FINDER_API_KEY"),
		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "GB"),
		PatternChecks:      parsePositiveInt(getEnv("PATTERN_CHECKS_PER_BUSINESS", "3"), 3),
		Quotas: QuotaLimits{
			Verifier: parsePositiveInt(getEnv("VERIFIER_DAILY_LIMIT", "500"), 500),
			Finder:   parsePositiveInt(getEnv("FINDER_DAILY_LIMIT", "20"), 20),
			LLM:      parsePositiveInt(getEnv("LLM_DAILY_LIMIT", "200"), 200),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_RESOLVE", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RESOLVE value: %w", err)
	}
	cfg.RateLimitResolve = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func parsePositiveInt(input string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
