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

// EnrichmentConfig holds provider keys and batch tuning. An empty key disables the provider.
type EnrichmentConfig struct {
	HunterAPIKey string
	ApolloAPIKey string
	LushaAPIKey  string

	HunterBaseURL string
	ApolloBaseURL string
	LushaBaseURL  string

	PageSize        int
	ProviderDelay   time.Duration
	LeaseTTL        time.Duration
	ProviderTimeout time.Duration
	MaxAttempts     int
	HunterMinScore  int
	PhoneRegion     string
}

// LogConfig selects the zap encoder and level.
type LogConfig struct {
	Level  string
	Format string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	DBMaxConns      int32
	DBLogLevel      string
	JWTSecret       string
	Port            string
	RateLimitEnrich RateLimitConfig
	TokenTTL        time.Duration
	Enrichment      EnrichmentConfig
	Log             LogConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBLogLevel:  strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret"),
		Port:        getEnv("PORT", "8080"),
		TokenTTL:    parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_ENRICH", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ENRICH value: %w", err)
	}
	cfg.RateLimitEnrich = rl

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns <= 0 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS value: %q", os.Getenv("DB_MAX_CONNS"))
	}
	cfg.DBMaxConns = int32(maxConns)

	enrich, err := loadEnrichment()
	if err != nil {
		return nil, err
	}
	cfg.Enrichment = enrich

	return cfg, nil
}

func loadEnrichment() (EnrichmentConfig, error) {
	cfg := EnrichmentConfig{
		HunterAPIKey:    strings.TrimSpace(os.Getenv("HUNTER_API_KEY")),
		ApolloAPIKey:    strings.TrimSpace(os.Getenv("APOLLO_API_KEY")),
		LushaAPIKey:     strings.TrimSpace(os.Getenv("LUSHA_API_KEY")),
		HunterBaseURL:   os.Getenv("HUNTER_BASE_URL"),
		ApolloBaseURL:   os.Getenv("APOLLO_BASE_URL"),
		LushaBaseURL:    os.Getenv("LUSHA_BASE_URL"),
		ProviderDelay:   parseDuration(getEnv("ENRICH_PROVIDER_DELAY", "500ms"), 500*time.Millisecond),
		LeaseTTL:        parseDuration(getEnv("ENRICH_LEASE_TTL", "2m"), 2*time.Minute),
		ProviderTimeout: parseDuration(getEnv("PROVIDER_TIMEOUT", "15s"), 15*time.Second),
		PhoneRegion:     strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "US")),
	}

	ints := []struct {
		key      string
		fallback string
		dst      *int
	}{
		{"ENRICH_PAGE_SIZE", "3", &cfg.PageSize},
		{"PROVIDER_MAX_ATTEMPTS", "2", &cfg.MaxAttempts},
		{"HUNTER_MIN_SCORE", "30", &cfg.HunterMinScore},
	}
	for _, item := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(getEnv(item.key, item.fallback)))
		if err != nil || n < 0 {
			return EnrichmentConfig{}, fmt.Errorf("invalid %s value: %q", item.key, os.Getenv(item.key))
		}
		*item.dst = n
	}
	if cfg.PageSize == 0 {
		return EnrichmentConfig{}, fmt.Errorf("invalid ENRICH_PAGE_SIZE value: must be positive")
	}

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

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}
