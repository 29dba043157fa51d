package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RiotConfiguration holds everything needed to talk to the Riot API.
type RiotConfiguration struct {
	ApiKey string

	// Platform region for the league endpoints (euw1, na1...).
	Region string

	// Routing region for the account and match endpoints (europe, americas...).
	RoutingRegion string

	// Default page size when listing match ids.
	PageSize int

	// Attempt budget for a single request.
	MaxRetries int

	// Matches created before this point are never stored.
	SeasonStart time.Time

	// How often the worker refreshes every tracked account.
	RefreshInterval time.Duration
}

// DatabaseConfiguration for the postgres connection.
type DatabaseConfiguration struct {
	URL            string
	Database       string
	MigrationsPath string
}

// RedisConfiguration for the refresh locks.
type RedisConfiguration struct {
	Host     string
	Port     string
	Password string
}

// BucketConfiguration for the S3 compatible log bucket.
type BucketConfiguration struct {
	Region       string
	Endpoint     string
	AccessKey    string
	AccessSecret string
	LogBucket    string
}

// Config is the full application configuration.
type Config struct {
	Riot     RiotConfiguration
	Database DatabaseConfiguration
	Redis    RedisConfiguration
	Bucket   BucketConfiguration
}

// Load reads the .env (when present) and builds the configuration.
func Load() (*Config, error) {
	// The .env is optional, the variables can come from the environment itself.
	_ = godotenv.Load()

	cfg := &Config{
		Riot: RiotConfiguration{
			ApiKey:          os.Getenv("RIOT_API_KEY"),
			Region:          getEnvDefault("RIOT_API_REGION", "euw1"),
			RoutingRegion:   getEnvDefault("RIOT_ROUTING_REGION", "europe"),
			PageSize:        getEnvIntDefault("RIOT_PAGE_SIZE", 100),
			MaxRetries:      getEnvIntDefault("RIOT_MAX_RETRIES", 3),
			RefreshInterval: time.Duration(getEnvIntDefault("REFRESH_INTERVAL_MINUTES", 60)) * time.Minute,
		},
		Database: DatabaseConfiguration{
			URL:            os.Getenv("DATABASE_URL"),
			Database:       getEnvDefault("POSTGRES_DB", "coachstats"),
			MigrationsPath: getEnvDefault("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfiguration{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     os.Getenv("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Bucket: BucketConfiguration{
			Region:       os.Getenv("BUCKET_REGION"),
			Endpoint:     os.Getenv("BUCKET_ENDPOINT"),
			AccessKey:    os.Getenv("BUCKET_ACCESS_KEY"),
			AccessSecret: os.Getenv("BUCKET_ACCESS_SECRET"),
			LogBucket:    os.Getenv("BUCKET_LOG_NAME"),
		},
	}

	if cfg.Riot.ApiKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY must be set")
	}

	seasonStart, err := parseSeasonStart(getEnvDefault("SEASON_START", "2026-01-09"))
	if err != nil {
		return nil, err
	}
	cfg.Riot.SeasonStart = seasonStart

	return cfg, nil
}

// parseSeasonStart accepts a full RFC3339 timestamp or a plain date.
func parseSeasonStart(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("couldn't parse SEASON_START %q: %w", value, err)
	}
	return t, nil
}

// getEnvDefault returns the environment value or a fallback.
func getEnvDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvIntDefault returns the environment value as a int or a fallback.
func getEnvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
