// Package config loads service configuration from environment variables with
// sensible defaults for local development.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	CalendarBaseURL string
	RedisURL        string
	CacheTTLWeek    time.Duration
	FetchTimeout    time.Duration
	MaxRetries      int
	RetryBaseDelay  time.Duration
	RetryMaxDelay   time.Duration
	MaxWorkers      int
	MaxWeeks        int
	LogLevel        string
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		CalendarBaseURL: getEnv("CALENDAR_BASE_URL", "https://www.babypips.com/economic-calendar"),
		RedisURL:        getEnv("REDIS_URL", ""),
		CacheTTLWeek:    getEnvDuration("CACHE_TTL_WEEK", 300*time.Second),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("FETCH_MAX_RETRIES", 3),
		RetryBaseDelay:  getEnvDuration("FETCH_RETRY_BASE_DELAY", 1*time.Second),
		RetryMaxDelay:   getEnvDuration("FETCH_RETRY_MAX_DELAY", 15*time.Second),
		MaxWorkers:      getEnvInt("SCRAPE_MAX_WORKERS", 4),
		MaxWeeks:        getEnvInt("SCRAPE_MAX_WEEKS", 4),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Second
}
