package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	JWTSecret string
	JWTExpiry time.Duration

	DatabaseURL string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Calendar sync tunables. The time budget must stay well under the
	// host's hard execution ceiling so the drive loop always exits through
	// its own pause path instead of being killed mid-write.
	SyncTimeBudget      time.Duration
	SyncPageSize        int64
	SyncFlushSize       int
	SyncUpsertChunk     int
	SyncPageDelay       time.Duration
	SyncRefreshInterval time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiry: getDuration("JWT_EXPIRY", 15*time.Minute),

		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=wildflower port=5432 sslmode=disable"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/calendar/auth/callback"),

		SyncTimeBudget:      getDuration("SYNC_TIME_BUDGET", 50*time.Second),
		SyncPageSize:        int64(getInt("SYNC_PAGE_SIZE", 100)),
		SyncFlushSize:       getInt("SYNC_FLUSH_SIZE", 25),
		SyncUpsertChunk:     getInt("SYNC_UPSERT_CHUNK", 50),
		SyncPageDelay:       getDuration("SYNC_PAGE_DELAY", 200*time.Millisecond),
		SyncRefreshInterval: getDuration("SYNC_REFRESH_INTERVAL", 15*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
