package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPPort string

	// StatCan web data service
	WDSBaseURL   string
	WDSProductID string
	FetchTimeout int // seconds
	MaxRetries   int
	RetryDelayMs int

	// Snapshot fallback
	SnapshotPath string
	SnapshotURL  string

	// Cache / invalidation
	SignalFilePath     string
	SignalCheckSeconds int

	// Refresh scheduler
	RefreshIntervalHours int
	LastCheckPath        string

	// Optional PostgreSQL persistence; empty host disables it
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		WDSBaseURL:   getEnv("WDS_BASE_URL", "https://www150.statcan.gc.ca/t1/wds/rest/getFullTableDownloadCSV"),
		WDSProductID: getEnv("WDS_PRODUCT_ID", "34100133"),
		FetchTimeout: getEnvInt("FETCH_TIMEOUT_SECONDS", 30),
		MaxRetries:   getEnvInt("MAX_RETRIES", 3),
		RetryDelayMs: getEnvInt("RETRY_DELAY_MS", 2000),

		SnapshotPath: getEnv("SNAPSHOT_PATH", "./data/rental_snapshot.json"),
		SnapshotURL:  getEnv("SNAPSHOT_URL", ""),

		SignalFilePath:     getEnv("SIGNAL_FILE_PATH", "./data/refresh.signal"),
		SignalCheckSeconds: getEnvInt("SIGNAL_CHECK_SECONDS", 60),

		RefreshIntervalHours: getEnvInt("REFRESH_INTERVAL_HOURS", 24),
		LastCheckPath:        getEnv("LAST_CHECK_PATH", "./data/last_check"),

		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "rentcompare"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "rentcompare"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string, or "" when persistence is
// not configured.
func (c *Config) DSN() string {
	if c.PostgresHost == "" {
		return ""
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
