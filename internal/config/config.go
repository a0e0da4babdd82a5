package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultDSN = "file:pharmastore.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string
	LogLevel    string
	LogDev      bool
	ExportedBy  string
	AppVersion  string
	LockFile    string
}

// Load reads configuration from environment variables with reasonable defaults.
// A .env file in the working directory is loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	port := getenv("HTTP_PORT", "8080")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	logDev, err := strconv.ParseBool(getenv("LOG_DEV", "false"))
	if err != nil {
		log.Printf("invalid LOG_DEV value, defaulting to false")
		logDev = false
	}

	return Config{
		Secret:      getenv("SECRET", "dev_secret"),
		DatabaseDSN: getenv("DATABASE_DSN", defaultDSN),
		HTTPPort:    port,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogDev:      logDev,
		ExportedBy:  getenv("EXPORTED_BY", "PharmaStore"),
		AppVersion:  getenv("APP_VERSION", "1.0.0"),
		LockFile:    getenv("LOCK_FILE", "pharmastore.lock"),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
