package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the settings read from the environment
type Config struct {
	DatabaseURL string
	LogLevel    string
}

// Load reads a .env file when one exists, then the process environment.
// Variables already set in the environment win over .env entries.
func Load(files ...string) *Config {
	// A missing .env is expected outside development
	_ = godotenv.Load(files...)

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
