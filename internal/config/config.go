package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port             string
	DBPath           string
	JWTSecret        string
	AnalysisDebounce time.Duration
	RateLimit        int // requests per minute per IP
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/locations/locations.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	debounceMS := envInt("ANALYSIS_DEBOUNCE_MS", 2000)
	rateLimit := envInt("RATE_LIMIT_PER_MINUTE", 120)

	return &Config{
		Port:             port,
		DBPath:           dbPath,
		JWTSecret:        jwtSecret,
		AnalysisDebounce: time.Duration(debounceMS) * time.Millisecond,
		RateLimit:        rateLimit,
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
