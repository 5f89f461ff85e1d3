// Package config loads runtime configuration for the Team Cup API from
// environment variables. Nothing is hardcoded: the same binary runs in dev,
// staging, and production with different env vars (12-factor style).
package config

import (
	"os"

	// godotenv reads a .env file into the process environment. Convenient in
	// development; in production real env vars are set by the platform and no
	// .env file exists.
	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the application.
type Config struct {
	Port          string // TCP port the HTTP server listens on (e.g. "8080")
	DatabaseURL   string // PostgreSQL connection string
	AuthSecretKey string // Secret for verifying identity-provider tokens server-side
	Env           string // "development", "staging", or "production"
	LogLevel      string // logrus level: "debug", "info", "warn", "error"
}

// Load reads configuration from the environment and returns a populated
// Config. A missing .env file is fine — the error from godotenv.Load is
// discarded on purpose, since production sets real env vars instead.
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		// Default to development so local runs never behave like production
		env = "development"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Port:          port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),     // Required — the server fails to start without it
		AuthSecretKey: os.Getenv("AUTH_SECRET_KEY"),  // Required for token verification once the provider is configured
		Env:           env,
		LogLevel:      logLevel,
	}
}
