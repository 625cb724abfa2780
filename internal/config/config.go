// Package config loads the application's configuration from the
// environment. With ENV=dev a .env file is read first (godotenv), so local
// development doesn't need exported variables.
//
// The loaded Config is passed by value into the constructors that need it.
// No package reads an environment variable outside of Load — there is no
// ambient configuration.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full backend configuration surface.
type Config struct {
	Port          int    // PORT
	DBPath        string // DB_PATH, SQLite database file
	AllowedOrigin string // CORS_ORIGIN, the browser frontend's origin

	JWTSecret   string        // JWT_SECRET, required, >= 16 chars
	TokenIssuer string        // JWT_ISSUER
	TokenExpiry time.Duration // JWT_EXPIRY, Go duration string
}

// Load reads the configuration. It fails only on values that cannot work
// at all (missing secret, unparsable numbers); everything else defaults.
func Load() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		// Best effort — a missing .env just means plain env vars.
		godotenv.Load()
	}

	cfg := Config{
		Port:          8080,
		DBPath:        "data/alfred.db",
		AllowedOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenIssuer:   getEnv("JWT_ISSUER", "alfred-backend"),
		TokenExpiry:   24 * time.Hour,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, errors.New("config: PORT must be an integer")
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		expiry, err := time.ParseDuration(expiryStr)
		if err != nil {
			return Config{}, errors.New("config: JWT_EXPIRY must be a duration like 24h or 30m")
		}
		cfg.TokenExpiry = expiry
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET must be set (try: openssl rand -hex 32)")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
