package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the round recorder service.
// Centralizing these settings keeps deployment a matter of environment
// variables rather than code changes.
type Config struct {
	// --- Server & paths ---
	ServerAddr string
	DataPath   string
	DbFile     string // derived: <DataPath>/rounds.db
	CoursePath string // derived: <DataPath>/courses

	// --- Security ---
	JwtSecret string

	// --- Location tracking ---
	LocationInterval time.Duration // minimum interval between location updates
	GpxReplayFile    string        // optional: replay this GPX file as the location source

	// --- CORS ---
	FrontendURL string
}

const defaultLocationInterval = 15 * time.Second

// New loads configuration from environment variables, applies defaults for
// non-critical values, and fails fast when a required value is missing so
// the server never starts half-configured.
func New() (*Config, error) {
	cfg := &Config{
		ServerAddr:    os.Getenv("SERVER_ADDR"),
		DataPath:      os.Getenv("DATA_PATH"),
		JwtSecret:     os.Getenv("JWT_SECRET"),
		GpxReplayFile: os.Getenv("GPX_REPLAY"),
		FrontendURL:   os.Getenv("FRONTEND_URL"),
	}

	// --- Defaults for non-critical values ---
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "./data"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:5173"
	}

	cfg.LocationInterval = defaultLocationInterval
	if raw := os.Getenv("LOCATION_INTERVAL_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return nil, errors.New("LOCATION_INTERVAL_MS must be a positive integer")
		}
		cfg.LocationInterval = time.Duration(ms) * time.Millisecond
	}

	// --- Required values ---
	if cfg.JwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}

	// --- Derived paths ---
	cfg.DbFile = filepath.Join(cfg.DataPath, "rounds.db")
	cfg.CoursePath = filepath.Join(cfg.DataPath, "courses")

	return cfg, nil
}
