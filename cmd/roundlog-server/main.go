package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/openfairway/roundlog/internal/api"
	"github.com/openfairway/roundlog/internal/config"
	"github.com/openfairway/roundlog/internal/course"
	"github.com/openfairway/roundlog/internal/database"
	"github.com/openfairway/roundlog/internal/location"
	"github.com/openfairway/roundlog/internal/realtime"
	"github.com/openfairway/roundlog/internal/round"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

// main is the entry point for the roundlog backend server.
func main() {
	// --- 1. Load Configuration ---
	// Configuration comes from the environment; a .env file is a development
	// convenience, so its absence is not an error.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables from the system")
	}

	// Colored, human-readable logs on the terminal.
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	})))

	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load application configuration", "error", err)
		os.Exit(1)
	}

	// --- 2. Ensure Required Directories Exist ---
	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		slog.Error("failed to create data directory", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.CoursePath, 0755); err != nil {
		slog.Error("failed to create course directory", "path", cfg.CoursePath, "error", err)
		os.Exit(1)
	}

	// --- 3. Initialize Database Service ---
	// The database service owns the connection and serializes all writes.
	dbService, err := database.NewService(cfg.DbFile)
	if err != nil {
		slog.Error("failed to initialize database service", "error", err)
		os.Exit(1)
	}
	defer dbService.Close()

	// Creates the event log, scorecard, and player tables if they do not
	// already exist; safe to run on every startup.
	if err := dbService.Init(); err != nil {
		slog.Error("failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database initialized", "path", cfg.DbFile)

	// --- 4. Wire the Domain Services ---
	broker := realtime.NewBroker()
	recorder := round.NewRecorder(dbService, broker)
	reconciler := round.NewReconciler(round.NewStoreReader(dbService))
	courses := course.NewLoader(cfg.CoursePath)

	// The location source is optional: with GPX_REPLAY set, a recorded
	// trail is replayed as the live source (useful for development without
	// a device); without it, tracking endpoints report no source.
	var src location.Source
	if cfg.GpxReplayFile != "" {
		replay, err := location.NewReplaySource(cfg.GpxReplayFile)
		if err != nil {
			slog.Error("failed to load GPX replay file", "path", cfg.GpxReplayFile, "error", err)
			os.Exit(1)
		}
		src = replay
		slog.Info("using GPX replay location source", "path", cfg.GpxReplayFile)
	}
	tracker := location.NewTracker(src, cfg.LocationInterval)

	// --- 5. Set Up API Server and Routes ---
	serverAPI := api.NewServer(cfg, dbService, broker, recorder, reconciler, courses, tracker)

	router := chi.NewRouter()
	serverAPI.RegisterRoutes(router)

	// --- 6. Start the HTTP Server ---
	slog.Info("roundlog server starting", "addr", cfg.ServerAddr)
	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
