package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RegisterRoutes sets up all the API endpoints and middleware.
func (s *Server) RegisterRoutes(r *chi.Mux) {
	// --- Global Middleware ---
	r.Use(middleware.Logger)    // Logs incoming requests
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error

	// --- REST API Group with CORS ---
	// All routes defined within this group are prefixed with "/api/v1".
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			// In production, tighten this to the companion app's origin.
			AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", s.config.FrontendURL},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		// Auth routes
		r.Post("/players/register", s.handleRegisterPlayer)
		r.Post("/players/login", s.handleLoginPlayer)

		// --- Authenticated Routes ---
		// Everything below requires a valid JWT.
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/players/me", s.handleGetMyProfile)

			// Course Routes
			r.Get("/courses/{courseID}", s.handleGetCourse)

			// Round Routes
			r.Post("/rounds", s.handleCreateRound)
			r.Get("/rounds", s.handleGetRounds)
			r.Get("/rounds/{roundID}", s.handleGetRound)
			r.Delete("/rounds/{roundID}", s.handleDeleteRound)
			r.Post("/rounds/{roundID}/finish", s.handleFinishRound)

			// Event Recording Routes
			r.Post("/rounds/{roundID}/shots", s.handleTrackShot)
			r.Post("/rounds/{roundID}/locations", s.handleRecordLocation)
			r.Post("/rounds/{roundID}/holes/{holeNumber}/changed", s.handleHoleChanged)
			r.Get("/rounds/{roundID}/events", s.handleGetEvents)

			// Scorecard Routes
			r.Put("/rounds/{roundID}/holes/{holeNumber}/stats", s.handleUpdateHoleStats)
			r.Post("/rounds/{roundID}/holes/{holeNumber}/reconcile", s.handleReconcileHole)

			// Live stream and GPX export
			r.Get("/rounds/{roundID}/stream", s.handleRoundStream)
			r.Get("/rounds/{roundID}/track.gpx", s.handleExportTrack)

			// Location Tracking Routes
			r.Post("/tracking/start", s.handleStartTracking)
			r.Post("/tracking/stop", s.handleStopTracking)
			r.Get("/tracking/status", s.handleTrackingStatus)
		})
	})
}
