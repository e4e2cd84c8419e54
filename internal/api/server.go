package api

import (
	"encoding/json"
	"net/http"

	"github.com/openfairway/roundlog/internal/config"
	"github.com/openfairway/roundlog/internal/course"
	"github.com/openfairway/roundlog/internal/database"
	"github.com/openfairway/roundlog/internal/location"
	"github.com/openfairway/roundlog/internal/realtime"
	"github.com/openfairway/roundlog/internal/round"
)

// Server is the main struct for the API. It holds every dependency the HTTP
// handlers need: configuration, the database service, the event recorder and
// reconciler, the course loader, the realtime broker, and the location
// tracker. Wiring them in here keeps the handlers free of globals and makes
// them straightforward to test.
type Server struct {
	config     *config.Config
	db         *database.Service
	broker     *realtime.Broker
	recorder   *round.Recorder
	reconciler *round.Reconciler
	courses    *course.Loader
	tracker    *location.Tracker
}

// NewServer wires the handler dependencies into a new Server instance.
func NewServer(
	cfg *config.Config,
	db *database.Service,
	broker *realtime.Broker,
	recorder *round.Recorder,
	reconciler *round.Reconciler,
	courses *course.Loader,
	tracker *location.Tracker,
) *Server {
	return &Server{
		config:     cfg,
		db:         db,
		broker:     broker,
		recorder:   recorder,
		reconciler: reconciler,
		courses:    courses,
		tracker:    tracker,
	}
}

// envelope is a custom map type used for creating structured JSON responses,
// e.g. `envelope{"scoreCard": card}`.
type envelope map[string]interface{}

// writeJSON is a helper method for sending JSON responses. It marshals the
// data, sets the 'Content-Type' header, and writes the status code. All
// successful responses go through here so the output format stays consistent.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}, headers ...http.Header) {
	// Pretty-printed output; the payloads here are small and this is
	// helpful when poking the API by hand.
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		// If marshaling fails we can't trust our own JSON error format,
		// so fall back to a plain text response.
		http.Error(w, "Internal Server Error: Failed to marshal JSON", http.StatusInternalServerError)
		return
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}

// errorJSON sends a standardized JSON error response of the form
// `{"error": "message"}`. Defaults to 500 when no status is given.
func (s *Server) errorJSON(w http.ResponseWriter, err error, status ...int) {
	statusCode := http.StatusInternalServerError
	if len(status) > 0 {
		statusCode = status[0]
	}

	s.writeJSON(w, statusCode, envelope{"error": err.Error()})
}
