package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openfairway/roundlog/internal/location"
	"github.com/openfairway/roundlog/internal/round"
)

// handleStartTracking starts the server-side location source and records
// every location it yields as a LocationUpdated event on the given round.
// Only one tracking session can be active at a time; a second start is
// rejected with 409 Conflict rather than queued.
func (s *Server) handleStartTracking(w http.ResponseWriter, r *http.Request) {
	playerID, err := s.getPlayerIDFromContext(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	var payload struct {
		RoundID int64 `json:"roundId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}
	if payload.RoundID == 0 {
		s.errorJSON(w, errors.New("roundId is required"), http.StatusBadRequest)
		return
	}

	// The subscription must outlive this request, so it is started on the
	// background context and stopped via the tracker, not the request.
	sub, err := s.tracker.Start(context.Background())
	if err != nil {
		switch {
		case errors.Is(err, location.ErrAlreadyTracking):
			s.errorJSON(w, err, http.StatusConflict)
		case errors.Is(err, location.ErrNoSource):
			s.errorJSON(w, err, http.StatusServiceUnavailable)
		default:
			s.errorJSON(w, err, http.StatusInternalServerError)
		}
		return
	}

	// Pump the location stream into the round's event log until the
	// subscription ends (stop call or source exhaustion).
	go func() {
		for loc := range sub.C {
			if err := s.recorder.Record(round.NewLocationUpdated(loc), payload.RoundID, playerID); err != nil {
				slog.Error("failed to record tracked location",
					"roundId", payload.RoundID, "error", err)
			}
		}
	}()

	s.writeJSON(w, http.StatusOK, envelope{"tracking": true, "roundId": payload.RoundID})
}

// handleStopTracking cancels the active tracking session, if any. Stopping
// when nothing is tracking is a no-op, not an error.
func (s *Server) handleStopTracking(w http.ResponseWriter, r *http.Request) {
	s.tracker.Stop()
	s.writeJSON(w, http.StatusOK, envelope{"tracking": false})
}

// handleTrackingStatus reports whether a tracking session is active.
func (s *Server) handleTrackingStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, envelope{"tracking": s.tracker.IsTracking()})
}
