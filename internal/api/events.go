package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/openfairway/roundlog/internal/database"
	"github.com/openfairway/roundlog/internal/geo"
	"github.com/openfairway/roundlog/internal/round"
)

// eventResponse is the wire view of one stored event: the flat record
// metadata plus the payload re-emitted as raw JSON so the client decodes it
// by the type tag, exactly as it was stored.
type eventResponse struct {
	Timestamp int64           `json:"timestamp"`
	RoundID   int64           `json:"roundId"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	PlayerID  int64           `json:"playerId"`
}

func toEventResponse(rec database.EventRecord) eventResponse {
	return eventResponse{
		Timestamp: rec.Timestamp,
		RoundID:   rec.RoundID,
		Type:      rec.EventType,
		Payload:   json.RawMessage(rec.EventData),
		PlayerID:  rec.PlayerID,
	}
}

// handleTrackShot records a shot for a hole and immediately reconciles the
// hole's scorecard entry against the tracked shots, so the app sees the
// updated score in the same response. The reconciled scorecard is only
// persisted when reconciliation actually changed something.
func (s *Server) handleTrackShot(w http.ResponseWriter, r *http.Request) {
	playerID, err := s.getPlayerIDFromContext(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	var payload struct {
		HoleNumber    int            `json:"holeNumber"`
		Club          round.Club     `json:"club"`
		StartLocation round.Location `json:"startLocation"`
		EndLocation   round.Location `json:"endLocation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}

	if payload.HoleNumber < 1 {
		s.errorJSON(w, errors.New("holeNumber must be 1 or greater"), http.StatusBadRequest)
		return
	}
	if !payload.Club.Valid() {
		s.errorJSON(w, fmt.Errorf("unknown club %q", payload.Club), http.StatusBadRequest)
		return
	}

	// 1. Append the shot to the round's event log.
	shot := round.NewShotTracked(payload.HoleNumber, payload.Club, payload.StartLocation, payload.EndLocation)
	if err := s.recorder.Record(shot, roundID, playerID); err != nil {
		s.errorJSON(w, errors.New("failed to record shot"), http.StatusInternalServerError)
		return
	}

	// 2. Reconcile the hole's scorecard entry against the tracked shots.
	// A round can have events without a scorecard (shots recorded before
	// the card existed); in that case the shot still landed, so this is
	// not an error; there is just nothing to reconcile.
	card, status, err := s.loadScoreCard(roundID)
	if err != nil && status != http.StatusNotFound {
		s.errorJSON(w, err, status)
		return
	}

	response := envelope{
		"shot":     shot,
		"distance": geo.ShotDistance(shot),
	}

	if card != nil {
		reconciled, err := s.reconciler.Reconcile(card, payload.HoleNumber)
		if err != nil {
			s.errorJSON(w, errors.New("failed to reconcile hole stats"), http.StatusInternalServerError)
			return
		}
		// Same pointer back means nothing changed; skip the write.
		if reconciled != card {
			if err := s.saveScoreCard(reconciled); err != nil {
				s.errorJSON(w, errors.New("failed to save scorecard"), http.StatusInternalServerError)
				return
			}
		}
		response["scoreCard"] = toScoreCardResponse(reconciled)
	}

	s.writeJSON(w, http.StatusCreated, response)
}

// handleRecordLocation appends one GPS ping to the round's event log.
func (s *Server) handleRecordLocation(w http.ResponseWriter, r *http.Request) {
	playerID, err := s.getPlayerIDFromContext(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	var payload round.Location
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}

	e := round.NewLocationUpdated(payload)
	if err := s.recorder.Record(e, roundID, playerID); err != nil {
		s.errorJSON(w, errors.New("failed to record location"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{"event": e})
}

// handleHoleChanged records a hole-changed marker for the round, at most
// once per hole number. The response reports whether a new marker was
// appended, so retried calls are safe and observable.
func (s *Server) handleHoleChanged(w http.ResponseWriter, r *http.Request) {
	playerID, err := s.getPlayerIDFromContext(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	holeNumber, err := parseHoleNumber(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	created, err := s.recorder.RecordHoleChangedOnce(roundID, playerID, holeNumber)
	if err != nil {
		s.errorJSON(w, errors.New("failed to record hole change"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"created": created})
}

// handleGetEvents returns a round's event log, ascending by timestamp.
// Optional query parameters narrow the result: `type` filters to one event
// type, `from`/`to` (millisecond timestamps, both inclusive) filter to a
// time range. Type and range filters are mutually exclusive.
func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	eventType := q.Get("type")
	fromStr, toStr := q.Get("from"), q.Get("to")

	var recs []database.EventRecord
	switch {
	case eventType != "" && (fromStr != "" || toStr != ""):
		s.errorJSON(w, errors.New("type and from/to filters cannot be combined"), http.StatusBadRequest)
		return

	case eventType != "":
		recs, err = s.db.EventsByType(s.db.DB(), roundID, eventType)

	case fromStr != "" || toStr != "":
		var from, to int64
		to = int64(1)<<62 - 1 // open-ended upper bound when `to` is omitted
		if fromStr != "" {
			if from, err = strconv.ParseInt(fromStr, 10, 64); err != nil {
				s.errorJSON(w, errors.New("invalid 'from' timestamp"), http.StatusBadRequest)
				return
			}
		}
		if toStr != "" {
			if to, err = strconv.ParseInt(toStr, 10, 64); err != nil {
				s.errorJSON(w, errors.New("invalid 'to' timestamp"), http.StatusBadRequest)
				return
			}
		}
		recs, err = s.db.EventsByTimeRange(s.db.DB(), roundID, from, to)

	default:
		recs, err = s.db.EventsForRound(s.db.DB(), roundID)
	}
	if err != nil {
		s.errorJSON(w, errors.New("failed to load events"), http.StatusInternalServerError)
		return
	}

	events := make([]eventResponse, 0, len(recs))
	for _, rec := range recs {
		events = append(events, toEventResponse(rec))
	}

	s.writeJSON(w, http.StatusOK, envelope{"events": events})
}

// handleUpdateHoleStats replaces the user-entered score and/or putts for one
// hole. Fields left out of the request body keep their current value.
func (s *Server) handleUpdateHoleStats(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	holeNumber, err := parseHoleNumber(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	var payload struct {
		Score *int `json:"score"`
		Putts *int `json:"putts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}
	if payload.Score == nil && payload.Putts == nil {
		s.errorJSON(w, errors.New("score or putts is required"), http.StatusBadRequest)
		return
	}
	if (payload.Score != nil && *payload.Score < 0) || (payload.Putts != nil && *payload.Putts < 0) {
		s.errorJSON(w, errors.New("score and putts must not be negative"), http.StatusBadRequest)
		return
	}

	card, status, err := s.loadScoreCard(roundID)
	if err != nil {
		s.errorJSON(w, err, status)
		return
	}

	updated := card
	if payload.Score != nil {
		updated = updated.WithHoleScore(holeNumber, *payload.Score)
	}
	if payload.Putts != nil {
		updated = updated.WithHolePutts(holeNumber, *payload.Putts)
	}

	if err := s.saveScoreCard(updated); err != nil {
		s.errorJSON(w, errors.New("failed to save scorecard"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"scoreCard": toScoreCardResponse(updated)})
}

// handleReconcileHole re-runs reconciliation for one hole on demand. The
// response reports whether anything changed.
func (s *Server) handleReconcileHole(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	holeNumber, err := parseHoleNumber(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	card, status, err := s.loadScoreCard(roundID)
	if err != nil {
		s.errorJSON(w, err, status)
		return
	}

	reconciled, err := s.reconciler.Reconcile(card, holeNumber)
	if err != nil {
		s.errorJSON(w, errors.New("failed to reconcile hole stats"), http.StatusInternalServerError)
		return
	}

	changed := reconciled != card
	if changed {
		if err := s.saveScoreCard(reconciled); err != nil {
			s.errorJSON(w, errors.New("failed to save scorecard"), http.StatusInternalServerError)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"changed":   changed,
		"scoreCard": toScoreCardResponse(reconciled),
	})
}
