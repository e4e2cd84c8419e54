package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openfairway/roundlog/internal/round"
)

// parseRoundID extracts and parses the {roundID} URL parameter.
func parseRoundID(r *http.Request) (int64, error) {
	roundID, err := strconv.ParseInt(chi.URLParam(r, "roundID"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid round ID")
	}
	return roundID, nil
}

// parseHoleNumber extracts and parses the {holeNumber} URL parameter.
// Hole numbers are 1-based.
func parseHoleNumber(r *http.Request) (int, error) {
	holeNumber, err := strconv.Atoi(chi.URLParam(r, "holeNumber"))
	if err != nil || holeNumber < 1 {
		return 0, errors.New("invalid hole number")
	}
	return holeNumber, nil
}

// loadScoreCard fetches and decodes the scorecard for a round. The returned
// status code distinguishes "no such round" (404) from a storage or decode
// failure (500).
func (s *Server) loadScoreCard(roundID int64) (*round.ScoreCard, int, error) {
	rec, err := s.db.GetScoreCard(s.db.DB(), roundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, http.StatusNotFound, errors.New("round not found")
		}
		return nil, http.StatusInternalServerError, err
	}
	card, err := round.ScoreCardFromRecord(*rec)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return card, 0, nil
}

// saveScoreCard persists a scorecard snapshot through the serialized write
// path.
func (s *Server) saveScoreCard(card *round.ScoreCard) error {
	rec, err := card.ToRecord()
	if err != nil {
		return err
	}
	return s.db.Write(func(tx *sql.Tx) error {
		return s.db.SaveScoreCard(tx, rec)
	})
}

// handleGetCourse returns one course definition by ID.
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
	if err != nil {
		s.errorJSON(w, errors.New("invalid course ID"), http.StatusBadRequest)
		return
	}

	c, err := s.courses.Load(courseID)
	if err != nil {
		s.errorJSON(w, errors.New("course not found"), http.StatusNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"course": c})
}

// handleCreateRound starts a new round on a course: it loads the course
// definition, seeds a fresh scorecard with the course's par map, and
// persists it. The response carries the generated round ID the app uses for
// every subsequent call.
func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	playerID, err := s.getPlayerIDFromContext(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	var payload struct {
		CourseID int64 `json:"courseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}

	c, err := s.courses.Load(payload.CourseID)
	if err != nil {
		s.errorJSON(w, errors.New("course not found"), http.StatusNotFound)
		return
	}

	card := round.NewScoreCard(playerID, c.ID, c.Name, c.ParMap())
	if err := s.saveScoreCard(card); err != nil {
		s.errorJSON(w, errors.New("failed to save scorecard"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{"scoreCard": toScoreCardResponse(card)})
}

// handleGetRounds lists every saved round, newest first, as compact
// summaries.
func (s *Server) handleGetRounds(w http.ResponseWriter, r *http.Request) {
	recs, err := s.db.AllScoreCards(s.db.DB())
	if err != nil {
		s.errorJSON(w, errors.New("failed to load rounds"), http.StatusInternalServerError)
		return
	}

	summaries := make([]roundSummary, 0, len(recs))
	for _, rec := range recs {
		card, err := round.ScoreCardFromRecord(rec)
		if err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
		summaries = append(summaries, toRoundSummary(card))
	}

	s.writeJSON(w, http.StatusOK, envelope{"rounds": summaries})
}

// handleGetRound returns the full scorecard for one round, derived
// statistics included.
func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	card, status, err := s.loadScoreCard(roundID)
	if err != nil {
		s.errorJSON(w, err, status)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"scoreCard": toScoreCardResponse(card)})
}

// handleDeleteRound removes a round: its scorecard and its entire event
// log, atomically. Irreversible.
func (s *Server) handleDeleteRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseRoundID(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	if err := s.recorder.DeleteRound(roundID); err != nil {
		s.errorJSON(w, errors.New("failed to delete round"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"message": "Round deleted"})
}

// handleFinishRound ends a round: it appends a FinishRound event to the log
// and marks the scorecard as no longer in progress.
func (s *Server) handleFinishRound(w http.ResponseWriter, r *http.Request) {
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

	card, status, err := s.loadScoreCard(roundID)
	if err != nil {
		s.errorJSON(w, err, status)
		return
	}

	if err := s.recorder.Record(round.NewFinishRound(), roundID, playerID); err != nil {
		s.errorJSON(w, errors.New("failed to record finish event"), http.StatusInternalServerError)
		return
	}

	finished := card.Finished()
	if err := s.saveScoreCard(finished); err != nil {
		s.errorJSON(w, errors.New("failed to save scorecard"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"scoreCard": toScoreCardResponse(finished)})
}
