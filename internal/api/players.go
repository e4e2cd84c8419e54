package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openfairway/roundlog/internal/auth"
)

// handleRegisterPlayer creates a new player account and returns a session
// token so the app is signed in immediately after registering.
func (s *Server) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}

	if payload.Name == "" || payload.Password == "" {
		s.errorJSON(w, errors.New("name and password are required"), http.StatusBadRequest)
		return
	}

	// Reject a duplicate name up front for a friendlier error than the
	// unique-constraint failure the insert would produce.
	if _, err := s.db.GetPlayerByName(s.db.DB(), payload.Name); err == nil {
		s.errorJSON(w, errors.New("a player with that name already exists"), http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		s.errorJSON(w, errors.New("failed to hash password"), http.StatusInternalServerError)
		return
	}

	player, err := s.db.CreatePlayer(s.db.DB(), payload.Name, hash)
	if err != nil {
		s.errorJSON(w, errors.New("failed to create player"), http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateToken(player.ID, s.config.JwtSecret)
	if err != nil {
		s.errorJSON(w, errors.New("failed to generate token"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{
		"token":  token,
		"player": toPlayerResponse(player),
	})
}

// handleLoginPlayer checks the player's credentials and returns a fresh
// session token.
func (s *Server) handleLoginPlayer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}

	player, err := s.db.GetPlayerByName(s.db.DB(), payload.Name)
	if err != nil {
		// Same error for unknown name and wrong password, so a caller
		// can't probe which names are registered.
		s.errorJSON(w, errors.New("invalid credentials"), http.StatusUnauthorized)
		return
	}

	if !auth.CheckPasswordHash(payload.Password, player.PasswordHash) {
		s.errorJSON(w, errors.New("invalid credentials"), http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(player.ID, s.config.JwtSecret)
	if err != nil {
		s.errorJSON(w, errors.New("failed to generate token"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"token":  token,
		"player": toPlayerResponse(player),
	})
}

// handleGetMyProfile returns the profile of the signed-in player.
func (s *Server) handleGetMyProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := s.getPlayerIDFromContext(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	player, err := s.db.GetPlayerByID(s.db.DB(), playerID)
	if err != nil {
		// A valid token for a deleted player: treat as not found.
		if errors.Is(err, sql.ErrNoRows) {
			s.errorJSON(w, errors.New("player not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"player": toPlayerResponse(player)})
}
