package api

import (
	"time"

	"github.com/openfairway/roundlog/internal/database"
	"github.com/openfairway/roundlog/internal/round"
)

// This file defines the Data Transfer Objects (DTOs) for the API. Internal
// models are never exposed directly: the DTOs pin down exactly which fields
// clients see, and compute the derived statistics at response time so the
// wire format can never drift from the stored scorecard.

// playerResponse is the public view of a player. The password hash is not
// part of the DTO and therefore can never leak into a response.
type playerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPlayerResponse(p *database.Player) playerResponse {
	return playerResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
}

// scoreCardResponse is the full scorecard view: the raw per-hole entries
// plus every derived statistic, recomputed on each request.
type scoreCardResponse struct {
	RoundID              int64                   `json:"roundId"`
	PlayerID             int64                   `json:"playerId"`
	CourseID             int64                   `json:"courseId"`
	CourseName           string                  `json:"courseName"`
	CoursePar            map[int]int             `json:"courseParMap"`
	HoleStats            map[int]round.HoleStats `json:"holeStatsMap"`
	RoundInProgress      bool                    `json:"roundInProgress"`
	CreatedTimestamp     int64                   `json:"createdTimestamp"`
	LastUpdatedTimestamp int64                   `json:"lastUpdatedTimestamp"`

	// Derived statistics
	HolesPlayed       int `json:"holesPlayed"`
	TotalScore        int `json:"totalScore"`
	TotalPar          int `json:"totalPar"`
	CompletedHolesPar int `json:"completedHolesPar"`
	ToPar             int `json:"toPar"`
	Pars              int `json:"pars"`
	Birdies           int `json:"birdies"`
	Bogeys            int `json:"bogeys"`
}

func toScoreCardResponse(c *round.ScoreCard) scoreCardResponse {
	return scoreCardResponse{
		RoundID:              c.RoundID,
		PlayerID:             c.PlayerID,
		CourseID:             c.CourseID,
		CourseName:           c.CourseName,
		CoursePar:            c.CoursePar,
		HoleStats:            c.HoleStats,
		RoundInProgress:      c.RoundInProgress,
		CreatedTimestamp:     c.CreatedTimestamp,
		LastUpdatedTimestamp: c.LastUpdatedTimestamp,
		HolesPlayed:          c.HolesPlayed(),
		TotalScore:           c.TotalScore(),
		TotalPar:             c.TotalPar(),
		CompletedHolesPar:    c.CompletedHolesPar(),
		ToPar:                c.ToPar(),
		Pars:                 c.Pars(),
		Birdies:              c.Birdies(),
		Bogeys:               c.Bogeys(),
	}
}

// roundSummary is the compact listing view used by the rounds index.
type roundSummary struct {
	RoundID          int64  `json:"roundId"`
	CourseID         int64  `json:"courseId"`
	CourseName       string `json:"courseName"`
	RoundInProgress  bool   `json:"roundInProgress"`
	CreatedTimestamp int64  `json:"createdTimestamp"`
	HolesPlayed      int    `json:"holesPlayed"`
	TotalScore       int    `json:"totalScore"`
	ToPar            int    `json:"toPar"`
}

func toRoundSummary(c *round.ScoreCard) roundSummary {
	return roundSummary{
		RoundID:          c.RoundID,
		CourseID:         c.CourseID,
		CourseName:       c.CourseName,
		RoundInProgress:  c.RoundInProgress,
		CreatedTimestamp: c.CreatedTimestamp,
		HolesPlayed:      c.HolesPlayed(),
		TotalScore:       c.TotalScore(),
		ToPar:            c.ToPar(),
	}
}
