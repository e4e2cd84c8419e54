package round

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/openfairway/roundlog/internal/database"
)

// HoleStats is one hole's entry on the scorecard. Nil means "not yet
// recorded", which is distinct from zero: a hole with putts but no score is
// played but does not count toward score-derived statistics.
type HoleStats struct {
	Score *int `json:"score"`
	Putts *int `json:"putts"`
}

// ScoreCard is the queryable, mutable aggregate for a round. A ScoreCard
// value is an immutable snapshot: the WithX mutators copy the stats map and
// return a new snapshot, which keeps "did anything change" checks a pointer
// comparison for callers deciding whether to persist.
//
// All statistics are recomputed from CoursePar/HoleStats on every read;
// nothing derived is ever cached or stored, so the views cannot drift.
type ScoreCard struct {
	RoundID              int64             `json:"roundId"`
	PlayerID             int64             `json:"playerId"`
	CourseID             int64             `json:"courseId"`
	CourseName           string            `json:"courseName"`
	CoursePar            map[int]int       `json:"courseParMap"` // hole number -> par, fixed for the round's lifetime
	HoleStats            map[int]HoleStats `json:"holeStatsMap"`
	RoundInProgress      bool              `json:"roundInProgress"`
	CreatedTimestamp     int64             `json:"createdTimestamp"`
	LastUpdatedTimestamp int64             `json:"lastUpdatedTimestamp"`
}

// NewScoreCard starts a fresh scorecard for a round. The round id is drawn
// at random from a fixed large range; with a single-user local store the
// collision probability is accepted as negligible.
func NewScoreCard(playerID, courseID int64, courseName string, coursePar map[int]int) *ScoreCard {
	now := NowMillis()
	par := make(map[int]int, len(coursePar))
	for hole, p := range coursePar {
		par[hole] = p
	}
	return &ScoreCard{
		RoundID:              1_000_000 + rand.Int63n(9_000_000),
		PlayerID:             playerID,
		CourseID:             courseID,
		CourseName:           courseName,
		CoursePar:            par,
		HoleStats:            map[int]HoleStats{},
		RoundInProgress:      true,
		CreatedTimestamp:     now,
		LastUpdatedTimestamp: now,
	}
}

// HoleScore returns the recorded strokes for a hole, or nil.
func (c *ScoreCard) HoleScore(holeNumber int) *int {
	if stats, ok := c.HoleStats[holeNumber]; ok {
		return stats.Score
	}
	return nil
}

// HolePutts returns the recorded putts for a hole, or nil.
func (c *ScoreCard) HolePutts(holeNumber int) *int {
	if stats, ok := c.HoleStats[holeNumber]; ok {
		return stats.Putts
	}
	return nil
}

// WithHoleScore returns a new snapshot with the hole's score replaced.
// The existing putts value for the hole is preserved.
func (c *ScoreCard) WithHoleScore(holeNumber, score int) *ScoreCard {
	stats := c.HoleStats[holeNumber]
	stats.Score = &score
	return c.WithHoleStats(holeNumber, stats)
}

// WithHolePutts returns a new snapshot with the hole's putts replaced.
// The existing score value for the hole is preserved.
func (c *ScoreCard) WithHolePutts(holeNumber, putts int) *ScoreCard {
	stats := c.HoleStats[holeNumber]
	stats.Putts = &putts
	return c.WithHoleStats(holeNumber, stats)
}

// WithHoleStats returns a new snapshot with one hole's entry replaced and
// the last-updated timestamp bumped. The stats map is copied; entries for
// other holes keep their values untouched.
func (c *ScoreCard) WithHoleStats(holeNumber int, stats HoleStats) *ScoreCard {
	updated := *c
	updated.HoleStats = make(map[int]HoleStats, len(c.HoleStats)+1)
	for hole, s := range c.HoleStats {
		updated.HoleStats[hole] = s
	}
	updated.HoleStats[holeNumber] = stats
	updated.LastUpdatedTimestamp = NowMillis()
	return &updated
}

// Finished returns a snapshot with the round marked complete.
func (c *ScoreCard) Finished() *ScoreCard {
	updated := *c
	updated.RoundInProgress = false
	updated.LastUpdatedTimestamp = NowMillis()
	return &updated
}

// --- Derived statistics ---

// HolesPlayed is the number of holes with any recorded entry.
func (c *ScoreCard) HolesPlayed() int {
	return len(c.HoleStats)
}

// TotalScore is the sum of all recorded scores.
func (c *ScoreCard) TotalScore() int {
	total := 0
	for _, stats := range c.HoleStats {
		if stats.Score != nil {
			total += *stats.Score
		}
	}
	return total
}

// TotalPar is the par for the full course.
func (c *ScoreCard) TotalPar() int {
	total := 0
	for _, par := range c.CoursePar {
		total += par
	}
	return total
}

// CompletedHolesPar is the par sum for holes with a recorded score. A hole
// with only putts entered is played but not yet scored, so it contributes
// nothing here; otherwise ToPar would dip below zero the moment putts are
// entered ahead of the score.
func (c *ScoreCard) CompletedHolesPar() int {
	total := 0
	for hole, stats := range c.HoleStats {
		if stats.Score != nil {
			total += c.CoursePar[hole]
		}
	}
	return total
}

// ToPar is the running score relative to par for the holes entered so far.
func (c *ScoreCard) ToPar() int {
	return c.TotalScore() - c.CompletedHolesPar()
}

// Pars counts holes scored at par. Holes without a recorded score never
// count, whatever their putts say.
func (c *ScoreCard) Pars() int {
	return c.countScoresAtParOffset(0)
}

// Birdies counts holes scored one under par.
func (c *ScoreCard) Birdies() int {
	return c.countScoresAtParOffset(-1)
}

// Bogeys counts holes scored one over par.
func (c *ScoreCard) Bogeys() int {
	return c.countScoresAtParOffset(1)
}

func (c *ScoreCard) countScoresAtParOffset(offset int) int {
	count := 0
	for hole, stats := range c.HoleStats {
		par, ok := c.CoursePar[hole]
		if !ok || stats.Score == nil {
			continue
		}
		if *stats.Score == par+offset {
			count++
		}
	}
	return count
}

// --- At-rest conversion ---

// ToRecord flattens the scorecard into its storage row, serializing the par
// and stats maps to JSON.
func (c *ScoreCard) ToRecord() (database.ScoreCardRecord, error) {
	parJSON, err := json.Marshal(c.CoursePar)
	if err != nil {
		return database.ScoreCardRecord{}, fmt.Errorf("encode course par map: %w", err)
	}
	statsJSON, err := json.Marshal(c.HoleStats)
	if err != nil {
		return database.ScoreCardRecord{}, fmt.Errorf("encode hole stats map: %w", err)
	}
	return database.ScoreCardRecord{
		RoundID:              c.RoundID,
		PlayerID:             c.PlayerID,
		CourseID:             c.CourseID,
		CourseName:           c.CourseName,
		CourseParJSON:        string(parJSON),
		HoleStatsJSON:        string(statsJSON),
		RoundInProgress:      c.RoundInProgress,
		CreatedTimestamp:     c.CreatedTimestamp,
		LastUpdatedTimestamp: c.LastUpdatedTimestamp,
	}, nil
}

// ScoreCardFromRecord is the inverse of ToRecord.
func ScoreCardFromRecord(rec database.ScoreCardRecord) (*ScoreCard, error) {
	coursePar := map[int]int{}
	if err := json.Unmarshal([]byte(rec.CourseParJSON), &coursePar); err != nil {
		return nil, fmt.Errorf("decode course par map for round %d: %w", rec.RoundID, err)
	}
	holeStats := map[int]HoleStats{}
	if err := json.Unmarshal([]byte(rec.HoleStatsJSON), &holeStats); err != nil {
		return nil, fmt.Errorf("decode hole stats map for round %d: %w", rec.RoundID, err)
	}
	return &ScoreCard{
		RoundID:              rec.RoundID,
		PlayerID:             rec.PlayerID,
		CourseID:             rec.CourseID,
		CourseName:           rec.CourseName,
		CoursePar:            coursePar,
		HoleStats:            holeStats,
		RoundInProgress:      rec.RoundInProgress,
		CreatedTimestamp:     rec.CreatedTimestamp,
		LastUpdatedTimestamp: rec.LastUpdatedTimestamp,
	}, nil
}
