// Package course supplies the immutable course and player values the round
// recorder consumes. Courses are loaded from JSON files in the data
// directory; this package neither caches nor refreshes them. A course is
// fixed for the lifetime of a round.
package course

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openfairway/roundlog/internal/round"
)

// Hole is one hole's course definition: its par and the tee/flag positions
// used by the geometry helpers.
type Hole struct {
	Number int            `json:"number"`
	Par    int            `json:"par"`
	Tee    round.Location `json:"teeLocation"`
	Flag   round.Location `json:"flagLocation"`
}

// Course is a loaded course definition. The hole map is keyed by hole
// number (1-based).
type Course struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Holes map[int]Hole `json:"holes"`
}

// ParMap extracts the hole -> par view a fresh scorecard is seeded with.
func (c *Course) ParMap() map[int]int {
	pars := make(map[int]int, len(c.Holes))
	for number, hole := range c.Holes {
		pars[number] = hole.Par
	}
	return pars
}

// Player is the app-level identity a round is recorded against.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DefaultPlayer is the fallback identity used when no profile is available.
// Recording a round must never block on a missing user profile.
func DefaultPlayer() Player {
	return Player{ID: 0, Name: "Player"}
}

// Loader reads course definition files (course_<id>.json) from a directory.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads and parses one course definition by id.
func (l *Loader) Load(courseID int64) (*Course, error) {
	path := filepath.Join(l.dir, fmt.Sprintf("course_%d.json", courseID))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}

	var c Course
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse course %d: %w", courseID, err)
	}
	if len(c.Holes) == 0 {
		return nil, fmt.Errorf("course %d has no holes", courseID)
	}

	// Backfill hole numbers from the map keys so definition files don't
	// have to repeat them.
	for number, hole := range c.Holes {
		if hole.Number == 0 {
			hole.Number = number
			c.Holes[number] = hole
		}
	}

	return &c, nil
}
