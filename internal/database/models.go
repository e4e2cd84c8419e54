package database

import (
	"fmt"
	"time"
)

// StorageError wraps any fault from the underlying persistence layer
// (I/O, corruption, constraint failures). The store never retries
// (retry policy belongs to the caller), so the cause is preserved for
// the caller to inspect via errors.As / errors.Unwrap.
type StorageError struct {
	Op  string // the operation that failed, e.g. "insert event"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// EventRecord is the at-rest shape of one round event: the common fields
// flattened into columns plus the variant payload serialized to JSON in
// EventData, tagged by EventType. Records are immutable once appended;
// the store only ever replaces a record wholesale (same round + timestamp)
// or deletes a round's records as a unit.
type EventRecord struct {
	Timestamp int64  `json:"timestamp"` // milliseconds since epoch; orders events within a round
	RoundID   int64  `json:"roundId"`
	EventType string `json:"eventType"` // stable type discriminator, see round.EventType
	EventData string `json:"eventData"` // JSON serialized variant payload
	PlayerID  int64  `json:"playerId"`
}

// ScoreCardRecord is one row of the score_cards table. The par map and
// per-hole stats are stored as JSON blobs; they are only ever read and
// written whole, never queried by hole.
type ScoreCardRecord struct {
	RoundID              int64
	PlayerID             int64
	CourseID             int64
	CourseName           string
	CourseParJSON        string
	HoleStatsJSON        string
	RoundInProgress      bool
	CreatedTimestamp     int64
	LastUpdatedTimestamp int64
}

// Player represents a record in the 'players' table. The password hash is
// never serialized into API responses.
type Player struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
