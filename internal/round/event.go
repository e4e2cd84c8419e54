// Package round implements the round-of-golf event log domain: the event
// variants and their at-rest codec, the recording service that appends them,
// the scorecard aggregate, and the reconciliation that merges tracked shots
// into the user-entered score.
package round

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/openfairway/roundlog/internal/database"
)

// EventType is the stable string discriminator persisted alongside each
// event payload. The values are an explicit schema, deliberately decoupled
// from Go type names: renaming a struct must never break decoding of
// previously stored events.
type EventType string

const (
	TypeLocationUpdated EventType = "LOCATION_UPDATED"
	TypeShotTracked     EventType = "SHOT_TRACKED"
	TypeHoleChanged     EventType = "HOLE_CHANGED"
	TypeFinishRound     EventType = "FINISH_ROUND"
)

// Location is a WGS84 coordinate pair in degrees. No altitude.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Event is the closed set of facts recorded during a round. Events are
// immutable once appended; every variant carries the millisecond timestamp
// at which it was created, which orders events within a round.
type Event interface {
	Type() EventType
	OccurredAt() int64
}

// LocationUpdated records one GPS ping while the round is being tracked.
type LocationUpdated struct {
	Timestamp int64    `json:"timestamp"`
	Location  Location `json:"location"`
}

func (e LocationUpdated) Type() EventType   { return TypeLocationUpdated }
func (e LocationUpdated) OccurredAt() int64 { return e.Timestamp }

// ShotTracked records a shot the player marked on the course: which hole,
// which club, and where the shot started and finished.
type ShotTracked struct {
	Timestamp     int64    `json:"timestamp"`
	HoleNumber    int      `json:"holeNumber"` // 1-based
	Club          Club     `json:"club"`
	StartLocation Location `json:"startLocation"`
	EndLocation   Location `json:"endLocation"`
}

func (e ShotTracked) Type() EventType   { return TypeShotTracked }
func (e ShotTracked) OccurredAt() int64 { return e.Timestamp }

// HoleChanged marks the player moving to a new hole. At most one is
// recorded per hole number per round (enforced by the Recorder, not here).
type HoleChanged struct {
	Timestamp  int64 `json:"timestamp"`
	HoleNumber int   `json:"holeNumber"`
}

func (e HoleChanged) Type() EventType   { return TypeHoleChanged }
func (e HoleChanged) OccurredAt() int64 { return e.Timestamp }

// FinishRound marks the end of the round. No payload beyond the timestamp.
type FinishRound struct {
	Timestamp int64 `json:"timestamp"`
}

func (e FinishRound) Type() EventType   { return TypeFinishRound }
func (e FinishRound) OccurredAt() int64 { return e.Timestamp }

var (
	nowMu      sync.Mutex
	lastMillis int64
)

// NowMillis returns the current wall-clock time in milliseconds since the
// epoch, the timestamp resolution used throughout the event log. Within a
// process it is strictly increasing: two events stamped in the same
// millisecond get consecutive values, so rapid appends (two quick shots, a
// burst of location pings) can never share a storage key and silently
// replace one another.
func NowMillis() int64 {
	nowMu.Lock()
	defer nowMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastMillis {
		now = lastMillis + 1
	}
	lastMillis = now
	return now
}

// Constructors stamp the creation time. Tests that need a fixed timestamp
// build the structs directly.

func NewLocationUpdated(loc Location) LocationUpdated {
	return LocationUpdated{Timestamp: NowMillis(), Location: loc}
}

func NewShotTracked(holeNumber int, club Club, start, end Location) ShotTracked {
	return ShotTracked{
		Timestamp:     NowMillis(),
		HoleNumber:    holeNumber,
		Club:          club,
		StartLocation: start,
		EndLocation:   end,
	}
}

func NewHoleChanged(holeNumber int) HoleChanged {
	return HoleChanged{Timestamp: NowMillis(), HoleNumber: holeNumber}
}

func NewFinishRound() FinishRound {
	return FinishRound{Timestamp: NowMillis()}
}

// DecodeError reports that a stored record's payload could not be parsed
// for its declared type tag, or that the tag itself is unrecognized.
// It is non-retryable and must never be silently swallowed: skipping a
// corrupt event would quietly corrupt every statistic derived from the log.
type DecodeError struct {
	Tag string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode event: unknown event type %q", e.Tag)
	}
	return fmt.Sprintf("decode event %q: %v", e.Tag, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ToRecord serializes an event into its flat at-rest record, stamping the
// round and player it belongs to. It is total for well-formed events: every
// variant marshals without error.
func ToRecord(e Event, roundID, playerID int64) (database.EventRecord, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return database.EventRecord{}, fmt.Errorf("encode %s event: %w", e.Type(), err)
	}
	return database.EventRecord{
		Timestamp: e.OccurredAt(),
		RoundID:   roundID,
		EventType: string(e.Type()),
		EventData: string(data),
		PlayerID:  playerID,
	}, nil
}

// FromRecord decodes a stored record back into its event variant. It is the
// exact inverse of ToRecord for all four variants. An unrecognized type tag
// or a payload that does not match the tag's schema yields a *DecodeError.
func FromRecord(rec database.EventRecord) (Event, error) {
	switch EventType(rec.EventType) {
	case TypeLocationUpdated:
		var e LocationUpdated
		if err := json.Unmarshal([]byte(rec.EventData), &e); err != nil {
			return nil, &DecodeError{Tag: rec.EventType, Err: err}
		}
		return e, nil

	case TypeShotTracked:
		var e ShotTracked
		if err := json.Unmarshal([]byte(rec.EventData), &e); err != nil {
			return nil, &DecodeError{Tag: rec.EventType, Err: err}
		}
		if !e.Club.Valid() {
			return nil, &DecodeError{Tag: rec.EventType, Err: fmt.Errorf("unknown club %q", e.Club)}
		}
		return e, nil

	case TypeHoleChanged:
		var e HoleChanged
		if err := json.Unmarshal([]byte(rec.EventData), &e); err != nil {
			return nil, &DecodeError{Tag: rec.EventType, Err: err}
		}
		return e, nil

	case TypeFinishRound:
		var e FinishRound
		if err := json.Unmarshal([]byte(rec.EventData), &e); err != nil {
			return nil, &DecodeError{Tag: rec.EventType, Err: err}
		}
		return e, nil

	default:
		return nil, &DecodeError{Tag: rec.EventType}
	}
}
