package round

import (
	"database/sql"
	"log/slog"
	"sync"

	"github.com/openfairway/roundlog/internal/database"
	"github.com/openfairway/roundlog/internal/realtime"
)

// Recorder is the business-level append service sitting above the raw event
// store. It encodes events, appends them, and publishes each appended record
// to the realtime broker so live subscribers see it without polling.
//
// The store's replace-on-same-key rule is the only dedup applied by Record;
// RecordHoleChangedOnce is the one operation with domain-level idempotence.
type Recorder struct {
	db     *database.Service
	broker *realtime.Broker // may be nil when no live delivery is wired

	mu         sync.Mutex
	roundLocks map[int64]*sync.Mutex
}

func NewRecorder(db *database.Service, broker *realtime.Broker) *Recorder {
	return &Recorder{
		db:         db,
		broker:     broker,
		roundLocks: make(map[int64]*sync.Mutex),
	}
}

// roundLock retrieves or creates the mutex for a round. Hole-changed
// recording is read-then-conditionally-append; the per-round lock makes that
// sequence a critical section so the at-most-one-per-hole invariant holds
// even with concurrent callers.
func (r *Recorder) roundLock(roundID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roundLocks[roundID]; !ok {
		r.roundLocks[roundID] = &sync.Mutex{}
	}
	return r.roundLocks[roundID]
}

// Record encodes one event and appends it to the round's log. Any append
// failure surfaces to the caller unmodified; nothing is published on failure.
func (r *Recorder) Record(e Event, roundID, playerID int64) error {
	rec, err := ToRecord(e, roundID, playerID)
	if err != nil {
		return err
	}
	if err := r.db.InsertEvent(r.db.DB(), rec); err != nil {
		return err
	}
	r.publish(rec)
	return nil
}

// RecordBatch appends a batch of events atomically: either every event in
// the batch lands or none of them do. Records are only published to live
// subscribers after the transaction commits.
func (r *Recorder) RecordBatch(events []Event, roundID, playerID int64) error {
	recs := make([]database.EventRecord, 0, len(events))
	for _, e := range events {
		rec, err := ToRecord(e, roundID, playerID)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}

	err := r.db.Write(func(tx *sql.Tx) error {
		return r.db.InsertEvents(tx, recs)
	})
	if err != nil {
		return err
	}

	for _, rec := range recs {
		r.publish(rec)
	}
	return nil
}

// RecordHoleChangedOnce appends a HoleChanged event only if no existing
// HoleChanged record for the round already carries this hole number.
// Duplicate markers for the same hole would corrupt later hole-timeline
// analysis, so the check decodes every stored HoleChanged payload rather
// than trusting timestamps. Returns whether a new event was appended.
//
// A failure at any step leaves zero new events; there is no half-written
// state to clean up.
func (r *Recorder) RecordHoleChangedOnce(roundID, playerID int64, holeNumber int) (bool, error) {
	lock := r.roundLock(roundID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := r.db.EventsByType(r.db.DB(), roundID, string(TypeHoleChanged))
	if err != nil {
		return false, err
	}

	for _, rec := range existing {
		e, err := FromRecord(rec)
		if err != nil {
			return false, err
		}
		if hc, ok := e.(HoleChanged); ok && hc.HoleNumber == holeNumber {
			slog.Debug("hole changed marker already recorded",
				"roundId", roundID, "hole", holeNumber)
			return false, nil
		}
	}

	if err := r.Record(NewHoleChanged(holeNumber), roundID, playerID); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteRound removes the round's events and scorecard as a single unit.
// Irreversible.
func (r *Recorder) DeleteRound(roundID int64) error {
	return r.db.Write(func(tx *sql.Tx) error {
		if err := r.db.DeleteEventsForRound(tx, roundID); err != nil {
			return err
		}
		return r.db.DeleteScoreCard(tx, roundID)
	})
}

func (r *Recorder) publish(rec database.EventRecord) {
	if r.broker == nil {
		return
	}
	r.broker.Publish(rec.RoundID, realtime.Message{
		Type:    rec.EventType,
		Payload: rec,
	})
}
