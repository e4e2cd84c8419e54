package round

import (
	"fmt"
	"log/slog"

	"github.com/openfairway/roundlog/internal/database"
)

// Reconciler merges automatically tracked shots into the user-entered
// score and putts for a hole.
//
// Tracked shots are a lower bound on strokes taken, never an authoritative
// count: the player may have taken a stroke without marking it. So the
// merge only ever raises a value: a deliberate user entry is never lowered
// by an undercounted automatic estimate.
type Reconciler struct {
	db EventSource
}

// EventSource is the slice of the store the reconciler needs: typed event
// reads for a round. *database.Service satisfies it through the StoreReader
// adapter below; tests can substitute a failing source directly.
type EventSource interface {
	ShotTrackedRecords(roundID int64) ([]ShotTracked, error)
}

func NewReconciler(src EventSource) *Reconciler {
	return &Reconciler{db: src}
}

// StoreReader adapts *database.Service to EventSource: it pulls the stored
// SHOT_TRACKED records for a round and decodes each payload.
type StoreReader struct {
	db *database.Service
}

func NewStoreReader(db *database.Service) *StoreReader {
	return &StoreReader{db: db}
}

func (s *StoreReader) ShotTrackedRecords(roundID int64) ([]ShotTracked, error) {
	recs, err := s.db.EventsByType(s.db.DB(), roundID, string(TypeShotTracked))
	if err != nil {
		return nil, err
	}
	shots := make([]ShotTracked, 0, len(recs))
	for _, rec := range recs {
		e, err := FromRecord(rec)
		if err != nil {
			return nil, err
		}
		shot, ok := e.(ShotTracked)
		if !ok {
			return nil, fmt.Errorf("record tagged %s decoded to %T", rec.EventType, e)
		}
		shots = append(shots, shot)
	}
	return shots, nil
}

// TrackedShotsForHole fetches and decodes every ShotTracked event for the
// round, filtered to one hole. A decode failure surfaces immediately;
// silently skipping a corrupt shot would undercount the score.
func (r *Reconciler) TrackedShotsForHole(roundID int64, holeNumber int) ([]ShotTracked, error) {
	shots, err := r.db.ShotTrackedRecords(roundID)
	if err != nil {
		return nil, err
	}
	var forHole []ShotTracked
	for _, shot := range shots {
		if shot.HoleNumber == holeNumber {
			forHole = append(forHole, shot)
		}
	}
	return forHole, nil
}

// Reconcile produces an updated scorecard for one hole from its tracked
// shots. The rules:
//
//   - score is raised to the tracked shot count when the current score is
//     absent or smaller; it is never lowered.
//   - putts follow the same raise-only rule, and are only reconsidered at
//     all when at least one putter shot was tracked.
//
// When neither value changes, the same *ScoreCard pointer is returned, so a
// caller can detect the no-op by identity and skip a spurious persistence
// write. On any failure the input scorecard is untouched.
func (r *Reconciler) Reconcile(card *ScoreCard, holeNumber int) (*ScoreCard, error) {
	shots, err := r.TrackedShotsForHole(card.RoundID, holeNumber)
	if err != nil {
		return nil, err
	}

	totalShotsTracked := len(shots)
	puttsTracked := 0
	for _, shot := range shots {
		if shot.Club == ClubPutter {
			puttsTracked++
		}
	}

	currentScore := card.HoleScore(holeNumber)
	currentPutts := card.HolePutts(holeNumber)

	newScore := currentScore
	if currentScore == nil || *currentScore < totalShotsTracked {
		newScore = &totalShotsTracked
	}

	newPutts := currentPutts
	if puttsTracked > 0 {
		if currentPutts == nil || *currentPutts < puttsTracked {
			newPutts = &puttsTracked
		}
	}

	if intPtrEq(newScore, currentScore) && intPtrEq(newPutts, currentPutts) {
		slog.Debug("no reconciliation updates needed",
			"roundId", card.RoundID, "hole", holeNumber, "trackedShots", totalShotsTracked)
		return card, nil
	}

	slog.Debug("reconciled hole stats from tracked shots",
		"roundId", card.RoundID, "hole", holeNumber,
		"score", intPtrLog(currentScore), "newScore", intPtrLog(newScore),
		"putts", intPtrLog(currentPutts), "newPutts", intPtrLog(newPutts))

	return card.WithHoleStats(holeNumber, HoleStats{Score: newScore, Putts: newPutts}), nil
}

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrLog(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
