package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Init())
	return s
}

func eventRec(roundID, ts int64, eventType string) EventRecord {
	return EventRecord{
		Timestamp: ts,
		RoundID:   roundID,
		EventType: eventType,
		EventData: `{"timestamp":` + "0" + `}`,
		PlayerID:  1,
	}
}

func TestInsertEventReplacesOnSameKey(t *testing.T) {
	s := newTestService(t)

	rec := eventRec(42, 1000, "HOLE_CHANGED")
	rec.EventData = `{"holeNumber":1}`
	require.NoError(t, s.InsertEvent(s.DB(), rec))

	// Same (round, timestamp): the second write replaces the first.
	rec.EventData = `{"holeNumber":2}`
	require.NoError(t, s.InsertEvent(s.DB(), rec))

	recs, err := s.EventsForRound(s.DB(), 42)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, `{"holeNumber":2}`, recs[0].EventData)
}

func TestSameTimestampDifferentRoundsDoNotCollide(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, 1000, "LOCATION_UPDATED")))
	require.NoError(t, s.InsertEvent(s.DB(), eventRec(43, 1000, "LOCATION_UPDATED")))

	for _, roundID := range []int64{42, 43} {
		count, err := s.EventCountForRound(s.DB(), roundID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}
}

func TestEventsForRoundOrderedByTimestamp(t *testing.T) {
	s := newTestService(t)

	// Inserted out of order on purpose.
	for _, ts := range []int64{3000, 1000, 2000} {
		require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, ts, "LOCATION_UPDATED")))
	}

	recs, err := s.EventsForRound(s.DB(), 42)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int64(1000), recs[0].Timestamp)
	assert.Equal(t, int64(2000), recs[1].Timestamp)
	assert.Equal(t, int64(3000), recs[2].Timestamp)
}

func TestEventsByType(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, 1000, "LOCATION_UPDATED")))
	require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, 2000, "SHOT_TRACKED")))
	require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, 3000, "SHOT_TRACKED")))

	recs, err := s.EventsByType(s.DB(), 42, "SHOT_TRACKED")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.Equal(t, "SHOT_TRACKED", rec.EventType)
	}
}

func TestEventsByTimeRangeBoundsInclusive(t *testing.T) {
	s := newTestService(t)

	for _, ts := range []int64{1000, 2000, 3000, 4000} {
		require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, ts, "LOCATION_UPDATED")))
	}

	recs, err := s.EventsByTimeRange(s.DB(), 42, 2000, 3000)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(2000), recs[0].Timestamp)
	assert.Equal(t, int64(3000), recs[1].Timestamp)
}

func TestDeleteEventsForRoundCompleteness(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, 1000, "LOCATION_UPDATED")))
	require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, 2000, "SHOT_TRACKED")))
	require.NoError(t, s.InsertEvent(s.DB(), eventRec(99, 1000, "LOCATION_UPDATED")))

	require.NoError(t, s.DeleteEventsForRound(s.DB(), 42))

	count, err := s.EventCountForRound(s.DB(), 42)
	require.NoError(t, err)
	assert.Zero(t, count)

	recs, err := s.EventsForRound(s.DB(), 42)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// Other rounds' data is untouched.
	count, err = s.EventCountForRound(s.DB(), 99)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRoundIDsWithEventsNewestFirst(t *testing.T) {
	s := newTestService(t)

	for _, roundID := range []int64{7, 42, 13} {
		require.NoError(t, s.InsertEvent(s.DB(), eventRec(roundID, 1000, "LOCATION_UPDATED")))
		require.NoError(t, s.InsertEvent(s.DB(), eventRec(roundID, 2000, "LOCATION_UPDATED")))
	}

	ids, err := s.RoundIDsWithEvents(s.DB())
	require.NoError(t, err)
	assert.Equal(t, []int64{42, 13, 7}, ids, "distinct ids, highest first")
}

func TestScoreCardSaveAndGet(t *testing.T) {
	s := newTestService(t)

	rec := ScoreCardRecord{
		RoundID:              42,
		PlayerID:             1,
		CourseID:             10,
		CourseName:           "Pebble Creek",
		CourseParJSON:        `{"1":4}`,
		HoleStatsJSON:        `{}`,
		RoundInProgress:      true,
		CreatedTimestamp:     1000,
		LastUpdatedTimestamp: 1000,
	}
	require.NoError(t, s.SaveScoreCard(s.DB(), rec))

	got, err := s.GetScoreCard(s.DB(), 42)
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	// Saving again with the same round id replaces the row.
	rec.HoleStatsJSON = `{"1":{"score":4,"putts":2}}`
	rec.LastUpdatedTimestamp = 2000
	require.NoError(t, s.SaveScoreCard(s.DB(), rec))

	got, err = s.GetScoreCard(s.DB(), 42)
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
}

func TestGetScoreCardMissing(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetScoreCard(s.DB(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAllScoreCardsNewestFirst(t *testing.T) {
	s := newTestService(t)

	for i, ts := range []int64{1000, 3000, 2000} {
		rec := ScoreCardRecord{
			RoundID:              int64(i + 1),
			CourseParJSON:        `{}`,
			HoleStatsJSON:        `{}`,
			CreatedTimestamp:     ts,
			LastUpdatedTimestamp: ts,
		}
		require.NoError(t, s.SaveScoreCard(s.DB(), rec))
	}

	recs, err := s.AllScoreCards(s.DB())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int64(3000), recs[0].CreatedTimestamp)
	assert.Equal(t, int64(2000), recs[1].CreatedTimestamp)
	assert.Equal(t, int64(1000), recs[2].CreatedTimestamp)
}

func TestWriteRollsBackOnError(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.InsertEvent(s.DB(), eventRec(42, 1000, "LOCATION_UPDATED")))

	// The write func fails after a successful statement: nothing it did
	// may be visible afterwards.
	err := s.Write(func(tx *sql.Tx) error {
		if err := s.InsertEvent(tx, eventRec(42, 2000, "SHOT_TRACKED")); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	count, err := s.EventCountForRound(s.DB(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "rolled-back insert is not visible")
}

func TestPlayerQueries(t *testing.T) {
	s := newTestService(t)

	player, err := s.CreatePlayer(s.DB(), "sam", "hash-value")
	require.NoError(t, err)
	assert.Equal(t, "sam", player.Name)
	assert.Equal(t, "hash-value", player.PasswordHash)

	byName, err := s.GetPlayerByName(s.DB(), "sam")
	require.NoError(t, err)
	assert.Equal(t, player.ID, byName.ID)

	_, err = s.GetPlayerByName(s.DB(), "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Names are unique.
	_, err = s.CreatePlayer(s.DB(), "sam", "other-hash")
	assert.Error(t, err)
}
