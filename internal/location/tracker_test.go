package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfairway/roundlog/internal/round"
)

// stubSource emits a fixed list of points as fast as the consumer reads
// them, honoring cancellation.
type stubSource struct {
	points []round.Location
	err    error
}

func (s *stubSource) Start(ctx context.Context, interval time.Duration) (<-chan round.Location, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(chan round.Location)
	go func() {
		defer close(out)
		for _, p := range s.points {
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func TestStartDeliversLocations(t *testing.T) {
	points := []round.Location{
		{Latitude: 52.1, Longitude: -1.9},
		{Latitude: 52.2, Longitude: -1.8},
	}
	tracker := NewTracker(&stubSource{points: points}, time.Millisecond)

	sub, err := tracker.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, tracker.IsTracking())

	var got []round.Location
	for loc := range sub.C {
		got = append(got, loc)
	}
	assert.Equal(t, points, got)

	// The source is exhausted, so the tracker winds down on its own.
	assert.Eventually(t, func() bool { return !tracker.IsTracking() },
		time.Second, time.Millisecond)
}

func TestSecondStartRejectedWhileActive(t *testing.T) {
	// A source that never emits keeps the first subscription active.
	blocking := &stubSource{points: make([]round.Location, 1)}
	tracker := NewTracker(blocking, time.Millisecond)

	sub, err := tracker.Start(context.Background())
	require.NoError(t, err)
	defer sub.Cancel()

	_, err = tracker.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyTracking)
}

func TestCancelStopsTrackingDeterministically(t *testing.T) {
	tracker := NewTracker(&stubSource{points: make([]round.Location, 100)}, time.Millisecond)

	sub, err := tracker.Start(context.Background())
	require.NoError(t, err)
	require.True(t, tracker.IsTracking())

	// Cancel blocks until the stream is fully stopped, so the flag is
	// already clear when it returns and a restart succeeds immediately.
	sub.Cancel()
	assert.False(t, tracker.IsTracking())

	sub2, err := tracker.Start(context.Background())
	require.NoError(t, err)
	sub2.Cancel()
}

func TestStopCancelsActiveSubscription(t *testing.T) {
	tracker := NewTracker(&stubSource{points: make([]round.Location, 100)}, time.Millisecond)

	_, err := tracker.Start(context.Background())
	require.NoError(t, err)

	tracker.Stop()
	assert.False(t, tracker.IsTracking())

	// Stop with nothing active is a no-op.
	tracker.Stop()
}

func TestStartSourceFailureLeavesTrackerIdle(t *testing.T) {
	boom := errors.New("gps unavailable")
	tracker := NewTracker(&stubSource{err: boom}, time.Millisecond)

	_, err := tracker.Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, tracker.IsTracking(), "failed start must not leave the flag set")

	// The failure is not sticky: a later start may succeed.
	_, err = tracker.Start(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStartWithoutSource(t *testing.T) {
	tracker := NewTracker(nil, time.Millisecond)

	_, err := tracker.Start(context.Background())
	assert.ErrorIs(t, err, ErrNoSource)
	assert.False(t, tracker.IsTracking())
}
