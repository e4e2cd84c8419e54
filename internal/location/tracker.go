// Package location provides the cancellable location-tracking subscription
// that feeds LocationUpdated events during a round. Permission checks and
// platform acquisition mechanics live behind the Source boundary; this
// package only manages the subscription lifecycle and the observable
// "is tracking" state.
package location

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/openfairway/roundlog/internal/round"
)

// ErrAlreadyTracking is returned by Tracker.Start while a subscription is
// active. A second start is rejected, never queued.
var ErrAlreadyTracking = errors.New("location tracking already active")

// ErrNoSource is returned when the tracker was built without a location
// source (e.g. no replay file configured on a dev box).
var ErrNoSource = errors.New("no location source configured")

// Source is the platform boundary: given a minimum update interval it
// yields a stream of locations. The returned channel must be closed when
// the context is cancelled, when the source is exhausted, or on failure;
// channel closure is the one cleanup signal the tracker relies on.
type Source interface {
	Start(ctx context.Context, interval time.Duration) (<-chan round.Location, error)
}

// Subscription is a handle on one live location stream. Receive from C;
// call Cancel to stop the underlying acquisition promptly and release any
// platform resource. C is closed once the stream has fully stopped.
type Subscription struct {
	C <-chan round.Location

	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the stream. It blocks until the source has wound down and C
// is closed, so cleanup is deterministic rather than eventual.
func (s *Subscription) Cancel() {
	s.cancel()
	<-s.done
}

// Tracker owns the at-most-one active location subscription and the
// observable tracking flag. It is injected wherever the round session
// needs it, deliberately not a process-wide singleton.
type Tracker struct {
	src      Source
	interval time.Duration

	mu       sync.Mutex
	tracking bool
	active   *Subscription
}

// NewTracker builds a tracker over a source with a fixed minimum update
// interval. src may be nil; Start then fails with ErrNoSource.
func NewTracker(src Source, interval time.Duration) *Tracker {
	return &Tracker{src: src, interval: interval}
}

// IsTracking reports whether a subscription is currently active. Readable
// at any time.
func (t *Tracker) IsTracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracking
}

// Start begins location tracking and returns the subscription handle.
// While a subscription is active, further calls return ErrAlreadyTracking.
// If the source fails to start, the tracking flag is left false and the
// error is returned as-is.
func (t *Tracker) Start(ctx context.Context) (*Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.src == nil {
		return nil, ErrNoSource
	}
	if t.tracking {
		return nil, ErrAlreadyTracking
	}

	streamCtx, cancel := context.WithCancel(ctx)
	src, err := t.src.Start(streamCtx, t.interval)
	if err != nil {
		cancel()
		return nil, err
	}

	slog.Info("location tracking started", "interval", t.interval)

	out := make(chan round.Location)
	sub := &Subscription{
		C:      out,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	t.tracking = true
	t.active = sub

	go func() {
		defer func() {
			t.mu.Lock()
			t.tracking = false
			t.active = nil
			t.mu.Unlock()
			close(out)
			close(sub.done)
			slog.Info("location tracking stopped")
		}()

		// Forward until the source closes its channel, which it does on
		// cancellation, exhaustion, or failure.
		for loc := range src {
			select {
			case out <- loc:
			case <-streamCtx.Done():
				// Consumer cancelled while we were blocked on delivery;
				// drain nothing further.
				return
			}
		}
	}()

	return sub, nil
}

// Stop cancels the active subscription, if any. It is a no-op when nothing
// is tracking.
func (t *Tracker) Stop() {
	t.mu.Lock()
	sub := t.active
	t.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}
