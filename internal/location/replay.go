package location

import (
	"context"
	"fmt"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/openfairway/roundlog/internal/round"
)

// ReplaySource replays a recorded GPX track as a location stream, one point
// per interval. It stands in for the platform GPS source during development
// and load testing: the rest of the pipeline (tracker, recorder, broker)
// cannot tell the difference.
type ReplaySource struct {
	points []round.Location
}

// NewReplaySource parses a GPX file and keeps its flattened point list.
// A file with no track points is rejected up front rather than producing a
// stream that silently never emits.
func NewReplaySource(path string) (*ReplaySource, error) {
	gpxData, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse gpx %s: %w", path, err)
	}

	var points []round.Location
	for _, track := range gpxData.Tracks {
		for _, segment := range track.Segments {
			for _, point := range segment.Points {
				points = append(points, round.Location{
					Latitude:  point.Latitude,
					Longitude: point.Longitude,
				})
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("gpx %s contains no track points", path)
	}

	return &ReplaySource{points: points}, nil
}

// Start emits the track's points at the requested interval. The channel is
// closed when the track is exhausted or the context is cancelled.
func (s *ReplaySource) Start(ctx context.Context, interval time.Duration) (<-chan round.Location, error) {
	out := make(chan round.Location)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for _, point := range s.points {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			select {
			case out <- point:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
