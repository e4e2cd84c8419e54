// Package geo holds the small amount of course geometry the round recorder
// needs: distances between coordinates, the midpoint helper, and the
// hole-corridor containment check used to sanity-check shot locations.
package geo

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/openfairway/roundlog/internal/round"
)

const yardsPerMeter = 1.0936133

// DefaultHoleBufferYards is the slack allowed around a hole's tee and flag
// when deciding whether a location belongs to that hole.
const DefaultHoleBufferYards = 150

// DistanceYards returns the great-circle distance between two locations,
// rounded down to whole yards.
func DistanceYards(a, b round.Location) int {
	meters := gpx.HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	return int(meters * yardsPerMeter)
}

// Midpoint returns the point halfway between two locations. A flat-earth
// average is fine at hole scale (a few hundred yards).
func Midpoint(a, b round.Location) round.Location {
	return round.Location{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}

// InHoleBounds reports whether a location plausibly belongs to the hole
// described by its tee and flag: near the tee, near the flag, or somewhere
// along the corridor between them.
func InHoleBounds(user, tee, flag round.Location, bufferYards int) bool {
	distanceToTee := DistanceYards(user, tee)
	distanceToFlag := DistanceYards(user, flag)
	holeLength := DistanceYards(tee, flag)

	if distanceToTee <= bufferYards || distanceToFlag <= bufferYards {
		return true
	}

	corridor := holeLength / 4
	if corridor < bufferYards {
		corridor = bufferYards
	}
	return DistanceYards(user, Midpoint(tee, flag)) <= corridor
}

// ShotDistance formats a tracked shot's length for display. Putts are shown
// in feet, everything else in yards.
func ShotDistance(shot round.ShotTracked) string {
	yards := DistanceYards(shot.StartLocation, shot.EndLocation)
	if shot.Club == round.ClubPutter {
		return fmt.Sprintf("%d feet", yards*3)
	}
	return fmt.Sprintf("%d yards", yards)
}
