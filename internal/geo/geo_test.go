package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfairway/roundlog/internal/round"
)

// A 400-yard-ish hole near Greenwich. One degree of latitude is ~121,000
// yards, so 0.0033 degrees is roughly 400 yards.
var (
	tee  = round.Location{Latitude: 51.4770, Longitude: 0.0}
	flag = round.Location{Latitude: 51.4803, Longitude: 0.0}
)

func TestDistanceYards(t *testing.T) {
	d := DistanceYards(tee, flag)
	assert.InDelta(t, 400, d, 10, "hole length in the expected ballpark")

	assert.Zero(t, DistanceYards(tee, tee))
	assert.Equal(t, d, DistanceYards(flag, tee), "distance is symmetric")
}

func TestMidpoint(t *testing.T) {
	mid := Midpoint(tee, flag)
	assert.InDelta(t, 51.47865, mid.Latitude, 1e-6)
	assert.Zero(t, mid.Longitude)
}

func TestInHoleBounds(t *testing.T) {
	mid := Midpoint(tee, flag)

	testCases := []struct {
		name     string
		user     round.Location
		expected bool
	}{
		{"on the tee", tee, true},
		{"at the flag", flag, true},
		{"mid fairway", mid, true},
		{"just off the tee", round.Location{Latitude: 51.4775, Longitude: 0.0005}, true},
		{"two holes away", round.Location{Latitude: 51.4900, Longitude: 0.0}, false},
		{"clubhouse car park", round.Location{Latitude: 51.4770, Longitude: 0.01}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, InHoleBounds(tc.user, tee, flag, DefaultHoleBufferYards))
		})
	}
}

func TestShotDistanceFormatting(t *testing.T) {
	drive := round.ShotTracked{Club: round.ClubDriver, StartLocation: tee, EndLocation: flag}
	assert.Contains(t, ShotDistance(drive), "yards")

	// Putts are reported in feet.
	green := round.Location{Latitude: 51.48031, Longitude: 0.0}
	putt := round.ShotTracked{Club: round.ClubPutter, StartLocation: flag, EndLocation: green}
	assert.Contains(t, ShotDistance(putt), "feet")
}
