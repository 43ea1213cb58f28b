package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	assert.InDelta(t, 0, HaversineDistance(napa, napa), 1e-9)

	// Napa to Brooklyn is roughly 4,100 km
	d := HaversineDistance(napa, brooklyn)
	assert.InDelta(t, 4100000, d, 100000)
}

func TestParseBBox(t *testing.T) {
	box, err := ParseBBox("-122.5,38.1,-122.0,38.5")
	require.NoError(t, err)

	assert.Equal(t, BBox{West: -122.5, South: 38.1, East: -122.0, North: 38.5}, box)
	assert.True(t, box.Contains(napa))
	assert.False(t, box.Contains(brooklyn))

	c := box.Center()
	assert.InDelta(t, 38.3, c.Lat, 1e-6)
	assert.InDelta(t, -122.25, c.Lng, 1e-6)
}

func TestParseBBox_Antimeridian(t *testing.T) {
	box, err := ParseBBox("170,-20,-170,20")
	require.NoError(t, err)

	assert.True(t, box.Contains(GeoPoint{Lat: 0, Lng: 179}))
	assert.True(t, box.Contains(GeoPoint{Lat: 0, Lng: -175}))
	assert.False(t, box.Contains(GeoPoint{Lat: 0, Lng: 0}))
}

func TestParseBBox_Invalid(t *testing.T) {
	for _, raw := range []string{"", "1,2,3", "a,b,c,d", "0,50,10,40", "0,-95,10,10"} {
		_, err := ParseBBox(raw)
		assert.ErrorIs(t, err, ErrInvalidCoordinate, "bbox %q", raw)
	}
}
