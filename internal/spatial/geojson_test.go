package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellPolygon_Closed(t *testing.T) {
	cell, err := PointToCell(napa, HomeGrouping)
	require.NoError(t, err)

	poly, err := CellPolygon(cell)
	require.NoError(t, err)
	require.Len(t, poly, 1)

	ring := poly[0]
	assert.True(t, ring.Closed())
	assert.GreaterOrEqual(t, len(ring), 7)
}

func TestCellFeature(t *testing.T) {
	cell, err := PointToCell(napa, PublicDetail)
	require.NoError(t, err)

	f, err := CellFeature(cell)
	require.NoError(t, err)
	assert.Equal(t, cell.String(), f.ID)
	assert.Equal(t, cell.String(), f.Properties["h3Index"])
	assert.Equal(t, int(PublicDetail), f.Properties["resolution"])

	_, err = CellFeature("nope")
	assert.ErrorIs(t, err, ErrInvalidCell)
}

func TestOrbPoint_LngLatOrder(t *testing.T) {
	p := napa.OrbPoint()
	assert.Equal(t, napa.Lng, p.Lon())
	assert.Equal(t, napa.Lat, p.Lat())
}
