package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionPolicy(t *testing.T) {
	assert.Equal(t, OwnerDetail, Storage)
	assert.Equal(t, PublicDetail, MaxPublicArea)
	assert.Equal(t, OwnerDetail, MaxOwnerArea)
	assert.Less(t, MinArea, HomeGrouping)
	assert.Less(t, HomeGrouping, PublicDetail)
	assert.Less(t, PublicDetail, OwnerDetail)
}

func TestZoomToResolution_Table(t *testing.T) {
	tests := []struct {
		zoom float64
		want Resolution
	}{
		{0, 3},
		{3, 3},
		{6, 3},
		{7, 4},
		{8, 4},
		{9, 5},
		{10, 6},
		{11, 7},
		{12, 7},
		{13, 8},
		{14, 8},
		{18, 8},
		{22, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ZoomToResolution(tt.zoom), "zoom %v", tt.zoom)
	}
}

func TestZoomToResolution_AnchorIsExact(t *testing.T) {
	assert.Equal(t, Resolution(8), ZoomToResolution(13))
}

func TestZoomToResolution_MonotonicAndBounded(t *testing.T) {
	prev := ZoomToResolution(-5)
	for z := -5.0; z <= 25; z += 0.05 {
		r := ZoomToResolution(z)
		assert.GreaterOrEqual(t, r, prev, "zoom %v", z)
		assert.GreaterOrEqual(t, r, MinArea)
		assert.LessOrEqual(t, r, MaxPublicArea)
		prev = r
	}
}

func TestZoomToResolution_NonFinite(t *testing.T) {
	assert.Equal(t, MinArea, ZoomToResolution(math.NaN()))
	assert.Equal(t, MinArea, ZoomToResolution(math.Inf(-1)))
	assert.Equal(t, MaxPublicArea, ZoomToResolution(math.Inf(1)))
}
