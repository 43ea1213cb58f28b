package spatial

import "math"

// Resolution is an H3 grid precision level; higher values are smaller cells
type Resolution int

// Named precision levels
const (
	// OwnerDetail is the exact, tree-level precision shown to a listing's owner
	OwnerDetail Resolution = 13
	// Storage is the precision persisted for every listing
	Storage = OwnerDetail
	// PublicDetail is the neighborhood-level precision (~0.7 km²) shown to everyone else
	PublicDetail Resolution = 8
	// HomeGrouping is the clustering level (~5 km²) used for map groups
	HomeGrouping Resolution = 7
	// MinArea is the coarsest cell accepted as an area filter
	MinArea Resolution = 3

	MaxPublicArea = PublicDetail
	MaxOwnerArea  = OwnerDetail
)

const (
	minResolution Resolution = 0
	maxResolution Resolution = 15

	// anchorZoom maps exactly to anchorResolution
	anchorZoom       = 13.0
	anchorResolution = float64(PublicDetail)
)

// zoomFactor is cells-per-zoom-level: a zoom step quadruples visible area,
// a resolution step divides cell area by 7
var zoomFactor = math.Log(4) / math.Log(7)

// Valid reports whether r is a resolution the grid defines
func (r Resolution) Valid() bool {
	return r >= minResolution && r <= maxResolution
}

// ZoomToResolution maps a web-map zoom level to the grid resolution used for
// grouping and area selection, clamped to [MinArea, MaxPublicArea]
func ZoomToResolution(zoom float64) Resolution {
	if math.IsNaN(zoom) {
		return MinArea
	}

	offset := anchorResolution - zoomFactor*anchorZoom
	r := math.Round(zoomFactor*zoom + offset)

	if r < float64(MinArea) {
		return MinArea
	}
	if r > float64(MaxPublicArea) {
		return MaxPublicArea
	}
	return Resolution(r)
}
