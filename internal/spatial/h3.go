package spatial

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/uber/h3-go/v4"
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrInvalidResolution = errors.New("invalid resolution")
)

// GeoPoint is a latitude/longitude pair in decimal degrees
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the WGS84 coordinate ranges
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// CellIndex is the canonical hex string of an H3 cell, e.g. "8828300531fffff"
type CellIndex string

// String returns the raw identifier
func (c CellIndex) String() string {
	return string(c)
}

// PointToCell returns the cell containing point at the given resolution
func PointToCell(point GeoPoint, resolution Resolution) (CellIndex, error) {
	if !point.Valid() {
		return "", fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, point.Lat, point.Lng)
	}
	if !resolution.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(point.Lat, point.Lng), int(resolution))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}
	return CellIndex(cell.String()), nil
}

// CellToPoint returns the geometric center of the cell
func CellToPoint(cell CellIndex) (GeoPoint, error) {
	c, err := parseCell(cell)
	if err != nil {
		return GeoPoint{}, err
	}

	ll, err := c.LatLng()
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: %v", ErrInvalidCell, err)
	}
	return GeoPoint{Lat: ll.Lat, Lng: ll.Lng}, nil
}

// CellToBoundary returns the cell polygon vertices in H3's counter-clockwise order.
// The ring is open: callers drawing a polygon must repeat the first vertex.
func CellToBoundary(cell CellIndex) ([]GeoPoint, error) {
	c, err := parseCell(cell)
	if err != nil {
		return nil, err
	}

	boundary, err := c.Boundary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCell, err)
	}

	points := make([]GeoPoint, 0, len(boundary))
	for _, ll := range boundary {
		points = append(points, GeoPoint{Lat: ll.Lat, Lng: ll.Lng})
	}
	return points, nil
}

// CellToParent returns the ancestor of cell at target, which must not be finer
// than the cell itself. Equal resolution returns the cell unchanged.
func CellToParent(cell CellIndex, target Resolution) (CellIndex, error) {
	c, err := parseCell(cell)
	if err != nil {
		return "", err
	}

	own := Resolution(c.Resolution())
	if !target.Valid() || target > own {
		return "", fmt.Errorf("%w: parent %d of resolution-%d cell", ErrInvalidResolution, target, own)
	}
	if target == own {
		return CellIndex(c.String()), nil
	}

	parent, err := c.Parent(int(target))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCell, err)
	}
	return CellIndex(parent.String()), nil
}

// ResolutionOf returns the resolution encoded in the cell
func ResolutionOf(cell CellIndex) (Resolution, error) {
	c, err := parseCell(cell)
	if err != nil {
		return 0, err
	}
	return Resolution(c.Resolution()), nil
}

// IsValid reports whether cell names a valid H3 cell
func IsValid(cell CellIndex) bool {
	_, err := parseCell(cell)
	return err == nil
}

func parseCell(cell CellIndex) (h3.Cell, error) {
	if len(cell) == 0 || len(cell) > 16 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCell, string(cell))
	}

	v, err := strconv.ParseUint(string(cell), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCell, string(cell))
	}

	c := h3.Cell(v)
	if !c.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCell, string(cell))
	}
	return c, nil
}
