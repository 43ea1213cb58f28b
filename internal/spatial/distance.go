package spatial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(a, b GeoPoint) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// BBox is a map viewport in degrees
type BBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// ParseBBox parses "west,south,east,north", the order Leaflet's toBBoxString uses
func ParseBBox(raw string) (BBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("%w: bbox needs 4 values, got %d", ErrInvalidCoordinate, len(parts))
	}

	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("%w: bbox value %q", ErrInvalidCoordinate, p)
		}
		vals[i] = v
	}

	box := BBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	sw := GeoPoint{Lat: box.South, Lng: box.West}
	ne := GeoPoint{Lat: box.North, Lng: box.East}
	if !sw.Valid() || !ne.Valid() || box.South > box.North {
		return BBox{}, fmt.Errorf("%w: bbox %q", ErrInvalidCoordinate, raw)
	}
	return box, nil
}

func (b BBox) rect() s2.Rect {
	// an inverted longitude interval crosses the antimeridian
	return s2.Rect{
		Lat: r1.Interval{Lo: toRadians(b.South), Hi: toRadians(b.North)},
		Lng: s1.IntervalFromEndpoints(toRadians(b.West), toRadians(b.East)),
	}
}

func toRadians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

// Contains reports whether p lies inside the viewport
func (b BBox) Contains(p GeoPoint) bool {
	return b.rect().ContainsLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
}

// Center returns the middle of the viewport
func (b BBox) Center() GeoPoint {
	c := b.rect().Center()
	return GeoPoint{Lat: c.Lat.Degrees(), Lng: c.Lng.Degrees()}
}
