package spatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CellPolygon returns the cell outline as a closed GeoJSON ring
func CellPolygon(cell CellIndex) (orb.Polygon, error) {
	boundary, err := CellToBoundary(cell)
	if err != nil {
		return nil, err
	}

	ring := make(orb.Ring, 0, len(boundary)+1)
	for _, p := range boundary {
		ring = append(ring, p.OrbPoint())
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}, nil
}

// CellFeature wraps the cell outline in a feature carrying its id and resolution
func CellFeature(cell CellIndex) (*geojson.Feature, error) {
	poly, err := CellPolygon(cell)
	if err != nil {
		return nil, err
	}
	res, err := ResolutionOf(cell)
	if err != nil {
		return nil, err
	}

	f := geojson.NewFeature(poly)
	f.ID = cell.String()
	f.Properties["h3Index"] = cell.String()
	f.Properties["resolution"] = int(res)
	return f, nil
}

// OrbPoint converts to orb's [lng, lat] order
func (p GeoPoint) OrbPoint() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}
