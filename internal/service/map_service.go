package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb/geojson"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/repository"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

const mapListingLimit = 1000

// MapService builds the clustered and outlined views the map draws
type MapService struct {
	listings *repository.ListingRepository
}

// NewMapService creates a new map service
func NewMapService(listings *repository.ListingRepository) *MapService {
	return &MapService{listings: listings}
}

// GroupResult is the grouped view of the available listings
type GroupResult struct {
	Resolution spatial.Resolution    `json:"resolution"`
	Area       *spatial.CellIndex    `json:"area"`
	Groups     []*models.ListingGroup `json:"groups"`
}

// Groups clusters available listings at the resolution matching the map zoom.
// Without a zoom the HomeGrouping resolution is used. An unparsable bbox is
// ignored like an invalid area.
func (s *MapService) Groups(ctx context.Context, filter models.MapGroupFilter) (*GroupResult, error) {
	resolution := spatial.HomeGrouping
	if z := filter.Zoom; z != nil && !math.IsNaN(*z) && !math.IsInf(*z, 0) {
		resolution = spatial.ZoomToResolution(*z)
	}

	rows, err := s.listings.ListAvailable(ctx, mapListingLimit)
	if err != nil {
		return nil, err
	}
	public := models.ToPublicListings(rows, reportProjectionError(ctx))

	area := spatial.NormalizeArea(filter.Area)
	if area != nil {
		public = FilterByArea(public, *area)
	}

	groups := models.GroupByCell(public, resolution)

	if filter.BBox != "" {
		if box, err := spatial.ParseBBox(filter.BBox); err == nil {
			groups = inViewport(groups, box)
		}
	}

	return &GroupResult{Resolution: resolution, Area: area, Groups: groups}, nil
}

// inViewport keeps the groups centered inside box, nearest to its center first
func inViewport(groups []*models.ListingGroup, box spatial.BBox) []*models.ListingGroup {
	center := box.Center()

	kept := make([]*models.ListingGroup, 0, len(groups))
	for _, g := range groups {
		if box.Contains(g.Center) {
			kept = append(kept, g)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return spatial.HaversineDistance(center, kept[i].Center) < spatial.HaversineDistance(center, kept[j].Center)
	})
	return kept
}

// GroupsGeoJSON renders groups as point features at their cell centers
func GroupsGeoJSON(result *GroupResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, g := range result.Groups {
		f := geojson.NewFeature(g.Center.OrbPoint())
		f.ID = g.H3Index.String()
		f.Properties["h3Index"] = g.H3Index.String()
		f.Properties["count"] = g.Count
		f.Properties["label"] = groupLabel(g)
		fc.Append(f)
	}
	return fc
}

func groupLabel(g *models.ListingGroup) string {
	if g.Count == 1 && len(g.Listings) == 1 {
		return g.Listings[0].Name
	}
	return fmt.Sprintf("%d listings", g.Count)
}

// AreaOutline returns the outline of the normalized area, or an empty
// collection when raw is not an acceptable area
func (s *MapService) AreaOutline(raw string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	area := spatial.NormalizeArea(raw)
	if area == nil {
		return fc
	}
	if f, err := spatial.CellFeature(*area); err == nil {
		fc.Append(f)
	}
	return fc
}

// ListingArea outlines where a listing is. Everyone gets its public cell; the
// owner also gets the exact stored cell.
func (s *MapService) ListingArea(ctx context.Context, id int64, viewerID string) (*geojson.FeatureCollection, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil || listing.DeletedAt != nil {
		return nil, ErrNotFound
	}

	owner := viewerID != "" && viewerID == listing.UserID
	if listing.Status == models.StatusPrivate && !owner {
		return nil, ErrNotFound
	}

	approx, err := spatial.CellToParent(listing.Cell(), spatial.PublicDetail)
	if err != nil {
		reportProjectionError(ctx)(listing.ID, err)
		return nil, ErrNotFound
	}

	fc := geojson.NewFeatureCollection()
	public, err := spatial.CellFeature(approx)
	if err != nil {
		return nil, fmt.Errorf("failed to outline listing area: %w", err)
	}
	public.Properties["precision"] = "public"
	fc.Append(public)

	if owner {
		exact, err := spatial.CellFeature(listing.Cell())
		if err != nil {
			return nil, fmt.Errorf("failed to outline listing cell: %w", err)
		}
		exact.Properties["precision"] = "owner"
		fc.Append(exact)
	}
	return fc, nil
}
