package models

import (
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

// PublicListing is the projection of a Listing safe to show any visitor.
// Address, access instructions, deletion marker, coordinates, exact cell and
// zip are never carried.
type PublicListing struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	Variety            *string   `json:"variety"`
	Status             string    `json:"status"`
	Quantity           *string   `json:"quantity"`
	HarvestWindow      *string   `json:"harvestWindow"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	UserID             string    `json:"userId"`
	Notes              *string   `json:"notes"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	ApproximateH3Index string    `json:"approximateH3Index"` // public detail resolution
}

// ToPublicListing strips sensitive fields and coarsens the stored cell to
// PublicDetail. A listing whose stored cell cannot be coarsened yields nil,
// after onError (if given) is called with its id.
func ToPublicListing(l *Listing, onError func(id int64, err error)) *PublicListing {
	approx, err := spatial.CellToParent(l.Cell(), spatial.PublicDetail)
	if err != nil {
		if onError != nil {
			onError(l.ID, err)
		}
		return nil
	}

	return &PublicListing{
		ID:                 l.ID,
		Name:               l.Name,
		Type:               l.Type,
		Variety:            l.Variety,
		Status:             l.Status,
		Quantity:           l.Quantity,
		HarvestWindow:      l.HarvestWindow,
		City:               l.City,
		State:              l.State,
		UserID:             l.UserID,
		Notes:              l.Notes,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
		ApproximateH3Index: approx.String(),
	}
}

// ToPublicListings projects a batch, skipping rows that fail projection
func ToPublicListings(listings []*Listing, onError func(id int64, err error)) []*PublicListing {
	out := make([]*PublicListing, 0, len(listings))
	for _, l := range listings {
		if pub := ToPublicListing(l, onError); pub != nil {
			out = append(out, pub)
		}
	}
	return out
}

// ListingGroup is the set of public listings under one display cell
type ListingGroup struct {
	H3Index  spatial.CellIndex `json:"h3Index"`
	Center   spatial.GeoPoint  `json:"center"` // center of the cell, not of the members
	Count    int               `json:"count"`
	Listings []*PublicListing  `json:"listings"`
}

// GroupByCell partitions listings by the ancestor of their approximate cell at
// resolution. Listings whose cell cannot be coarsened to resolution are left
// out. Groups come back in first-seen order.
func GroupByCell(listings []*PublicListing, resolution spatial.Resolution) []*ListingGroup {
	groups := make([]*ListingGroup, 0)
	byCell := make(map[spatial.CellIndex]*ListingGroup)

	for _, l := range listings {
		key, err := spatial.CellToParent(spatial.CellIndex(l.ApproximateH3Index), resolution)
		if err != nil {
			continue
		}

		g, ok := byCell[key]
		if !ok {
			center, err := spatial.CellToPoint(key)
			if err != nil {
				continue
			}
			g = &ListingGroup{H3Index: key, Center: center}
			byCell[key] = g
			groups = append(groups, g)
		}
		g.Listings = append(g.Listings, l)
		g.Count++
	}

	return groups
}
