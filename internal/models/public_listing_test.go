package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

func strPtr(s string) *string { return &s }

func listingAt(t *testing.T, id int64, p spatial.GeoPoint) *Listing {
	t.Helper()
	cell, err := spatial.PointToCell(p, spatial.Storage)
	require.NoError(t, err)

	deleted := time.Unix(1700000000, 0)
	return &Listing{
		ID:                 id,
		Name:               "Meyer Lemon",
		Type:               "lemon",
		Variety:            strPtr("Meyer"),
		Status:             StatusAvailable,
		Quantity:           strPtr("abundant"),
		HarvestWindow:      strPtr("December-March"),
		Address:            "123 Main St",
		City:               "Napa",
		State:              "CA",
		Zip:                strPtr("94559"),
		Lat:                p.Lat,
		Lng:                p.Lng,
		H3Index:            cell.String(),
		UserID:             "user-1",
		Notes:              strPtr("Pick from the street side"),
		AccessInstructions: strPtr("Gate code 1234"),
		DeletedAt:          &deleted,
		CreatedAt:          time.Unix(1690000000, 0),
		UpdatedAt:          time.Unix(1690000500, 0),
	}
}

var napa = spatial.GeoPoint{Lat: 38.2975, Lng: -122.2869}

func TestToPublicListing_StripsSensitiveKeys(t *testing.T) {
	pub := ToPublicListing(listingAt(t, 1, napa), nil)
	require.NotNil(t, pub)

	raw, err := json.Marshal(pub)
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))

	for _, k := range []string{"address", "accessInstructions", "deletedAt", "lat", "lng", "h3Index", "zip"} {
		assert.NotContains(t, keys, k)
	}
	for _, k := range []string{"id", "name", "type", "status", "city", "state", "userId", "approximateH3Index"} {
		assert.Contains(t, keys, k)
	}
	assert.NotContains(t, string(raw), "123 Main St")
	assert.NotContains(t, string(raw), "Gate code")
}

func TestToPublicListing_CoarsensToPublicDetail(t *testing.T) {
	l := listingAt(t, 1, napa)
	pub := ToPublicListing(l, nil)
	require.NotNil(t, pub)

	approx := spatial.CellIndex(pub.ApproximateH3Index)
	res, err := spatial.ResolutionOf(approx)
	require.NoError(t, err)
	assert.Equal(t, spatial.PublicDetail, res)

	want, err := spatial.CellToParent(l.Cell(), spatial.PublicDetail)
	require.NoError(t, err)
	assert.Equal(t, want, approx)
	assert.True(t, spatial.Matches(l.Cell(), approx))

	home, err := spatial.CellToParent(l.Cell(), spatial.HomeGrouping)
	require.NoError(t, err)
	assert.True(t, spatial.Matches(approx, home))
}

func TestToPublicListing_CorruptCell(t *testing.T) {
	l := listingAt(t, 42, napa)
	l.H3Index = "not-a-cell"

	var calls []int64
	var gotErr error
	pub := ToPublicListing(l, func(id int64, err error) {
		calls = append(calls, id)
		gotErr = err
	})

	assert.Nil(t, pub)
	assert.Equal(t, []int64{42}, calls)
	assert.True(t, errors.Is(gotErr, spatial.ErrInvalidCell))
}

func TestToPublicListing_NilCallback(t *testing.T) {
	l := listingAt(t, 7, napa)
	l.H3Index = ""

	assert.Nil(t, ToPublicListing(l, nil))
}

func TestToPublicListings_SkipsBadRows(t *testing.T) {
	good := listingAt(t, 1, napa)
	bad := listingAt(t, 2, napa)
	bad.H3Index = "zzzz"
	other := listingAt(t, 3, spatial.GeoPoint{Lat: 38.5, Lng: -122.4})

	var failed []int64
	out := ToPublicListings([]*Listing{good, bad, other}, func(id int64, err error) {
		failed = append(failed, id)
	})

	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
	assert.Equal(t, []int64{2}, failed)
}

func TestGroupByCell_TwoGroups(t *testing.T) {
	// two listings sharing the resolution-7 ancestor of napa, one well outside it
	home, err := spatial.PointToCell(napa, spatial.HomeGrouping)
	require.NoError(t, err)
	homeCenter, err := spatial.CellToPoint(home)
	require.NoError(t, err)

	a := listingAt(t, 1, napa)
	b := listingAt(t, 2, homeCenter)
	c := listingAt(t, 3, spatial.GeoPoint{Lat: 40.6782, Lng: -73.9442})

	pubs := ToPublicListings([]*Listing{a, b, c}, nil)
	require.Len(t, pubs, 3)

	groups := GroupByCell(pubs, spatial.HomeGrouping)
	require.Len(t, groups, 2)

	counts := map[spatial.CellIndex]int{}
	for _, g := range groups {
		counts[g.H3Index] = g.Count
		assert.Len(t, g.Listings, g.Count)

		center, err := spatial.CellToPoint(g.H3Index)
		require.NoError(t, err)
		assert.Equal(t, center, g.Center)
	}
	assert.Equal(t, 2, counts[home])
}

func TestGroupByCell_AtPublicDetailIsIdentity(t *testing.T) {
	pubs := ToPublicListings([]*Listing{listingAt(t, 1, napa)}, nil)
	groups := GroupByCell(pubs, spatial.PublicDetail)

	require.Len(t, groups, 1)
	assert.Equal(t, spatial.CellIndex(pubs[0].ApproximateH3Index), groups[0].H3Index)
}

func TestGroupByCell_SkipsUngroupable(t *testing.T) {
	pubs := []*PublicListing{{ID: 1, ApproximateH3Index: "garbage"}}
	assert.Empty(t, GroupByCell(pubs, spatial.HomeGrouping))
}

func TestIsFruitType(t *testing.T) {
	assert.Len(t, FruitTypes, 20)
	assert.True(t, IsFruitType("persimmon"))
	assert.False(t, IsFruitType("banana"))
	assert.False(t, IsFruitType(""))
}

func TestAcceptsInquiries(t *testing.T) {
	assert.True(t, AcceptsInquiries(StatusAvailable))
	assert.True(t, AcceptsInquiries(StatusPrivate))
	assert.False(t, AcceptsInquiries(StatusUnavailable))
}
