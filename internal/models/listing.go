package models

import (
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

// Listing statuses
const (
	StatusAvailable   = "available"   // listed publicly, accepts inquiries
	StatusUnavailable = "unavailable" // listed publicly, no inquiries (e.g. out of season)
	StatusPrivate     = "private"     // hidden, accepts inquiries via direct link
)

// ListingStatuses lists every valid status
var ListingStatuses = []string{StatusAvailable, StatusUnavailable, StatusPrivate}

// FruitTypes lists every produce type a listing may carry
var FruitTypes = []string{
	"apple",
	"apricot",
	"avocado",
	"cherry",
	"fig",
	"grape",
	"grapefruit",
	"lemon",
	"lime",
	"nectarine",
	"olive",
	"orange",
	"peach",
	"pear",
	"persimmon",
	"plum",
	"pomegranate",
	"quince",
	"walnut",
	"other",
}

// IsFruitType reports whether t is a known produce type
func IsFruitType(t string) bool {
	for _, f := range FruitTypes {
		if f == t {
			return true
		}
	}
	return false
}

// IsListingStatus reports whether s is a known status
func IsListingStatus(s string) bool {
	for _, v := range ListingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// AcceptsInquiries reports whether gleaners may contact the owner
func AcceptsInquiries(status string) bool {
	return status == StatusAvailable || status == StatusPrivate
}

// Listing is a fruit tree offered by its owner, with its exact location
type Listing struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Type          string  `json:"type" db:"type"`                     // see FruitTypes
	Variety       *string `json:"variety" db:"variety"`               // e.g. Granny Smith
	Status        string  `json:"status" db:"status"`                 // available, unavailable, private
	Quantity      *string `json:"quantity" db:"quantity"`             // abundant, moderate, few
	HarvestWindow *string `json:"harvestWindow" db:"harvest_window"` // e.g. September-October

	// Exact location, visible to the owner only
	Address string  `json:"address" db:"address"`
	City    string  `json:"city" db:"city"`
	State   string  `json:"state" db:"state"`
	Zip     *string `json:"zip" db:"zip"`
	Lat     float64 `json:"lat" db:"lat"`
	Lng     float64 `json:"lng" db:"lng"`
	H3Index string  `json:"h3Index" db:"h3_index"` // storage resolution

	UserID string `json:"userId" db:"user_id"`

	Notes              *string `json:"notes" db:"notes"`
	AccessInstructions *string `json:"accessInstructions" db:"access_instructions"` // e.g. gate code

	DeletedAt *time.Time `json:"deletedAt" db:"deleted_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// Cell returns the stored cell index
func (l *Listing) Cell() spatial.CellIndex {
	return spatial.CellIndex(l.H3Index)
}

// ListingAddress is the subset of a listing used to pre-fill the next form
type ListingAddress struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Zip     *string `json:"zip"`
}

// OwnerListing is what an owner sees of their own listing: every stored field
// plus the public approximation visitors get
type OwnerListing struct {
	Listing
	ApproximateH3Index string `json:"approximateH3Index"`
}
