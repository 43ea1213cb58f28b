package models

// ListingFilter represents query parameters for browsing listings
type ListingFilter struct {
	Area  string `form:"area"`  // H3 cell, normalized before use
	Limit int    `form:"limit"` // default 50, max 200
}

// MapGroupFilter represents query parameters for the map group endpoint
type MapGroupFilter struct {
	Zoom   *float64 `form:"zoom"`   // web map zoom level
	Area   string   `form:"area"`   // H3 cell, normalized before use
	BBox   string   `form:"bbox"`   // west,south,east,north
	Format string   `form:"format"` // json (default) or geojson
}

// ListingForm is the body of a create-listing request, before geocoding
type ListingForm struct {
	Type          string `json:"type" binding:"required,fruittype"`
	HarvestWindow string `json:"harvestWindow" binding:"required,max=50"`
	Address       string `json:"address" binding:"required,max=200"`
	City          string `json:"city" binding:"required,max=100"`
	State         string `json:"state" binding:"required,len=2"`
	Zip           string `json:"zip" binding:"omitempty,zipcode"`
	OwnerName     string `json:"ownerName" binding:"required,max=100"`
	OwnerPhone    string `json:"ownerPhone" binding:"omitempty,phone"`
	Notes         string `json:"notes" binding:"max=1000"`
}

// StatusUpdate is the body of a listing status change
type StatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=available unavailable private"`
}

// InquiryForm is the body of a new inquiry
type InquiryForm struct {
	ListingID int64  `json:"listingId" binding:"required,gt=0"`
	Note      string `json:"note" binding:"max=500"`
}

// MagicLinkRequest asks for a sign-in email
type MagicLinkRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"max=100"`
	CallbackURL string `json:"callbackURL" binding:"max=200"`
}

// UnavailableLink carries the signature of a one-click unavailable link
type UnavailableLink struct {
	Nonce string `form:"nonce" binding:"required"`
	TS    int64  `form:"ts" binding:"required"`
	Sig   string `form:"sig" binding:"required"`
}
