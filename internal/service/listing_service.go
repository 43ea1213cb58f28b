package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/geocoding"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/logging"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/repository"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/signing"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

const (
	defaultBrowseLimit = 50
	maxBrowseLimit     = 200
)

// ListingService handles listing business logic
type ListingService struct {
	listings *repository.ListingRepository
	users    *repository.UserRepository
	geocoder geocoding.Geocoder
	signer   *signing.Signer
	now      func() time.Time
}

// NewListingService creates a new listing service
func NewListingService(
	listings *repository.ListingRepository,
	users *repository.UserRepository,
	geocoder geocoding.Geocoder,
	signer *signing.Signer,
) *ListingService {
	return &ListingService{
		listings: listings,
		users:    users,
		geocoder: geocoder,
		signer:   signer,
		now:      time.Now,
	}
}

// reportProjectionError logs a stored row whose cell cannot be coarsened
func reportProjectionError(ctx context.Context) func(int64, error) {
	return func(id int64, err error) {
		logging.FromContext(ctx).Error("listing has invalid h3 index", "listingId", id, "error", err)
	}
}

// Create geocodes the form's address and stores a new available listing for userID
func (s *ListingService) Create(ctx context.Context, userID string, form models.ListingForm) (*models.Listing, error) {
	result, err := s.geocoder.Geocode(ctx, geocoding.Address{
		Street: form.Address,
		City:   form.City,
		State:  form.State,
		Zip:    form.Zip,
	})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	listing := &models.Listing{
		Name:          cases.Title(language.English).String(form.Type),
		Type:          form.Type,
		Status:        models.StatusAvailable,
		HarvestWindow: optional(form.HarvestWindow),
		Address:       strings.TrimSpace(form.Address),
		City:          strings.TrimSpace(form.City),
		State:         strings.ToUpper(form.State),
		Zip:           optional(form.Zip),
		Lat:           result.Point.Lat,
		Lng:           result.Point.Lng,
		H3Index:       result.Cell.String(),
		UserID:        userID,
		Notes:         optional(form.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	if name := strings.TrimSpace(form.OwnerName); name != "" {
		if err := s.users.UpdateName(ctx, userID, name, now); err != nil {
			logging.FromContext(ctx).Warn("failed to save owner name", "userId", userID, "error", err)
		}
	}
	if phone := strings.TrimSpace(form.OwnerPhone); phone != "" {
		if err := s.users.UpdatePhone(ctx, userID, phone, now); err != nil {
			logging.FromContext(ctx).Warn("failed to save owner phone", "userId", userID, "error", err)
		}
	}

	logging.FromContext(ctx).Info("listing created", "listingId", listing.ID, "type", listing.Type, "h3Index", listing.H3Index)
	return listing, nil
}

// Browse returns the newest available listings as public projections. A
// valid area restricts results to listings inside that cell; an invalid one
// is ignored. The normalized area is returned alongside.
func (s *ListingService) Browse(ctx context.Context, filter models.ListingFilter) ([]*models.PublicListing, *spatial.CellIndex, error) {
	limit := filter.Limit
	if limit < 1 {
		limit = defaultBrowseLimit
	}
	if limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}

	rows, err := s.listings.ListAvailable(ctx, limit)
	if err != nil {
		return nil, nil, err
	}

	public := models.ToPublicListings(rows, reportProjectionError(ctx))

	area := spatial.NormalizeArea(filter.Area)
	if area == nil {
		return public, nil, nil
	}
	return FilterByArea(public, *area), area, nil
}

// FilterByArea keeps the listings whose approximate cell lies inside area
func FilterByArea(listings []*models.PublicListing, area spatial.CellIndex) []*models.PublicListing {
	out := make([]*models.PublicListing, 0, len(listings))
	for _, l := range listings {
		if spatial.Matches(spatial.CellIndex(l.ApproximateH3Index), area) {
			out = append(out, l)
		}
	}
	return out
}

// GetPublic returns the public projection of a visible listing
func (s *ListingService) GetPublic(ctx context.Context, id int64) (*models.PublicListing, error) {
	listing, err := s.listings.GetVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrNotFound
	}

	pub := models.ToPublicListing(listing, reportProjectionError(ctx))
	if pub == nil {
		return nil, ErrNotFound
	}
	return pub, nil
}

// GetOwned returns a non-deleted listing with full detail when userID owns it
func (s *ListingService) GetOwned(ctx context.Context, id int64, userID string) (*models.OwnerListing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil || listing.DeletedAt != nil || listing.UserID != userID {
		return nil, ErrNotFound
	}
	return toOwnerListing(listing), nil
}

// Mine returns the owner's non-deleted listings
func (s *ListingService) Mine(ctx context.Context, userID string) ([]*models.OwnerListing, error) {
	rows, err := s.listings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.OwnerListing, 0, len(rows))
	for _, l := range rows {
		out = append(out, toOwnerListing(l))
	}
	return out, nil
}

func toOwnerListing(l *models.Listing) *models.OwnerListing {
	owned := &models.OwnerListing{Listing: *l}
	if approx, err := spatial.CellToParent(l.Cell(), spatial.PublicDetail); err == nil {
		owned.ApproximateH3Index = approx.String()
	}
	return owned
}

// LastAddress returns the address of the user's latest listing, or nil
func (s *ListingService) LastAddress(ctx context.Context, userID string) (*models.ListingAddress, error) {
	return s.listings.LastAddress(ctx, userID)
}

// UpdateStatus changes the status of one of the user's listings
func (s *ListingService) UpdateStatus(ctx context.Context, id int64, userID, status string) error {
	if !models.IsListingStatus(status) {
		return NewValidationError("status", "invalid status")
	}

	ok, err := s.listings.UpdateStatus(ctx, id, userID, status, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes one of the user's listings
func (s *ListingService) Delete(ctx context.Context, id int64, userID string) error {
	ok, err := s.listings.SoftDelete(ctx, id, userID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// MarkUnavailable applies a signed one-click link
func (s *ListingService) MarkUnavailable(ctx context.Context, id int64, sig signing.Signature) error {
	if err := s.signer.Verify(id, sig); err != nil {
		return err
	}

	ok, err := s.listings.MarkUnavailable(ctx, id, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	logging.FromContext(ctx).Info("listing marked unavailable via signed link", "listingId", id)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
