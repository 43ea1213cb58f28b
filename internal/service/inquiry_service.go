package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/email"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/logging"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/repository"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/signing"
)

// InquiryWindow is how long a gleaner waits before contacting the same owner again
const InquiryWindow = 24 * time.Hour

const maxNoteLength = 500

// InquiryService handles gleaners contacting listing owners
type InquiryService struct {
	inquiries *repository.InquiryRepository
	listings  *repository.ListingRepository
	users     *repository.UserRepository
	sender    email.Sender
	signer    *signing.Signer
	now       func() time.Time
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(
	inquiries *repository.InquiryRepository,
	listings *repository.ListingRepository,
	users *repository.UserRepository,
	sender email.Sender,
	signer *signing.Signer,
) *InquiryService {
	return &InquiryService{
		inquiries: inquiries,
		listings:  listings,
		users:     users,
		sender:    sender,
		signer:    signer,
		now:       time.Now,
	}
}

// Create records an inquiry from gleanerID and emails the owner. A failed
// email does not fail the inquiry; the result reports whether it was sent.
func (s *InquiryService) Create(ctx context.Context, gleanerID string, form models.InquiryForm, baseURL string) (*models.InquiryResult, error) {
	note := strings.TrimSpace(form.Note)
	if len([]rune(note)) > maxNoteLength {
		return nil, NewValidationError("note", fmt.Sprintf("must be at most %d characters", maxNoteLength))
	}

	found, err := s.listings.GetWithOwner(ctx, form.ListingID)
	if err != nil {
		return nil, err
	}
	if found == nil || !models.AcceptsInquiries(found.Listing.Status) {
		return nil, ErrNotFound
	}
	listing, owner := found.Listing, found.Owner

	if listing.UserID == gleanerID {
		return nil, fmt.Errorf("%w: you cannot inquire about your own listing", ErrNotAllowed)
	}

	now := s.now().UTC()
	recent, err := s.inquiries.HasRecent(ctx, gleanerID, listing.ID, now.Add(-InquiryWindow))
	if err != nil {
		return nil, err
	}
	if recent {
		return nil, ErrRateLimited
	}

	gleaner, err := s.users.GetByID(ctx, gleanerID)
	if err != nil {
		return nil, err
	}
	if gleaner == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	inquiry := &models.Inquiry{
		ListingID: listing.ID,
		GleanerID: gleanerID,
		Note:      optional(note),
		CreatedAt: now,
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, err
	}

	sent := s.notifyOwner(ctx, listing, owner, gleaner, note, baseURL)
	if sent {
		if err := s.inquiries.MarkEmailSent(ctx, inquiry.ID, s.now()); err != nil {
			logging.FromContext(ctx).Error("failed to mark inquiry email sent", "inquiryId", inquiry.ID, "error", err)
		}
	}

	return &models.InquiryResult{InquiryID: inquiry.ID, EmailSent: sent}, nil
}

func (s *InquiryService) notifyOwner(ctx context.Context, listing *models.Listing, owner, gleaner *models.User, note, baseURL string) bool {
	logger := logging.FromContext(ctx)

	msg, err := email.InquiryMessage(email.InquiryData{
		OwnerName:      owner.Name,
		OwnerEmail:     owner.Email,
		GleanerName:    gleaner.Name,
		GleanerEmail:   gleaner.Email,
		GleanerNote:    note,
		ProduceType:    listing.Type,
		Quantity:       deref(listing.Quantity),
		ListingNotes:   deref(listing.Notes),
		UnavailableURL: s.signer.UnavailableURL(baseURL, listing.ID),
	})
	if err != nil {
		logger.Error("failed to render inquiry email", "listingId", listing.ID, "error", err)
		return false
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		logger.Error("failed to send inquiry email", "listingId", listing.ID, "error", err)
		return false
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
