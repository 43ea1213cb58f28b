package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/email"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/geocoding"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/repository"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/signing"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/testutil"
)

const testBaseURL = "https://www.pickmyfruit.test"

type fakeGeocoder struct {
	point spatial.GeoPoint
	err   error
	calls []geocoding.Address
}

func (f *fakeGeocoder) Geocode(_ context.Context, addr geocoding.Address) (*geocoding.Result, error) {
	f.calls = append(f.calls, addr)
	if f.err != nil {
		return nil, f.err
	}
	cell, err := spatial.PointToCell(f.point, spatial.Storage)
	if err != nil {
		return nil, err
	}
	return &geocoding.Result{Point: f.point, Cell: cell, DisplayName: addr.Query()}, nil
}

type fixture struct {
	db       *sql.DB
	geocoder *fakeGeocoder
	mail     *email.Recorder
	signer   *signing.Signer
	listings *ListingService
	inquiry  *InquiryService
	auth     *AuthService
	maps     *MapService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	listingRepo := repository.NewListingRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)

	f := &fixture{
		db:       db,
		geocoder: &fakeGeocoder{point: testutil.Napa},
		mail:     &email.Recorder{},
		signer:   signing.NewSigner("test-hmac-secret", 7*24*time.Hour),
	}
	f.listings = NewListingService(listingRepo, userRepo, f.geocoder, f.signer)
	f.inquiry = NewInquiryService(inquiryRepo, listingRepo, userRepo, f.mail, f.signer)
	f.auth = NewAuthService(userRepo, sessionRepo, f.mail, AuthConfig{
		SessionSecret: "test-session-secret",
		MagicLinkTTL:  5 * time.Minute,
		SessionTTL:    7 * 24 * time.Hour,
	})
	f.maps = NewMapService(listingRepo)
	return f
}
