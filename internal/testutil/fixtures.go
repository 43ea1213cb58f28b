package testutil

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

// Napa is the reference point used across tests
var Napa = spatial.GeoPoint{Lat: 38.2975, Lng: -122.2869}

// InsertUser stores a random user and returns it
func InsertUser(t testing.TB, db *sql.DB) *models.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := &models.User{
		ID:            uuid.NewString(),
		Name:          gofakeit.Name(),
		Email:         strings.ToLower(gofakeit.Email()),
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := db.Exec(
		`INSERT INTO users (id, name, email, email_verified, created_at, updated_at) VALUES (?, ?, ?, 1, ?, ?)`,
		u.ID, u.Name, u.Email, now.Unix(), now.Unix(),
	)
	require.NoError(t, err)
	return u
}

// ListingOption customizes InsertListing
type ListingOption func(*models.Listing)

// WithStatus sets the listing status
func WithStatus(status string) ListingOption {
	return func(l *models.Listing) { l.Status = status }
}

// WithPoint places the listing at p
func WithPoint(p spatial.GeoPoint) ListingOption {
	return func(l *models.Listing) {
		l.Lat, l.Lng = p.Lat, p.Lng
	}
}

// WithCell overrides the stored cell, e.g. with a corrupt value
func WithCell(cell string) ListingOption {
	return func(l *models.Listing) { l.H3Index = cell }
}

// WithCreatedAt sets the creation time
func WithCreatedAt(ts time.Time) ListingOption {
	return func(l *models.Listing) { l.CreatedAt = ts }
}

// WithDeleted marks the listing deleted
func WithDeleted() ListingOption {
	return func(l *models.Listing) {
		ts := time.Now().UTC()
		l.DeletedAt = &ts
	}
}

// InsertListing stores a listing owned by userID near Napa
func InsertListing(t testing.TB, db *sql.DB, userID string, opts ...ListingOption) *models.Listing {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	zip := "94559"
	l := &models.Listing{
		Name:      "Fig",
		Type:      "fig",
		Status:    models.StatusAvailable,
		Address:   gofakeit.Street(),
		City:      "Napa",
		State:     "CA",
		Zip:       &zip,
		Lat:       Napa.Lat,
		Lng:       Napa.Lng,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.H3Index == "" {
		cell, err := spatial.PointToCell(spatial.GeoPoint{Lat: l.Lat, Lng: l.Lng}, spatial.Storage)
		require.NoError(t, err)
		l.H3Index = cell.String()
	}

	var deletedAt any
	if l.DeletedAt != nil {
		deletedAt = l.DeletedAt.Unix()
	}

	result, err := db.Exec(
		`INSERT INTO listings (name, type, status, address, city, state, zip, lat, lng, h3_index, user_id, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Name, l.Type, l.Status, l.Address, l.City, l.State, l.Zip, l.Lat, l.Lng, l.H3Index,
		l.UserID, deletedAt, l.CreatedAt.Unix(), l.UpdatedAt.Unix(),
	)
	require.NoError(t, err)

	l.ID, err = result.LastInsertId()
	require.NoError(t, err)
	return l
}
