package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
)

const listingColumns = `l.id, l.name, l.type, l.variety, l.status, l.quantity, l.harvest_window,
	l.address, l.city, l.state, l.zip, l.lat, l.lng, l.h3_index,
	l.user_id, l.notes, l.access_instructions, l.deleted_at, l.created_at, l.updated_at`

// ListingRepository handles database operations for listings
type ListingRepository struct {
	db *sql.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var l models.Listing
	var deletedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(
		&l.ID, &l.Name, &l.Type, &l.Variety, &l.Status, &l.Quantity, &l.HarvestWindow,
		&l.Address, &l.City, &l.State, &l.Zip, &l.Lat, &l.Lng, &l.H3Index,
		&l.UserID, &l.Notes, &l.AccessInstructions, &deletedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		t := time.Unix(deletedAt.Int64, 0).UTC()
		l.DeletedAt = &t
	}
	l.CreatedAt = time.Unix(createdAt, 0).UTC()
	l.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &l, nil
}

func (r *ListingRepository) queryListings(ctx context.Context, query string, args ...any) ([]*models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := make([]*models.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

func (r *ListingRepository) queryListing(ctx context.Context, query string, args ...any) (*models.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// Create inserts a listing and sets its ID
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) error {
	query := `INSERT INTO listings (
		name, type, variety, status, quantity, harvest_window,
		address, city, state, zip, lat, lng, h3_index,
		user_id, notes, access_instructions, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		l.Name, l.Type, l.Variety, l.Status, l.Quantity, l.HarvestWindow,
		l.Address, l.City, l.State, l.Zip, l.Lat, l.Lng, l.H3Index,
		l.UserID, l.Notes, l.AccessInstructions, l.CreatedAt.Unix(), l.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get listing id: %w", err)
	}
	l.ID = id
	return nil
}

// GetByID retrieves a listing by ID, deleted or not. Returns nil when missing.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	return r.queryListing(ctx, `SELECT `+listingColumns+` FROM listings l WHERE l.id = ?`, id)
}

// GetVisible retrieves a non-deleted, non-private listing
func (r *ListingRepository) GetVisible(ctx context.Context, id int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l
		WHERE l.id = ? AND l.deleted_at IS NULL AND l.status != ?`
	return r.queryListing(ctx, query, id, models.StatusPrivate)
}

// ListAvailable retrieves the newest available listings
func (r *ListingRepository) ListAvailable(ctx context.Context, limit int) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l
		WHERE l.status = ? AND l.deleted_at IS NULL
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ?`
	return r.queryListings(ctx, query, models.StatusAvailable, limit)
}

// ListByUser retrieves a user's non-deleted listings, newest first
func (r *ListingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l
		WHERE l.user_id = ? AND l.deleted_at IS NULL
		ORDER BY l.created_at DESC, l.id DESC`
	return r.queryListings(ctx, query, userID)
}

// GetWithOwner retrieves a non-deleted listing joined with its owner
func (r *ListingRepository) GetWithOwner(ctx context.Context, id int64) (*models.ListingWithOwner, error) {
	query := `SELECT ` + listingColumns + `, u.id, u.name, u.email
		FROM listings l
		INNER JOIN users u ON u.id = l.user_id
		WHERE l.id = ? AND l.deleted_at IS NULL`

	var l models.Listing
	var owner models.User
	var deletedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Type, &l.Variety, &l.Status, &l.Quantity, &l.HarvestWindow,
		&l.Address, &l.City, &l.State, &l.Zip, &l.Lat, &l.Lng, &l.H3Index,
		&l.UserID, &l.Notes, &l.AccessInstructions, &deletedAt, &createdAt, &updatedAt,
		&owner.ID, &owner.Name, &owner.Email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing with owner: %w", err)
	}

	l.CreatedAt = time.Unix(createdAt, 0).UTC()
	l.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &models.ListingWithOwner{Listing: &l, Owner: &owner}, nil
}

// UpdateStatus changes the status of a listing owned by userID.
// Reports false when no such listing exists.
func (r *ListingRepository) UpdateStatus(ctx context.Context, id int64, userID, status string, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE listings SET status = ?, updated_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		status, now.Unix(), id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update listing status: %w", err)
	}
	return affected(result)
}

// MarkUnavailable sets a non-deleted listing unavailable regardless of owner
func (r *ListingRepository) MarkUnavailable(ctx context.Context, id int64, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE listings SET status = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		models.StatusUnavailable, now.Unix(), id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark listing unavailable: %w", err)
	}
	return affected(result)
}

// SoftDelete stamps deleted_at on a listing owned by userID
func (r *ListingRepository) SoftDelete(ctx context.Context, id int64, userID string, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE listings SET deleted_at = ?, updated_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now.Unix(), now.Unix(), id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete listing: %w", err)
	}
	return affected(result)
}

// LastAddress returns the address of the user's most recent listing, or nil
func (r *ListingRepository) LastAddress(ctx context.Context, userID string) (*models.ListingAddress, error) {
	query := `SELECT address, city, state, zip FROM listings
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var a models.ListingAddress
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&a.Address, &a.City, &a.State, &a.Zip)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last address: %w", err)
	}
	return &a, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}
