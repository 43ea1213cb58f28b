package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
)

// InquiryRepository handles database operations for inquiries
type InquiryRepository struct {
	db *sql.DB
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// Create inserts an inquiry and sets its ID
func (r *InquiryRepository) Create(ctx context.Context, inq *models.Inquiry) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO inquiries (listing_id, gleaner_id, note, created_at) VALUES (?, ?, ?, ?)`,
		inq.ListingID, inq.GleanerID, inq.Note, inq.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert inquiry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inquiry id: %w", err)
	}
	inq.ID = id
	return nil
}

// MarkEmailSent stamps email_sent_at
func (r *InquiryRepository) MarkEmailSent(ctx context.Context, id int64, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE inquiries SET email_sent_at = ? WHERE id = ?`, now.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark inquiry email sent: %w", err)
	}
	return nil
}

// HasRecent reports whether the gleaner asked about the listing after since
func (r *InquiryRepository) HasRecent(ctx context.Context, gleanerID string, listingID int64, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM inquiries WHERE gleaner_id = ? AND listing_id = ? AND created_at > ?
		)`,
		gleanerID, listingID, since.Unix(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recent inquiries: %w", err)
	}
	return exists, nil
}

// GetByID retrieves an inquiry. Returns nil when missing.
func (r *InquiryRepository) GetByID(ctx context.Context, id int64) (*models.Inquiry, error) {
	var inq models.Inquiry
	var sentAt sql.NullInt64
	var createdAt int64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, listing_id, gleaner_id, note, email_sent_at, created_at FROM inquiries WHERE id = ?`, id,
	).Scan(&inq.ID, &inq.ListingID, &inq.GleanerID, &inq.Note, &sentAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	if sentAt.Valid {
		t := time.Unix(sentAt.Int64, 0).UTC()
		inq.EmailSentAt = &t
	}
	inq.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &inq, nil
}
