package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/database"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
)

// SessionRepository handles sessions and pending magic-link verifications
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a session
func (r *SessionRepository) CreateSession(ctx context.Context, s *models.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, ip_address, user_agent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.ExpiresAt.Unix(), s.IPAddress, s.UserAgent, s.CreatedAt.Unix(), s.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID. Returns nil when missing.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	var ip, ua sql.NullString
	var expiresAt, createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, ip_address, user_agent, created_at, updated_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.UserID, &expiresAt, &ip, &ua, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	s.IPAddress = ip.String
	s.UserAgent = ua.String
	s.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	s.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &s, nil
}

// DeleteSession removes a session
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions and verifications that expired before now
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		for _, table := range []string{"sessions", "verifications"} {
			result, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE expires_at <= ?`, now.Unix())
			if err != nil {
				return fmt.Errorf("failed to delete expired %s: %w", table, err)
			}
			n, _ := result.RowsAffected()
			total += n
		}
		return nil
	})
	return total, err
}

// CreateVerification stores a pending magic-link token
func (r *SessionRepository) CreateVerification(ctx context.Context, v *models.Verification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verifications (id, identifier, value, name, callback, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Identifier, v.Value, v.Name, v.Callback, v.ExpiresAt.Unix(), v.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert verification: %w", err)
	}
	return nil
}

// ConsumeVerification deletes the verification holding token and returns it.
// Returns nil when no such token exists; expiry is left to the caller.
func (r *SessionRepository) ConsumeVerification(ctx context.Context, token string) (*models.Verification, error) {
	var found *models.Verification

	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		var v models.Verification
		var expiresAt, createdAt int64
		err := tx.QueryRowContext(ctx,
			`SELECT id, identifier, value, name, callback, expires_at, created_at FROM verifications WHERE value = ?`,
			token,
		).Scan(&v.ID, &v.Identifier, &v.Value, &v.Name, &v.Callback, &expiresAt, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get verification: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM verifications WHERE id = ?`, v.ID); err != nil {
			return fmt.Errorf("failed to delete verification: %w", err)
		}

		v.ExpiresAt = time.Unix(expiresAt, 0).UTC()
		v.CreatedAt = time.Unix(createdAt, 0).UTC()
		found = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
