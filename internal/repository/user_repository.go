package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT id, name, email, email_verified, phone, created_at, updated_at FROM users WHERE ` + where

	var u models.User
	var createdAt, updatedAt int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.Phone, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	u.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &u, nil
}

// GetByID retrieves a user by ID. Returns nil when missing.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email address. Returns nil when missing.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = ? COLLATE NOCASE", email)
}

// Create inserts a user
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, email_verified, phone, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.EmailVerified, u.Phone, u.CreatedAt.Unix(), u.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// MarkEmailVerified flags the user's email as verified
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`,
		now.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to verify user email: %w", err)
	}
	return nil
}

// UpdateName sets the user's display name
func (r *UserRepository) UpdateName(ctx context.Context, id, name string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`,
		name, now.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user name: %w", err)
	}
	return nil
}

// UpdatePhone sets the user's contact phone
func (r *UserRepository) UpdatePhone(ctx context.Context, id, phone string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone = ?, updated_at = ? WHERE id = ?`,
		phone, now.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user phone: %w", err)
	}
	return nil
}
