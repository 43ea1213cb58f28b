package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/email"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/logging"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/repository"
)

// AuthConfig holds the secrets and lifetimes used by AuthService
type AuthConfig struct {
	SessionSecret string
	MagicLinkTTL  time.Duration
	SessionTTL    time.Duration
}

// AuthService signs users in with emailed magic links
type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	sender   email.Sender
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users *repository.UserRepository, sessions *repository.SessionRepository, sender email.Sender, cfg AuthConfig) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		sender:   sender,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SignIn is the outcome of a verified magic link
type SignIn struct {
	Token     string // session JWT for the cookie
	ExpiresAt time.Time
	User      *models.User
	Callback  string
}

// RequestMagicLink stores a single-use token and emails the sign-in link
func (s *AuthService) RequestMagicLink(ctx context.Context, req models.MagicLinkRequest, baseURL string) error {
	addr := strings.ToLower(strings.TrimSpace(req.Email))
	now := s.now().UTC()

	v := &models.Verification{
		ID:         uuid.NewString(),
		Identifier: addr,
		Value:      uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Callback:   SafeCallback(req.CallbackURL),
		ExpiresAt:  now.Add(s.cfg.MagicLinkTTL),
		CreatedAt:  now,
	}
	if err := s.sessions.CreateVerification(ctx, v); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/auth/magic-link/verify?token=%s",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(v.Value))

	msg, err := email.MagicLinkMessage(email.MagicLinkData{
		Email:   addr,
		Name:    v.Name,
		URL:     link,
		Minutes: int(s.cfg.MagicLinkTTL.Minutes()),
	})
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send magic link: %w", err)
	}

	logging.FromContext(ctx).Info("magic link sent", "email", addr)
	return nil
}

// VerifyMagicLink consumes token, creating the user on first sign in, and
// opens a session
func (s *AuthService) VerifyMagicLink(ctx context.Context, token, ipAddress, userAgent string) (*SignIn, error) {
	v, err := s.sessions.ConsumeVerification(ctx, token)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if v == nil || !now.Before(v.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.findOrCreateUser(ctx, v, now)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	jwtToken, err := GenerateSessionJWT([]byte(s.cfg.SessionSecret), session.ID, user.ID, now, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &SignIn{Token: jwtToken, ExpiresAt: session.ExpiresAt, User: user, Callback: v.Callback}, nil
}

func (s *AuthService) findOrCreateUser(ctx context.Context, v *models.Verification, now time.Time) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, v.Identifier)
	if err != nil {
		return nil, err
	}

	if user != nil {
		if !user.EmailVerified {
			if err := s.users.MarkEmailVerified(ctx, user.ID, now); err != nil {
				return nil, err
			}
			user.EmailVerified = true
		}
		return user, nil
	}

	name := v.Name
	if name == "" {
		name = strings.SplitN(v.Identifier, "@", 2)[0]
	}
	user = &models.User{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         v.Identifier,
		EmailVerified: true,
		CreatedAt:     now.Truncate(time.Second),
		UpdatedAt:     now.Truncate(time.Second),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("user created", "userId", user.ID)
	return user, nil
}

// Authenticate resolves a session JWT to a live session and its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error) {
	now := s.now()
	claims, err := ValidateSessionJWT([]byte(s.cfg.SessionSecret), token, now)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	session, err := s.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil || session.Expired(now) || session.UserID != claims.Subject {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidToken
	}
	return user, session, nil
}

// SignOut ends the session behind token. Unknown tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := ValidateSessionJWT([]byte(s.cfg.SessionSecret), token, s.now())
	if err != nil {
		return nil
	}
	return s.sessions.DeleteSession(ctx, claims.SessionID)
}

// PurgeExpired removes stale sessions and magic-link tokens
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

// SafeCallback keeps only same-site absolute paths, defaulting to "/"
func SafeCallback(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return raw
}
