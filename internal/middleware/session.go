package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/logging"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/pkg/response"
)

// SessionCookie is the name of the cookie holding the session JWT
const SessionCookie = "pmf_session"

const (
	userKey    = "user"
	sessionKey = "session"
)

// Authenticator resolves a session token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error)
}

// Session loads the signed-in user, if any. A missing or bad token leaves the
// request anonymous.
func Session(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			logging.FromContext(c.Request.Context()).Debug("ignoring session", "error", err)
			c.Next()
			return
		}

		c.Set(userKey, user)
		c.Set(sessionKey, session)
		logger := logging.FromContext(c.Request.Context()).With("userId", user.ID)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))
		c.Next()
	}
}

// SessionToken reads the session JWT from the cookie or a bearer header
func SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Unauthorized(c, "Authentication required")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the signed-in user or nil
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentUserID returns the signed-in user's id, or "" when anonymous
func CurrentUserID(c *gin.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}
