package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/middleware"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/service"
	"github.com/pickmyfruit/pickmyfruit-backend/pkg/response"
)

// InvalidTokenRedirect is where an unusable magic link lands
const InvalidTokenRedirect = "/login?error=invalid_token"

// AuthHandler handles magic-link sign in and sessions
type AuthHandler struct {
	service *service.AuthService
	baseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.AuthService, baseURL string) *AuthHandler {
	return &AuthHandler{service: service, baseURL: strings.TrimRight(baseURL, "/")}
}

// RequestMagicLink handles POST /api/auth/magic-link
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req models.MagicLinkRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.RequestMagicLink(c.Request.Context(), req, h.baseURL); err != nil {
		serviceError(c, err, "Failed to send sign-in email")
		return
	}
	response.Success(c, gin.H{"status": true})
}

// VerifyMagicLink handles GET /api/auth/magic-link/verify, sets the session
// cookie and redirects to the page the user started from
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, InvalidTokenRedirect)
		return
	}

	signIn, err := h.service.VerifyMagicLink(c.Request.Context(), token, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			serviceError(c, err, "Failed to sign in")
			return
		}
		c.Redirect(http.StatusFound, InvalidTokenRedirect)
		return
	}

	maxAge := int(time.Until(signIn.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, signIn.Token, maxAge, "/", "", isSecure(c), true)
	c.Redirect(http.StatusFound, signIn.Callback)
}

// Session handles GET /api/auth/session. Anonymous callers get a null user.
func (h *AuthHandler) Session(c *gin.Context) {
	response.Success(c, gin.H{"user": middleware.CurrentUser(c)})
}

// SignOut handles POST /api/auth/sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		if err := h.service.SignOut(c.Request.Context(), token); err != nil {
			serviceError(c, err, "Failed to sign out")
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", isSecure(c), true)
	response.Success(c, gin.H{"success": true})
}
