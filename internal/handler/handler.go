package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/service"
	"github.com/pickmyfruit/pickmyfruit-backend/pkg/response"
)

func isSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "Invalid listing ID")
		return 0, false
	}
	return id, true
}

// bindJSON binds the body into obj, answering 400 on failure
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if fields, ok := FieldErrors(err); ok {
			response.ValidationFailed(c, fields)
		} else {
			response.BadRequest(c, "Invalid JSON body")
		}
		return false
	}
	return true
}

// serviceError maps a service error onto a response; fallback is the
// message for unexpected failures
func serviceError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "Listing not found")
	case errors.Is(err, service.ErrNotAllowed):
		response.Forbidden(c, strings.TrimPrefix(err.Error(), service.ErrNotAllowed.Error()+": "))
	case errors.Is(err, service.ErrRateLimited):
		response.TooManyRequests(c, err.Error())
	case errors.Is(err, service.ErrInvalidSignature):
		response.Forbidden(c, "Invalid signature")
	case errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(c, "Invalid or expired token")
	case errors.Is(err, service.ErrAddressNotFound):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrGeocoderDown):
		response.Error(c, http.StatusBadGateway, service.ErrGeocoderDown.Error(), err)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, err)
	}
}
