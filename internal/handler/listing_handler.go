package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/middleware"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/service"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/signing"
	"github.com/pickmyfruit/pickmyfruit-backend/pkg/response"
)

// UnavailableRedirect is where a signed unavailable link lands
const UnavailableRedirect = "/listings/mine?marked=unavailable"

// ListingHandler handles HTTP requests for listings
type ListingHandler struct {
	service *service.ListingService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(service *service.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Browse handles GET /api/listings
func (h *ListingHandler) Browse(c *gin.Context) {
	var filter models.ListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	listings, area, err := h.service.Browse(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, err, "Failed to get listings")
		return
	}

	response.Success(c, gin.H{
		"listings": listings,
		"area":     area,
		"total":    len(listings),
	})
}

// Create handles POST /api/listings
func (h *ListingHandler) Create(c *gin.Context) {
	var form models.ListingForm
	if !bindJSON(c, &form) {
		return
	}

	listing, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), form)
	if err != nil {
		serviceError(c, err, "Failed to create listing")
		return
	}

	response.Created(c, listing)
}

// Get handles GET /api/listings/:id. The owner gets full detail; everyone
// else gets the public projection.
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if userID := middleware.CurrentUserID(c); userID != "" {
		owned, err := h.service.GetOwned(c.Request.Context(), id, userID)
		if err == nil {
			response.Success(c, owned)
			return
		}
		if !errors.Is(err, service.ErrNotFound) {
			serviceError(c, err, "Failed to get listing")
			return
		}
	}

	listing, err := h.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err, "Failed to get listing")
		return
	}
	response.Success(c, listing)
}

// Mine handles GET /api/listings/mine
func (h *ListingHandler) Mine(c *gin.Context) {
	listings, err := h.service.Mine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		serviceError(c, err, "Failed to get listings")
		return
	}
	response.Success(c, listings)
}

// LastAddress handles GET /api/listings/last-address
func (h *ListingHandler) LastAddress(c *gin.Context) {
	addr, err := h.service.LastAddress(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		serviceError(c, err, "Failed to get last address")
		return
	}
	response.Success(c, gin.H{"address": addr})
}

// UpdateStatus handles PATCH /api/listings/:id
func (h *ListingHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body models.StatusUpdate
	if !bindJSON(c, &body) {
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, middleware.CurrentUserID(c), body.Status); err != nil {
		serviceError(c, err, "Failed to update listing status")
		return
	}
	response.Success(c, gin.H{"success": true})
}

// Delete handles DELETE /api/listings/:id
func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		serviceError(c, err, "Failed to delete listing")
		return
	}
	response.Success(c, gin.H{"success": true})
}

// MarkUnavailable handles GET /api/listings/:id/unavailable, the signed link
// in inquiry emails
func (h *ListingHandler) MarkUnavailable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var link models.UnavailableLink
	if err := c.ShouldBindQuery(&link); err != nil {
		response.BadRequest(c, "Missing nonce, ts or sig parameter")
		return
	}

	sig := signing.Signature{Nonce: link.Nonce, TS: link.TS, Sig: link.Sig}
	if err := h.service.MarkUnavailable(c.Request.Context(), id, sig); err != nil {
		serviceError(c, err, "Failed to update listing")
		return
	}

	c.Redirect(http.StatusSeeOther, UnavailableRedirect)
}
