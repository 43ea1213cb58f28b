package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/middleware"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/service"
	"github.com/pickmyfruit/pickmyfruit-backend/pkg/response"
)

// MapHandler serves the clustered map and area outlines
type MapHandler struct {
	service *service.MapService
}

// NewMapHandler creates a new map handler
func NewMapHandler(service *service.MapService) *MapHandler {
	return &MapHandler{service: service}
}

// Groups handles GET /api/map/groups
func (h *MapHandler) Groups(c *gin.Context) {
	var filter models.MapGroupFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		// an unreadable zoom falls back to the default grouping
		filter = models.MapGroupFilter{
			Area:   c.Query("area"),
			BBox:   c.Query("bbox"),
			Format: c.Query("format"),
		}
	}

	result, err := h.service.Groups(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, err, "Failed to get map groups")
		return
	}

	if filter.Format == "geojson" {
		response.Success(c, service.GroupsGeoJSON(result))
		return
	}
	response.Success(c, result)
}

// Area handles GET /api/map/area
func (h *MapHandler) Area(c *gin.Context) {
	response.Success(c, h.service.AreaOutline(c.Query("area")))
}

// ListingArea handles GET /api/listings/:id/area
func (h *MapHandler) ListingArea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fc, err := h.service.ListingArea(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		serviceError(c, err, "Failed to get listing area")
		return
	}
	response.Success(c, fc)
}
