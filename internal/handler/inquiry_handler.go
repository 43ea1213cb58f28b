package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/middleware"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/service"
	"github.com/pickmyfruit/pickmyfruit-backend/pkg/response"
)

// InquiryHandler handles HTTP requests for inquiries
type InquiryHandler struct {
	service *service.InquiryService
	baseURL string
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(service *service.InquiryService, baseURL string) *InquiryHandler {
	return &InquiryHandler{service: service, baseURL: strings.TrimRight(baseURL, "/")}
}

// Create handles POST /api/inquiries
func (h *InquiryHandler) Create(c *gin.Context) {
	var form models.InquiryForm
	if !bindJSON(c, &form) {
		return
	}

	result, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), form, h.baseURL)
	if err != nil {
		serviceError(c, err, "Failed to create inquiry")
		return
	}

	response.Created(c, result)
}
