package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
)

// DashboardHandler handles the admin dashboard and the contact inbox.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	contactService   *service.ContactService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, contactService *service.ContactService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		contactService:   contactService,
		log:              log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// GetDashboardData godoc
// GET /api/v1/admin/dashboard
// Returns the summary counters.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	data, err := h.dashboardService.GetDashboardData(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}

// ListMessages godoc
// GET /api/v1/admin/messages
func (h *DashboardHandler) ListMessages(c *gin.Context) {
	page, perPage := pageQuery(c)

	messages, pagination, err := h.contactService.List(c.Request.Context(), page, perPage)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"messages": messages}, pagination)
}

// ToggleMessageRead godoc
// POST /api/v1/admin/messages/:id/toggle-read
func (h *DashboardHandler) ToggleMessageRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	read, err := h.contactService.ToggleRead(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "read": read})
}

// DeleteMessage godoc
// DELETE /api/v1/admin/messages/:id
func (h *DashboardHandler) DeleteMessage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "message deleted"})
}
