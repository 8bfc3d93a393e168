package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
	"github.com/farisarabic/faris-backend/internal/validator"
)

type PracticeHandler struct {
	practiceService *service.PracticeService
	log             zerolog.Logger
}

func NewPracticeHandler(practiceService *service.PracticeService, log zerolog.Logger) *PracticeHandler {
	return &PracticeHandler{
		practiceService: practiceService,
		log:             log.With().Str("component", "practice_handler").Logger(),
	}
}

// GetAll godoc
// GET /api/v1/admin/practice
func (h *PracticeHandler) GetAll(c *gin.Context) {
	items, err := h.practiceService.List(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"practice": items})
}

// Get godoc
// GET /api/v1/admin/practice/:id
func (h *PracticeHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.practiceService.Get(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"practice": p})
}

// Create godoc
// POST /api/v1/admin/practice
func (h *PracticeHandler) Create(c *gin.Context) {
	var req model.PracticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.practiceService.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"practice": p})
}

// Update godoc
// PUT /api/v1/admin/practice/:id
func (h *PracticeHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.PracticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.practiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"practice": p})
}

// Delete godoc
// DELETE /api/v1/admin/practice/:id
func (h *PracticeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.practiceService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "practice deleted"})
}
