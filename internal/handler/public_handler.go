package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/grade"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
	"github.com/farisarabic/faris-backend/internal/validator"
)

// PublicHandler serves endpoints that need no sign-in.
type PublicHandler struct {
	contactService *service.ContactService
	log            zerolog.Logger
}

func NewPublicHandler(contactService *service.ContactService, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		contactService: contactService,
		log:            log.With().Str("component", "public_handler").Logger(),
	}
}

// ListGrades godoc
// GET /api/v1/public/grades
// Returns the grade taxonomy in display order.
func (h *PublicHandler) ListGrades(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"grades": grade.All()})
}

// SubmitContact godoc
// POST /api/v1/public/contact
func (h *PublicHandler) SubmitContact(c *gin.Context) {
	var req model.ContactMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	msg, err := h.contactService.Submit(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}
