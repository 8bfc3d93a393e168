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

// MediaHandler handles the library PDFs and the video explanations.
type MediaHandler struct {
	contentService *service.ContentService
	log            zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(contentService *service.ContentService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		contentService: contentService,
		log:            log.With().Str("component", "media_handler").Logger(),
	}
}

// ListLibrary godoc
// GET /api/v1/admin/library
func (h *MediaHandler) ListLibrary(c *gin.Context) {
	files, err := h.contentService.ListLibrary(c.Request.Context(), c.Query("grade"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"files": files})
}

// UploadLibraryFile godoc
// POST /api/v1/admin/library
// Multipart form: title, description, grade and a PDF under "file".
func (h *MediaHandler) UploadLibraryFile(c *gin.Context) {
	var req model.LibraryFileRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	file, closeFile, ok := upload(c, "file")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer closeFile()

	f, err := h.contentService.CreateLibraryFile(c.Request.Context(), req, file)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"file": f})
}

// DeleteLibraryFile godoc
// DELETE /api/v1/admin/library/:id
func (h *MediaHandler) DeleteLibraryFile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteLibraryFile(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "file deleted"})
}

// ListExplanations godoc
// GET /api/v1/admin/explanations
func (h *MediaHandler) ListExplanations(c *gin.Context) {
	items, err := h.contentService.ListExplanations(c.Request.Context(), c.Query("grade"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"explanations": items})
}

// CreateExplanation godoc
// POST /api/v1/admin/explanations
func (h *MediaHandler) CreateExplanation(c *gin.Context) {
	var req model.ExplanationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.contentService.CreateExplanation(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"explanation": e})
}

// DeleteExplanation godoc
// DELETE /api/v1/admin/explanations/:id
func (h *MediaHandler) DeleteExplanation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteExplanation(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "explanation deleted"})
}
