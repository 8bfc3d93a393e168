package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
	"github.com/farisarabic/faris-backend/internal/validator"
)

// ExamHandler handles exam management endpoints.
type ExamHandler struct {
	examService *service.ExamService
	log         zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		log:         log.With().Str("component", "exam_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/v1/admin/exams
// Lists exams with pagination, optionally filtered by ?grade=.
func (h *ExamHandler) ListExams(c *gin.Context) {
	page, perPage := pageQuery(c)

	exams, pagination, err := h.examService.List(c.Request.Context(), c.Query("grade"), page, perPage)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"exams": exams}, pagination)
}

// GetExam godoc
// GET /api/v1/admin/exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	exam, err := h.examService.Get(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// CreateExam godoc
// POST /api/v1/admin/exams
// A JSON body creates a multiple-choice exam. A multipart form with
// type=file and a PDF under "file" creates a file-upload exam.
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var (
		draft model.ExamDraft
		file  *service.Upload
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var req model.FileExamDraft
		if fields := validator.BindForm(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
		f, closeFile, ok := upload(c, "file")
		if !ok {
			response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
			return
		}
		defer closeFile()
		draft, file = req, f
	} else {
		var req model.MCQExamDraft
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
		draft = req
	}

	exam, err := h.examService.Create(c.Request.Context(), draft, file)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// UpdateExam godoc
// PUT /api/v1/admin/exams/:id
// File exams cannot be edited.
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// PublishResults godoc
// POST /api/v1/admin/exams/:id/publish-results
// Makes scores visible to students. There is no unpublish.
func (h *ExamHandler) PublishResults(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.examService.PublishResults(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "results published"})
}

// DeleteExam godoc
// DELETE /api/v1/admin/exams/:id
// Student results of the exam are kept.
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "exam deleted"})
}
