package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/middleware"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
	"github.com/farisarabic/faris-backend/internal/validator"
)

// StudentPortalHandler handles the read side of the student area: the
// grade catalog, own results and the tutor.
type StudentPortalHandler struct {
	catalogService *service.CatalogService
	resultService  *service.ResultService
	tutorService   *service.TutorService
	log            zerolog.Logger
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	catalogService *service.CatalogService,
	resultService *service.ResultService,
	tutorService *service.TutorService,
	log zerolog.Logger,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		catalogService: catalogService,
		resultService:  resultService,
		tutorService:   tutorService,
		log:            log.With().Str("component", "student_portal_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/v1/student/exams
// Returns the exams of the student's grade with a per-exam status.
func (h *StudentPortalHandler) ListExams(c *gin.Context) {
	exams, err := h.catalogService.ListExams(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// ListPractice godoc
// GET /api/v1/student/practice
func (h *StudentPortalHandler) ListPractice(c *gin.Context) {
	items, err := h.catalogService.ListPractice(c.Request.Context(), middleware.GetUser(c).Grade)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"practice": items})
}

// ListLibrary godoc
// GET /api/v1/student/library
func (h *StudentPortalHandler) ListLibrary(c *gin.Context) {
	files, err := h.catalogService.ListLibrary(c.Request.Context(), middleware.GetUser(c).Grade)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"files": files})
}

// ListExplanations godoc
// GET /api/v1/student/explanations
func (h *StudentPortalHandler) ListExplanations(c *gin.Context) {
	items, err := h.catalogService.ListExplanations(c.Request.Context(), middleware.GetUser(c).Grade)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"explanations": items})
}

// GetDashboard godoc
// GET /api/v1/student/dashboard
// Returns the student's results and the average of the visible scores.
func (h *StudentPortalHandler) GetDashboard(c *gin.Context) {
	dash, err := h.resultService.Dashboard(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, dash)
}

// GetResult godoc
// GET /api/v1/student/results/:result_id
// Pending results carry no score and no breakdown.
func (h *StudentPortalHandler) GetResult(c *gin.Context) {
	resultID, ok := paramID(c, "result_id")
	if !ok {
		return
	}

	view, err := h.resultService.GetForStudent(c.Request.Context(), middleware.GetUser(c), resultID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": view})
}

// ListPracticeResults godoc
// GET /api/v1/student/practice-results
func (h *StudentPortalHandler) ListPracticeResults(c *gin.Context) {
	items, err := h.resultService.ListPracticeResults(c.Request.Context(), middleware.GetUser(c).ID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": items})
}

// AskTutor godoc
// POST /api/v1/student/tutor
// Sends the transcript to the tutor. Provider failures come back as the
// fixed fallback reply, never as an error status.
func (h *StudentPortalHandler) AskTutor(c *gin.Context) {
	var req model.TutorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	response.Success(c, http.StatusOK, h.tutorService.Ask(c.Request.Context(), req))
}
