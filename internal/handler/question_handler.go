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

// QuestionHandler handles question management for exams and practice sets.
type QuestionHandler struct {
	questionService *service.QuestionService
	log             zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		log:             log.With().Str("component", "question_handler").Logger(),
	}
}

// ListQuestions godoc
// GET /api/v1/admin/exams/:id/questions
// GET /api/v1/admin/practice/:id/questions
// Lists the questions of the parent, oldest first.
func (h *QuestionHandler) ListQuestions(parent model.QuestionParent) gin.HandlerFunc {
	return func(c *gin.Context) {
		parentID, ok := paramID(c, "id")
		if !ok {
			return
		}

		questions, err := h.questionService.List(c.Request.Context(), parent, parentID)
		if err != nil {
			failWith(c, h.log, err)
			return
		}

		if questions == nil {
			questions = []model.Question{}
		}

		response.Success(c, http.StatusOK, gin.H{"questions": questions})
	}
}

// AddQuestion godoc
// POST /api/v1/admin/exams/:id/questions
// POST /api/v1/admin/practice/:id/questions
func (h *QuestionHandler) AddQuestion(parent model.QuestionParent) gin.HandlerFunc {
	return func(c *gin.Context) {
		parentID, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req model.QuestionRequest
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}

		q, err := h.questionService.Create(c.Request.Context(), parent, parentID, req)
		if err != nil {
			failWith(c, h.log, err)
			return
		}
		response.Success(c, http.StatusCreated, gin.H{"question": q})
	}
}

// UpdateQuestion godoc
// PUT /api/v1/admin/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.questionService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": q})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "question deleted"})
}
