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

// AttemptHandler serves the stateless attempt endpoints. Clients that want
// the countdown and per-question feedback use the WebSocket stream instead.
type AttemptHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, log zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "attempt_handler").Logger(),
	}
}

// StartExam godoc
// GET /api/v1/student/exams/:exam_id
// Opens an exam and starts the clock of a timed one. A submitted exam
// returns the completed view without questions.
func (h *AttemptHandler) StartExam(c *gin.Context) {
	examID, ok := paramID(c, "exam_id")
	if !ok {
		return
	}

	view, err := h.attemptService.StartExam(c.Request.Context(), middleware.GetUser(c), examID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// SubmitExam godoc
// POST /api/v1/student/exams/:exam_id/submit
// Scores a complete set of answers. A second submission gets 409, a timed
// exam past its deadline 403.
func (h *AttemptHandler) SubmitExam(c *gin.Context) {
	examID, ok := paramID(c, "exam_id")
	if !ok {
		return
	}

	var req model.SubmitAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.attemptService.SubmitExamAnswers(c.Request.Context(), middleware.GetUser(c), examID, req.Answers)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	// The score stays hidden until results are published.
	response.Success(c, http.StatusCreated, gin.H{
		"result_id":       res.ID,
		"total_questions": res.TotalQuestions,
		"submitted_at":    res.SubmittedAt,
	})
}

// UploadAnswer godoc
// POST /api/v1/student/exams/:exam_id/upload
// Stores the answer sheet PDF of a file exam.
func (h *AttemptHandler) UploadAnswer(c *gin.Context) {
	examID, ok := paramID(c, "exam_id")
	if !ok {
		return
	}

	file, closeFile, ok := upload(c, "file")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer closeFile()

	res, err := h.attemptService.SubmitFile(c.Request.Context(), middleware.GetUser(c), examID, file.Filename, file.Reader)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"result": res})
}

// StartPractice godoc
// GET /api/v1/student/practice/:practice_id
func (h *AttemptHandler) StartPractice(c *gin.Context) {
	practiceID, ok := paramID(c, "practice_id")
	if !ok {
		return
	}

	view, err := h.attemptService.StartPractice(c.Request.Context(), middleware.GetUser(c), practiceID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// SubmitPractice godoc
// POST /api/v1/student/practice/:practice_id/submit
// Records a practice attempt. Retakes are always accepted.
func (h *AttemptHandler) SubmitPractice(c *gin.Context) {
	practiceID, ok := paramID(c, "practice_id")
	if !ok {
		return
	}

	var req model.SubmitAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pr, err := h.attemptService.SubmitPracticeAnswers(c.Request.Context(), middleware.GetUser(c), practiceID, req.Answers)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"result": service.PracticeResultOf(*pr)})
}
