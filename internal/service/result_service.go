package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/engine"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
)

// ResultStatus is the visibility state of a result.
type ResultStatus string

const (
	ResultPublished ResultStatus = "published"
	ResultPending   ResultStatus = "pending"
	ResultGraded    ResultStatus = "graded"
	ResultUngraded  ResultStatus = "ungraded"
)

// QuestionReview is one line of a published breakdown.
type QuestionReview struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	Selected      string    `json:"selected,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
	IsCorrect     bool      `json:"is_correct"`
	Explanation   *string   `json:"explanation,omitempty"`
}

// ResultView is a result as its owner may see it. Score fields and the
// breakdown are only set when the result is visible.
type ResultView struct {
	ID          uuid.UUID        `json:"id"`
	ExamID      uuid.UUID        `json:"exam_id"`
	ExamTitle   string           `json:"exam_title"`
	Type        model.ExamType   `json:"type"`
	Status      ResultStatus     `json:"status"`
	SubmittedAt time.Time        `json:"submitted_at"`
	Score       *int             `json:"score,omitempty"`
	Total       *int             `json:"total,omitempty"`
	Percentage  *int             `json:"percentage,omitempty"`
	Passed      *bool            `json:"passed,omitempty"`
	Breakdown   []QuestionReview `json:"breakdown,omitempty"`
	FileURL     *string          `json:"file_url,omitempty"`
	Grade       *string          `json:"grade,omitempty"`
}

// StudentDashboard summarizes a student's exam results.
type StudentDashboard struct {
	Results      []ResultView `json:"results"`
	AverageScore int          `json:"average_score"`
}

// PracticeResultView is a practice result with its read-time percentage.
type PracticeResultView struct {
	model.PracticeResult
	Percentage int  `json:"percentage"`
	Passed     bool `json:"passed"`
}

// AdminResultView is a result with its percentage for the console.
type AdminResultView struct {
	model.Result
	Percentage int              `json:"percentage"`
	Breakdown  []QuestionReview `json:"breakdown,omitempty"`
}

// ResultService decides what a student may see of a result and serves the
// admin grading views.
type ResultService struct {
	results         ResultStore
	practiceResults PracticeResultStore
	exams           ExamStore
	questions       *QuestionService
	log             zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(
	results ResultStore,
	practiceResults PracticeResultStore,
	exams ExamStore,
	questions *QuestionService,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		results:         results,
		practiceResults: practiceResults,
		exams:           exams,
		questions:       questions,
		log:             log.With().Str("component", "result_service").Logger(),
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// visibleStatus decides the status of a result given whether its exam has
// published results.
func visibleStatus(res *model.Result, published bool) ResultStatus {
	if res.Type == model.ExamTypeFile {
		if res.Grade != nil {
			return ResultGraded
		}
		return ResultUngraded
	}
	if published {
		return ResultPublished
	}
	return ResultPending
}

// summarize builds the student view without a breakdown.
func summarize(res *model.Result, status ResultStatus) ResultView {
	v := ResultView{
		ID:          res.ID,
		ExamID:      res.ExamID,
		ExamTitle:   res.ExamTitle,
		Type:        res.Type,
		Status:      status,
		SubmittedAt: res.SubmittedAt,
	}
	switch status {
	case ResultPublished:
		pct := engine.Percentage(res.Score, res.TotalQuestions)
		v.Score = intPtr(res.Score)
		v.Total = intPtr(res.TotalQuestions)
		v.Percentage = intPtr(pct)
		v.Passed = boolPtr(engine.Passed(pct))
	case ResultGraded, ResultUngraded:
		v.FileURL = res.FileURL
		v.Grade = res.Grade
	}
	return v
}

func breakdown(qs []model.Question, answers map[string]string) []QuestionReview {
	out := make([]QuestionReview, len(qs))
	for i, q := range qs {
		sel := answers[q.ID.String()]
		out[i] = QuestionReview{
			QuestionID:    q.ID,
			Text:          q.Text,
			Options:       q.Options,
			Selected:      sel,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     sel != "" && sel == q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}
	return out
}

// GetForStudent returns one of the student's own results. Unpublished
// computer-graded results reveal only their status. File results are
// never gated and stay readable after their exam is deleted.
func (s *ResultService) GetForStudent(ctx context.Context, student *model.User, resultID uuid.UUID) (*ResultView, error) {
	res, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	if res.StudentID != student.ID {
		return nil, ErrNotFound
	}
	if res.Type == model.ExamTypeFile {
		view := summarize(res, visibleStatus(res, false))
		return &view, nil
	}

	exam, err := s.exams.GetByID(ctx, res.ExamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	view := summarize(res, visibleStatus(res, exam.ResultsPublished))
	if view.Status != ResultPublished {
		return &view, nil
	}

	qs, err := s.questions.Load(ctx, model.ParentExam, exam.ID)
	if err != nil {
		return nil, err
	}
	view.Breakdown = breakdown(qs, res.Answers)
	return &view, nil
}

// Dashboard lists the student's results. The average covers only the
// computer-graded results whose exam has published results.
func (s *ResultService) Dashboard(ctx context.Context, student *model.User) (*StudentDashboard, error) {
	rows, err := s.results.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	dash := &StudentDashboard{Results: make([]ResultView, 0, len(rows))}
	sum, n := 0, 0
	for i := range rows {
		published := rows[i].ExamExists && rows[i].ResultsPublished
		v := summarize(&rows[i].Result, visibleStatus(&rows[i].Result, published))
		if v.Percentage != nil {
			sum += *v.Percentage
			n++
		}
		dash.Results = append(dash.Results, v)
	}
	if n > 0 {
		dash.AverageScore = int(math.Round(float64(sum) / float64(n)))
	}
	return dash, nil
}

// PracticeResultOf adds the read-time percentage and pass flag.
func PracticeResultOf(pr model.PracticeResult) PracticeResultView {
	pct := engine.Percentage(pr.Score, pr.TotalQuestions)
	return PracticeResultView{PracticeResult: pr, Percentage: pct, Passed: engine.Passed(pct)}
}

// ListPracticeResults returns the student's practice history.
func (s *ResultService) ListPracticeResults(ctx context.Context, studentID uuid.UUID) ([]PracticeResultView, error) {
	items, err := s.practiceResults.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list practice results: %w", err)
	}
	out := make([]PracticeResultView, len(items))
	for i, pr := range items {
		out[i] = PracticeResultOf(pr)
	}
	return out, nil
}

// ListAll returns exam results for the console, newest first.
func (s *ResultService) ListAll(ctx context.Context, examID *uuid.UUID, page, perPage int) ([]AdminResultView, *response.Pagination, error) {
	pagination, limit, offset := response.NewPagination(page, perPage)
	items, total, err := s.results.ListPaginated(ctx, examID, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]AdminResultView, len(items))
	for i, r := range items {
		out[i] = AdminResultView{Result: r, Percentage: engine.Percentage(r.Score, r.TotalQuestions)}
	}
	return out, pagination.SetTotal(total), nil
}

// ListAllPractice returns practice results for the console.
func (s *ResultService) ListAllPractice(ctx context.Context, page, perPage int) ([]PracticeResultView, *response.Pagination, error) {
	pagination, limit, offset := response.NewPagination(page, perPage)
	items, total, err := s.practiceResults.ListPaginated(ctx, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("list practice results: %w", err)
	}
	out := make([]PracticeResultView, len(items))
	for i, pr := range items {
		out[i] = PracticeResultOf(pr)
	}
	return out, pagination.SetTotal(total), nil
}

// Get returns any result with its full breakdown, ignoring publication.
func (s *ResultService) Get(ctx context.Context, id uuid.UUID) (*AdminResultView, error) {
	res, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	view := &AdminResultView{Result: *res, Percentage: engine.Percentage(res.Score, res.TotalQuestions)}
	if res.Type == model.ExamTypeMCQ {
		qs, err := s.questions.questions.ListByParent(ctx, model.ParentExam, res.ExamID)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		view.Breakdown = breakdown(qs, res.Answers)
	}
	return view, nil
}

// Grade writes the manual grade of a file exam result.
func (s *ResultService) Grade(ctx context.Context, id uuid.UUID, grade string) (*model.Result, error) {
	res, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	if res.Type != model.ExamTypeFile {
		return nil, ErrResultNotGradable
	}

	grade = strings.TrimSpace(grade)
	if grade == "" {
		return nil, ErrEmptyGrade
	}
	if err := s.results.SetGrade(ctx, id, grade); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set grade: %w", err)
	}
	res.Grade = &grade

	s.log.Info().Str("result_id", id.String()).Msg("File result graded")
	return res, nil
}
