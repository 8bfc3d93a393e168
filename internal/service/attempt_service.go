package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/config"
	"github.com/farisarabic/faris-backend/internal/engine"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/repository"
	"github.com/farisarabic/faris-backend/internal/storage"
)

// AttemptStatus tells the client which screen an attempt opens on.
type AttemptStatus string

const (
	AttemptCompleted AttemptStatus = "completed"
	AttemptReady     AttemptStatus = "ready"
	AttemptUpload    AttemptStatus = "upload"
	AttemptEmpty     AttemptStatus = "empty"
)

// ExamView is what a student receives when opening an exam.
type ExamView struct {
	Status          AttemptStatus              `json:"status"`
	Exam            *model.Exam                `json:"exam"`
	ResultID        *uuid.UUID                 `json:"result_id,omitempty"`
	SubmittedAt     *time.Time                 `json:"submitted_at,omitempty"`
	AnswerFileURL   *string                    `json:"answer_file_url,omitempty"`
	Questions       []model.QuestionForStudent `json:"questions,omitempty"`
	DurationSeconds int                        `json:"duration_seconds,omitempty"`
	DeadlineAt      *time.Time                 `json:"deadline_at,omitempty"`
}

// submitGrace absorbs network latency between a client's own countdown
// reaching zero and its submission arriving.
const submitGrace = 30 * time.Second

// PracticeView is what a student receives when opening a practice set.
// Questions carry their answers since practice grades on the client too.
type PracticeView struct {
	Status    AttemptStatus    `json:"status"`
	Practice  *model.Practice  `json:"practice"`
	Questions []model.Question `json:"questions"`
}

// ExamAttempt is a loaded exam ready to be driven by a session. When the
// student already has a result, Completed is set and Questions is empty.
type ExamAttempt struct {
	Exam      *model.Exam
	Questions []model.Question
	Completed *model.Result
}

// AttemptService opens attempts and turns finished ones into results. It
// is the only writer of results and practice results.
type AttemptService struct {
	catalog         *CatalogService
	questions       *QuestionService
	results         ResultStore
	practiceResults PracticeResultStore
	blobs           storage.BlobStore
	rdb             *redis.Client
	maxUpload       int64
	now             func() time.Time
	log             zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	catalog *CatalogService,
	questions *QuestionService,
	results ResultStore,
	practiceResults PracticeResultStore,
	blobs storage.BlobStore,
	rdb *redis.Client,
	maxUpload int64,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		catalog:         catalog,
		questions:       questions,
		results:         results,
		practiceResults: practiceResults,
		blobs:           blobs,
		rdb:             rdb,
		maxUpload:       maxUpload,
		now:             time.Now,
		log:             log.With().Str("component", "attempt_service").Logger(),
	}
}

// EngineQuestions converts stored questions for the attempt engine.
func EngineQuestions(qs []model.Question) []engine.Question {
	out := make([]engine.Question, len(qs))
	for i, q := range qs {
		out[i] = engine.Question{ID: q.ID.String(), Options: q.Options, CorrectAnswer: q.CorrectAnswer}
	}
	return out
}

func forStudent(qs []model.Question) []model.QuestionForStudent {
	out := make([]model.QuestionForStudent, len(qs))
	for i, q := range qs {
		out[i] = model.QuestionForStudent{ID: q.ID, Text: q.Text, Options: q.Options}
	}
	return out
}

// existingResult returns the student's result for the exam, or nil.
func (s *AttemptService) existingResult(ctx context.Context, studentID, examID uuid.UUID) (*model.Result, error) {
	res, err := s.results.FindByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("check existing result: %w", err)
	}
	return res, nil
}

// PrepareExam loads an exam for the student. Questions are only loaded for
// computer-graded exams without an existing result.
func (s *AttemptService) PrepareExam(ctx context.Context, student *model.User, examID uuid.UUID) (*ExamAttempt, error) {
	exam, err := s.catalog.GetExam(ctx, student.Grade, examID)
	if err != nil {
		return nil, err
	}

	done, err := s.existingResult(ctx, student.ID, exam.ID)
	if err != nil {
		return nil, err
	}
	if done != nil {
		return &ExamAttempt{Exam: exam, Completed: done}, nil
	}
	if exam.Type != model.ExamTypeMCQ {
		return &ExamAttempt{Exam: exam}, nil
	}

	qs, err := s.questions.Load(ctx, model.ParentExam, exam.ID)
	if err != nil {
		return nil, err
	}
	return &ExamAttempt{Exam: exam, Questions: qs}, nil
}

func examLength(exam *model.Exam) time.Duration {
	if exam.Duration == nil || *exam.Duration <= 0 {
		return 0
	}
	return engine.ExamDuration(*exam.Duration)
}

// markStarted records when the student first opened a timed exam and
// returns that instant. Reopening the exam keeps the first start.
func (s *AttemptService) markStarted(ctx context.Context, studentID uuid.UUID, exam *model.Exam) (time.Time, error) {
	key := config.CacheKey.ExamStartKey(exam.ID.String(), studentID.String())
	now := s.now()
	ttl := examLength(exam) + 24*time.Hour

	if err := s.rdb.SetNX(ctx, key, now.UnixMilli(), ttl).Err(); err != nil {
		return time.Time{}, fmt.Errorf("record exam start: %w", err)
	}
	return s.startedAt(ctx, key)
}

func (s *AttemptService) startedAt(ctx context.Context, key string) (time.Time, error) {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, ErrExamNotStarted
		}
		return time.Time{}, fmt.Errorf("read exam start: %w", err)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse exam start %q: %w", raw, err)
	}
	return time.UnixMilli(ms), nil
}

// checkDeadline rejects a stateless submission of a timed exam that was
// never opened or whose time ran out.
func (s *AttemptService) checkDeadline(ctx context.Context, studentID uuid.UUID, exam *model.Exam) error {
	length := examLength(exam)
	if length == 0 {
		return nil
	}
	started, err := s.startedAt(ctx, config.CacheKey.ExamStartKey(exam.ID.String(), studentID.String()))
	if err != nil {
		return err
	}
	if s.now().After(started.Add(length + submitGrace)) {
		s.log.Info().
			Str("student_id", studentID.String()).
			Str("exam_id", exam.ID.String()).
			Time("started_at", started).
			Msg("Rejected submission after deadline")
		return ErrTimeExpired
	}
	return nil
}

// StartExam opens an exam. A student who already submitted gets the
// completed view and no questions. Opening a timed exam starts its clock
// for the stateless submission.
func (s *AttemptService) StartExam(ctx context.Context, student *model.User, examID uuid.UUID) (*ExamView, error) {
	att, err := s.PrepareExam(ctx, student, examID)
	if err != nil {
		return nil, err
	}

	view := &ExamView{Exam: att.Exam}
	switch {
	case att.Completed != nil:
		view.Status = AttemptCompleted
		view.ResultID = &att.Completed.ID
		view.SubmittedAt = &att.Completed.SubmittedAt
		view.AnswerFileURL = att.Completed.FileURL
	case att.Exam.Type == model.ExamTypeFile:
		view.Status = AttemptUpload
	case len(att.Questions) == 0:
		view.Status = AttemptEmpty
	default:
		view.Status = AttemptReady
		view.Questions = forStudent(att.Questions)
		if length := examLength(att.Exam); length > 0 {
			started, err := s.markStarted(ctx, student.ID, att.Exam)
			if err != nil {
				return nil, err
			}
			deadline := started.Add(length)
			view.DurationSeconds = int(length.Seconds())
			view.DeadlineAt = &deadline
		}
	}
	return view, nil
}

// SubmitExam scores answers against the question set the attempt was
// started with and stores the result. A second result for the same
// student and exam is rejected with ErrAlreadySubmitted.
func (s *AttemptService) SubmitExam(ctx context.Context, student *model.User, exam *model.Exam, qs []model.Question, answers map[string]string) (*model.Result, error) {
	done, err := s.existingResult(ctx, student.ID, exam.ID)
	if err != nil {
		return nil, err
	}
	if done != nil {
		return nil, ErrAlreadySubmitted
	}

	kept := make(map[string]string, len(qs))
	for _, q := range qs {
		if a, ok := answers[q.ID.String()]; ok {
			kept[q.ID.String()] = a
		}
	}

	res := &model.Result{
		StudentID:      student.ID,
		ExamID:         exam.ID,
		Type:           model.ExamTypeMCQ,
		ExamTitle:      exam.Title,
		GradeLevel:     exam.Grade,
		Score:          engine.Score(EngineQuestions(qs), kept),
		TotalQuestions: len(qs),
		Answers:        kept,
	}
	if err := s.results.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrDuplicateResult) {
			s.log.Info().Str("student_id", student.ID.String()).Str("exam_id", exam.ID.String()).
				Msg("Rejected concurrent duplicate submission")
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("create result: %w", err)
	}

	s.log.Info().
		Str("student_id", student.ID.String()).
		Str("exam_id", exam.ID.String()).
		Int("score", res.Score).
		Int("total", res.TotalQuestions).
		Msg("Exam submitted")
	return res, nil
}

// SubmitExamAnswers is the stateless submission: the whole attempt in one
// request. Every question must carry one of its options, and a timed exam
// must arrive before the deadline set when StartExam opened it.
func (s *AttemptService) SubmitExamAnswers(ctx context.Context, student *model.User, examID uuid.UUID, answers map[string]string) (*model.Result, error) {
	att, err := s.PrepareExam(ctx, student, examID)
	if err != nil {
		return nil, err
	}
	if att.Completed != nil {
		return nil, ErrAlreadySubmitted
	}
	if att.Exam.Type != model.ExamTypeMCQ {
		return nil, ErrWrongExamType
	}
	if len(att.Questions) == 0 {
		return nil, ErrNoContent
	}
	if err := s.checkDeadline(ctx, student.ID, att.Exam); err != nil {
		return nil, err
	}
	for _, q := range att.Questions {
		if a, ok := answers[q.ID.String()]; !ok || !slices.Contains(q.Options, a) {
			return nil, ErrIncompleteAnswers
		}
	}
	return s.SubmitExam(ctx, student, att.Exam, att.Questions, answers)
}

// SubmitFile stores a student's answer sheet for a file exam. The blob is
// removed again when the result cannot be written.
func (s *AttemptService) SubmitFile(ctx context.Context, student *model.User, examID uuid.UUID, filename string, r io.Reader) (*model.Result, error) {
	exam, err := s.catalog.GetExam(ctx, student.Grade, examID)
	if err != nil {
		return nil, err
	}
	if exam.Type != model.ExamTypeFile {
		return nil, ErrWrongExamType
	}
	done, err := s.existingResult(ctx, student.ID, exam.ID)
	if err != nil {
		return nil, err
	}
	if done != nil {
		return nil, ErrAlreadySubmitted
	}

	data, err := storage.ReadLimited(r, s.maxUpload)
	if err != nil {
		return nil, err
	}
	if err := storage.SniffPDF(data); err != nil {
		return nil, err
	}

	key := storage.ExamAnswerKey(student.ID, exam.ID, filename)
	url, err := s.blobs.Put(ctx, key, bytes.NewReader(data), "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("store answer sheet: %w", err)
	}

	res := &model.Result{
		StudentID:      student.ID,
		ExamID:         exam.ID,
		Type:           model.ExamTypeFile,
		ExamTitle:      exam.Title,
		GradeLevel:     exam.Grade,
		TotalQuestions: exam.Questions,
		FileURL:        &url,
		FilePath:       &key,
	}
	if err := s.results.Create(ctx, res); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			s.log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove orphaned answer sheet")
		}
		if errors.Is(err, repository.ErrDuplicateResult) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("create result: %w", err)
	}

	s.log.Info().Str("student_id", student.ID.String()).Str("exam_id", exam.ID.String()).Msg("Answer sheet submitted")
	return res, nil
}

// PreparePractice loads a practice set of the student's grade.
func (s *AttemptService) PreparePractice(ctx context.Context, student *model.User, practiceID uuid.UUID) (*model.Practice, []model.Question, error) {
	p, err := s.catalog.GetPractice(ctx, student.Grade, practiceID)
	if err != nil {
		return nil, nil, err
	}
	qs, err := s.questions.Load(ctx, model.ParentPractice, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, qs, nil
}

// StartPractice opens a practice set.
func (s *AttemptService) StartPractice(ctx context.Context, student *model.User, practiceID uuid.UUID) (*PracticeView, error) {
	p, qs, err := s.PreparePractice(ctx, student, practiceID)
	if err != nil {
		return nil, err
	}
	status := AttemptReady
	if len(qs) == 0 {
		status = AttemptEmpty
	}
	return &PracticeView{Status: status, Practice: p, Questions: qs}, nil
}

// SubmitPractice records a finished practice attempt. Retakes add rows.
func (s *AttemptService) SubmitPractice(ctx context.Context, student *model.User, p *model.Practice, qs []model.Question, answers map[string]string) (*model.PracticeResult, error) {
	pr := &model.PracticeResult{
		StudentID:      student.ID,
		PracticeID:     p.ID,
		PracticeTitle:  p.Title,
		Score:          engine.Score(EngineQuestions(qs), answers),
		TotalQuestions: len(qs),
		Answers:        answers,
	}
	if err := s.practiceResults.Create(ctx, pr); err != nil {
		return nil, fmt.Errorf("create practice result: %w", err)
	}
	return pr, nil
}

// SubmitPracticeAnswers is the stateless practice submission.
func (s *AttemptService) SubmitPracticeAnswers(ctx context.Context, student *model.User, practiceID uuid.UUID, answers map[string]string) (*model.PracticeResult, error) {
	p, qs, err := s.PreparePractice(ctx, student, practiceID)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrNoContent
	}
	for _, q := range qs {
		if a, ok := answers[q.ID.String()]; !ok || !slices.Contains(q.Options, a) {
			return nil, ErrIncompleteAnswers
		}
	}
	return s.SubmitPractice(ctx, student, p, qs, answers)
}
