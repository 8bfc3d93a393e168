package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/storage"
)

// Upload is a file received from a multipart form.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// ExamService handles exam administration.
type ExamService struct {
	exams     ExamStore
	questions *QuestionService
	blobs     storage.BlobStore
	maxUpload int64
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	exams ExamStore,
	questions *QuestionService,
	blobs storage.BlobStore,
	maxUpload int64,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		blobs:     blobs,
		maxUpload: maxUpload,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// List returns exams, newest first, optionally filtered by grade.
func (s *ExamService) List(ctx context.Context, grade string, page, perPage int) ([]model.Exam, *response.Pagination, error) {
	pagination, limit, offset := response.NewPagination(page, perPage)
	exams, total, err := s.exams.ListPaginated(ctx, grade, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("list exams: %w", err)
	}
	if exams == nil {
		exams = []model.Exam{}
	}
	return exams, pagination.SetTotal(total), nil
}

// Get retrieves an exam by ID.
func (s *ExamService) Get(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return exam, nil
}

// Create stores a new exam. A file exam needs its question paper as a PDF.
func (s *ExamService) Create(ctx context.Context, draft model.ExamDraft, file *Upload) (*model.Exam, error) {
	switch d := draft.(type) {
	case model.MCQExamDraft:
		duration := d.Duration
		exam := &model.Exam{
			Title:       strings.TrimSpace(d.Title),
			Description: strings.TrimSpace(d.Description),
			Grade:       d.Grade,
			Type:        model.ExamTypeMCQ,
			Duration:    &duration,
			Questions:   d.Questions,
		}
		if err := s.exams.Create(ctx, exam); err != nil {
			return nil, fmt.Errorf("create exam: %w", err)
		}
		s.log.Info().Str("exam_id", exam.ID.String()).Str("grade", exam.Grade).Msg("Exam created")
		return exam, nil

	case model.FileExamDraft:
		if file == nil {
			return nil, ErrFileRequired
		}
		return s.createFileExam(ctx, d, file)

	default:
		return nil, ErrWrongExamType
	}
}

func (s *ExamService) createFileExam(ctx context.Context, d model.FileExamDraft, file *Upload) (*model.Exam, error) {
	data, err := storage.ReadLimited(file.Reader, s.maxUpload)
	if err != nil {
		return nil, err
	}
	if err := storage.SniffPDF(data); err != nil {
		return nil, err
	}

	key := storage.ExamFileKey(file.Filename)
	url, err := s.blobs.Put(ctx, key, bytes.NewReader(data), "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("store exam file: %w", err)
	}

	exam := &model.Exam{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Grade:       d.Grade,
		Type:        model.ExamTypeFile,
		Questions:   d.Questions,
		FileURL:     &url,
		FilePath:    &key,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		s.removeBlob(ctx, key)
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.log.Info().Str("exam_id", exam.ID.String()).Str("grade", exam.Grade).Msg("File exam created")
	return exam, nil
}

func (s *ExamService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to delete blob")
	}
}

// Update edits a computer-graded exam. File exams cannot be edited.
func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req model.UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Type != model.ExamTypeMCQ {
		return nil, ErrExamNotEditable
	}

	duration := req.Duration
	exam.Title = strings.TrimSpace(req.Title)
	exam.Description = strings.TrimSpace(req.Description)
	exam.Grade = req.Grade
	exam.Questions = req.Questions
	exam.Duration = &duration

	if err := s.exams.Update(ctx, exam); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("update exam: %w", err)
	}
	return exam, nil
}

// PublishResults makes the exam's results visible to students. There is
// no way back.
func (s *ExamService) PublishResults(ctx context.Context, id uuid.UUID) error {
	if err := s.exams.PublishResults(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamNotFound
		}
		return fmt.Errorf("publish results: %w", err)
	}
	s.log.Info().Str("exam_id", id.String()).Msg("Exam results published")
	return nil
}

// Delete removes an exam and its question paper. Results stay.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.exams.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamNotFound
		}
		return fmt.Errorf("delete exam: %w", err)
	}
	if exam.FilePath != nil {
		s.removeBlob(ctx, *exam.FilePath)
	}
	s.questions.Invalidate(ctx, model.ParentExam, id)

	s.log.Info().Str("exam_id", id.String()).Msg("Exam deleted")
	return nil
}
