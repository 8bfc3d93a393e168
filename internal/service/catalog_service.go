package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/video"
)

// ExamStatus is a student's progress on one exam as shown in the catalog.
type ExamStatus string

const (
	ExamStatusAvailable ExamStatus = "available"
	ExamStatusPending   ExamStatus = "pending"
	ExamStatusCompleted ExamStatus = "completed"
)

// CatalogExam is an exam row annotated with the caller's status.
type CatalogExam struct {
	model.Exam
	Status   ExamStatus `json:"status"`
	ResultID *uuid.UUID `json:"result_id,omitempty"`
}

// CatalogService serves the grade-filtered, read-only student catalog.
// Every list is exact-match on the caller's grade and fails closed.
type CatalogService struct {
	exams        ExamStore
	practices    PracticeStore
	library      LibraryStore
	explanations ExplanationStore
	results      ResultStore
	log          zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	exams ExamStore,
	practices PracticeStore,
	library LibraryStore,
	explanations ExplanationStore,
	results ResultStore,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		exams:        exams,
		practices:    practices,
		library:      library,
		explanations: explanations,
		results:      results,
		log:          log.With().Str("component", "catalog_service").Logger(),
	}
}

// statusOf derives the catalog status from a student's result row. A
// computer-graded result counts as completed once results are published,
// a file result once it carries a grade.
func statusOf(row model.StudentResultRow) ExamStatus {
	if row.Type == model.ExamTypeFile {
		if row.Grade != nil {
			return ExamStatusCompleted
		}
		return ExamStatusPending
	}
	if row.ExamExists && row.ResultsPublished {
		return ExamStatusCompleted
	}
	return ExamStatusPending
}

// ListExams returns the exams of the student's grade with their status.
func (s *CatalogService) ListExams(ctx context.Context, student *model.User) ([]CatalogExam, error) {
	exams, err := s.exams.ListByGrade(ctx, student.Grade)
	if err != nil {
		s.log.Error().Err(err).Str("grade", student.Grade).Msg("Failed to list exams")
		return nil, fmt.Errorf("list exams: %w", err)
	}
	rows, err := s.results.ListByStudent(ctx, student.ID)
	if err != nil {
		s.log.Error().Err(err).Str("student_id", student.ID.String()).Msg("Failed to list results")
		return nil, fmt.Errorf("list results: %w", err)
	}

	byExam := make(map[uuid.UUID]model.StudentResultRow, len(rows))
	for _, r := range rows {
		byExam[r.ExamID] = r
	}

	out := make([]CatalogExam, 0, len(exams))
	for _, e := range exams {
		item := CatalogExam{Exam: e, Status: ExamStatusAvailable}
		if r, ok := byExam[e.ID]; ok {
			id := r.ID
			item.ResultID = &id
			item.Status = statusOf(r)
		}
		out = append(out, item)
	}
	return out, nil
}

// GetExam returns an exam of the student's grade. Exams of other grades
// are reported as missing.
func (s *CatalogService) GetExam(ctx context.Context, grade string, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.Grade != grade {
		return nil, ErrExamNotFound
	}
	return exam, nil
}

// ListPractice returns the practice sets of a grade.
func (s *CatalogService) ListPractice(ctx context.Context, grade string) ([]model.Practice, error) {
	items, err := s.practices.ListByGrade(ctx, grade)
	if err != nil {
		s.log.Error().Err(err).Str("grade", grade).Msg("Failed to list practice")
		return nil, fmt.Errorf("list practice: %w", err)
	}
	if items == nil {
		items = []model.Practice{}
	}
	return items, nil
}

// GetPractice returns a practice set of the student's grade.
func (s *CatalogService) GetPractice(ctx context.Context, grade string, id uuid.UUID) (*model.Practice, error) {
	p, err := s.practices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get practice: %w", err)
	}
	if p.Grade != grade {
		return nil, ErrNotFound
	}
	return p, nil
}

// ListLibrary returns the library files of a grade.
func (s *CatalogService) ListLibrary(ctx context.Context, grade string) ([]model.LibraryFile, error) {
	files, err := s.library.List(ctx, grade)
	if err != nil {
		s.log.Error().Err(err).Str("grade", grade).Msg("Failed to list library")
		return nil, fmt.Errorf("list library: %w", err)
	}
	if files == nil {
		files = []model.LibraryFile{}
	}
	return files, nil
}

// ListExplanations returns the video lessons of a grade with their embed id.
func (s *CatalogService) ListExplanations(ctx context.Context, grade string) ([]model.Explanation, error) {
	items, err := s.explanations.List(ctx, grade)
	if err != nil {
		s.log.Error().Err(err).Str("grade", grade).Msg("Failed to list explanations")
		return nil, fmt.Errorf("list explanations: %w", err)
	}
	if items == nil {
		items = []model.Explanation{}
	}
	for i := range items {
		items[i].EmbedID = video.EmbedID(items[i].VideoURL)
	}
	return items, nil
}
