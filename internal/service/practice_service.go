package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
)

// PracticeService handles practice set administration.
type PracticeService struct {
	practices PracticeStore
	questions *QuestionService
	log       zerolog.Logger
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(practices PracticeStore, questions *QuestionService, log zerolog.Logger) *PracticeService {
	return &PracticeService{
		practices: practices,
		questions: questions,
		log:       log.With().Str("component", "practice_service").Logger(),
	}
}

func (s *PracticeService) List(ctx context.Context) ([]model.Practice, error) {
	items, err := s.practices.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list practice: %w", err)
	}
	if items == nil {
		items = []model.Practice{}
	}
	return items, nil
}

func (s *PracticeService) Get(ctx context.Context, id uuid.UUID) (*model.Practice, error) {
	p, err := s.practices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get practice: %w", err)
	}
	return p, nil
}

// Create stores a new practice set. Practice is always multiple choice.
func (s *PracticeService) Create(ctx context.Context, req model.PracticeRequest) (*model.Practice, error) {
	p := &model.Practice{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Grade:       req.Grade,
		Type:        model.ExamTypeMCQ,
	}
	if err := s.practices.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create practice: %w", err)
	}
	s.log.Info().Str("practice_id", p.ID.String()).Str("grade", p.Grade).Msg("Practice created")
	return p, nil
}

func (s *PracticeService) Update(ctx context.Context, id uuid.UUID, req model.PracticeRequest) (*model.Practice, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Title = strings.TrimSpace(req.Title)
	p.Description = strings.TrimSpace(req.Description)
	p.Grade = req.Grade
	if err := s.practices.Update(ctx, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update practice: %w", err)
	}
	return p, nil
}

func (s *PracticeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.practices.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete practice: %w", err)
	}
	s.questions.Invalidate(ctx, model.ParentPractice, id)
	s.log.Info().Str("practice_id", id.String()).Msg("Practice deleted")
	return nil
}
