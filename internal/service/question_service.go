package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/config"
	"github.com/farisarabic/faris-backend/internal/model"
)

// QuestionService manages the questions of exams and practice sets and
// keeps a Redis copy of each ordered set for attempts.
type QuestionService struct {
	questions QuestionStore
	exams     ExamStore
	practices PracticeStore
	rdb       *redis.Client
	ttl       time.Duration
	log       zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questions QuestionStore,
	exams ExamStore,
	practices PracticeStore,
	rdb *redis.Client,
	ttl time.Duration,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questions: questions,
		exams:     exams,
		practices: practices,
		rdb:       rdb,
		ttl:       ttl,
		log:       log.With().Str("component", "question_service").Logger(),
	}
}

func questionsKey(parent model.QuestionParent, id uuid.UUID) string {
	if parent == model.ParentPractice {
		return config.CacheKey.PracticeQuestionsKey(id.String())
	}
	return config.CacheKey.ExamQuestionsKey(id.String())
}

// Load returns the ordered question set of a parent, from Redis when
// cached. A cache failure falls through to PostgreSQL.
func (s *QuestionService) Load(ctx context.Context, parent model.QuestionParent, id uuid.UUID) ([]model.Question, error) {
	key := questionsKey(parent, id)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []model.Question
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		s.log.Warn().Str("key", key).Msg("Discarding unreadable question cache")
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Str("key", key).Msg("Question cache read failed")
	}

	qs, err := s.questions.ListByParent(ctx, parent, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if qs == nil {
		qs = []model.Question{}
	}

	if payload, err := json.Marshal(qs); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Question cache write failed")
		}
	}
	return qs, nil
}

// Invalidate drops the cached set of a parent.
func (s *QuestionService) Invalidate(ctx context.Context, parent model.QuestionParent, id uuid.UUID) {
	if err := s.rdb.Del(ctx, questionsKey(parent, id)).Err(); err != nil {
		s.log.Warn().Err(err).Str("parent", string(parent)).Str("id", id.String()).Msg("Question cache invalidation failed")
	}
}

// checkParent verifies the parent exists and can hold questions.
func (s *QuestionService) checkParent(ctx context.Context, parent model.QuestionParent, id uuid.UUID) error {
	switch parent {
	case model.ParentExam:
		exam, err := s.exams.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrExamNotFound
			}
			return fmt.Errorf("get exam: %w", err)
		}
		if exam.Type != model.ExamTypeMCQ {
			return ErrWrongExamType
		}
	case model.ParentPractice:
		if _, err := s.practices.GetByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("get practice: %w", err)
		}
	default:
		return ErrNotFound
	}
	return nil
}

// List returns the questions of a parent straight from PostgreSQL.
func (s *QuestionService) List(ctx context.Context, parent model.QuestionParent, id uuid.UUID) ([]model.Question, error) {
	if err := s.checkParent(ctx, parent, id); err != nil {
		return nil, err
	}
	qs, err := s.questions.ListByParent(ctx, parent, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if qs == nil {
		qs = []model.Question{}
	}
	return qs, nil
}

func applyQuestionRequest(q *model.Question, req model.QuestionRequest) {
	q.Text = strings.TrimSpace(req.Text)
	q.Options = make([]string, len(req.Options))
	for i, o := range req.Options {
		q.Options[i] = strings.TrimSpace(o)
	}
	q.CorrectAnswer = strings.TrimSpace(req.CorrectAnswer)
	q.Explanation = nil
	if req.Explanation != nil {
		if e := strings.TrimSpace(*req.Explanation); e != "" {
			q.Explanation = &e
		}
	}
}

// Create adds a question to an exam or practice set.
func (s *QuestionService) Create(ctx context.Context, parent model.QuestionParent, parentID uuid.UUID, req model.QuestionRequest) (*model.Question, error) {
	if err := s.checkParent(ctx, parent, parentID); err != nil {
		return nil, err
	}

	q := &model.Question{}
	applyQuestionRequest(q, req)
	if parent == model.ParentExam {
		q.ExamID = &parentID
	} else {
		q.PracticeID = &parentID
	}

	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.Invalidate(ctx, parent, parentID)
	return q, nil
}

func (s *QuestionService) get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func parentOf(q *model.Question) (model.QuestionParent, uuid.UUID) {
	if q.PracticeID != nil {
		return model.ParentPractice, *q.PracticeID
	}
	if q.ExamID != nil {
		return model.ParentExam, *q.ExamID
	}
	return "", uuid.Nil
}

// Update replaces a question's text, options, answer and explanation.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req model.QuestionRequest) (*model.Question, error) {
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyQuestionRequest(q, req)
	if err := s.questions.Update(ctx, q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	parent, parentID := parentOf(q)
	s.Invalidate(ctx, parent, parentID)
	return q, nil
}

// Delete removes a question.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}
	parent, parentID := parentOf(q)
	s.Invalidate(ctx, parent, parentID)
	return nil
}
