package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
)

// SessionRevoker ends a user's active session.
type SessionRevoker interface {
	RevokeSession(ctx context.Context, userID uuid.UUID) error
}

// StudentDetail is a student profile with their exam and practice history.
type StudentDetail struct {
	Student         *model.User          `json:"student"`
	Results         []ResultView         `json:"results"`
	AverageScore    int                  `json:"average_score"`
	PracticeResults []PracticeResultView `json:"practice_results"`
}

// StudentService handles student administration.
type StudentService struct {
	users    UserStore
	results  *ResultService
	sessions SessionRevoker
	log      zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(users UserStore, results *ResultService, sessions SessionRevoker, log zerolog.Logger) *StudentService {
	return &StudentService{
		users:    users,
		results:  results,
		sessions: sessions,
		log:      log.With().Str("component", "student_service").Logger(),
	}
}

// List returns non-admin users, newest first. status filters when non-empty.
func (s *StudentService) List(ctx context.Context, status string, page, perPage int) ([]model.User, *response.Pagination, error) {
	pagination, limit, offset := response.NewPagination(page, perPage)
	students, total, err := s.users.ListStudentsPaginated(ctx, status, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("list students: %w", err)
	}
	if students == nil {
		students = []model.User{}
	}
	return students, pagination.SetTotal(total), nil
}

func (s *StudentService) get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u.Role != model.RoleStudent {
		return nil, ErrNotFound
	}
	return u, nil
}

// Get returns a student with their results as the student would see them.
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*StudentDetail, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dash, err := s.results.Dashboard(ctx, u)
	if err != nil {
		return nil, err
	}
	practice, err := s.results.ListPracticeResults(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &StudentDetail{
		Student:         u,
		Results:         dash.Results,
		AverageScore:    dash.AverageScore,
		PracticeResults: practice,
	}, nil
}

// SetStatus activates or deactivates a student. Deactivation signs them out.
func (s *StudentService) SetStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) (*model.User, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	u.Status = status

	if status != model.UserStatusActive {
		if err := s.sessions.RevokeSession(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id.String()).Msg("Failed to revoke session")
		}
	}
	s.log.Info().Str("user_id", id.String()).Str("status", string(status)).Msg("Student status changed")
	return u, nil
}

// ToggleStatus flips a student between pending and active.
func (s *StudentService) ToggleStatus(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := model.UserStatusActive
	if u.Status == model.UserStatusActive {
		next = model.UserStatusPending
	}
	return s.SetStatus(ctx, id, next)
}

// Delete removes a student's profile. Their results remain.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.sessions.RevokeSession(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id.String()).Msg("Failed to revoke session")
	}
	s.log.Info().Str("user_id", id.String()).Msg("Student deleted")
	return nil
}
