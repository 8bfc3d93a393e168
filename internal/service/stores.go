package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/repository"
)

// The interfaces below are the slices of the repositories each service
// needs. The pgx repositories satisfy them; tests use in-memory fakes.

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, username, phone string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) error
	ListStudentsPaginated(ctx context.Context, status string, limit, offset int) ([]model.User, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	ListByGrade(ctx context.Context, grade string) ([]model.Exam, error)
	ListPaginated(ctx context.Context, grade string, limit, offset int) ([]model.Exam, int, error)
	Create(ctx context.Context, e *model.Exam) error
	Update(ctx context.Context, e *model.Exam) error
	PublishResults(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PracticeStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Practice, error)
	ListByGrade(ctx context.Context, grade string) ([]model.Practice, error)
	ListAll(ctx context.Context) ([]model.Practice, error)
	Create(ctx context.Context, p *model.Practice) error
	Update(ctx context.Context, p *model.Practice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type QuestionStore interface {
	ListByParent(ctx context.Context, parent model.QuestionParent, parentID uuid.UUID) ([]model.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ResultStore interface {
	Create(ctx context.Context, res *model.Result) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error)
	FindByStudentAndExam(ctx context.Context, studentID, examID uuid.UUID) (*model.Result, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.StudentResultRow, error)
	ListPaginated(ctx context.Context, examID *uuid.UUID, limit, offset int) ([]model.Result, int, error)
	SetGrade(ctx context.Context, id uuid.UUID, grade string) error
}

type PracticeResultStore interface {
	Create(ctx context.Context, pr *model.PracticeResult) error
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.PracticeResult, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]model.PracticeResult, int, error)
}

type LibraryStore interface {
	List(ctx context.Context, grade string) ([]model.LibraryFile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.LibraryFile, error)
	Create(ctx context.Context, f *model.LibraryFile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExplanationStore interface {
	List(ctx context.Context, grade string) ([]model.Explanation, error)
	Create(ctx context.Context, e *model.Explanation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContactStore interface {
	Create(ctx context.Context, m *model.ContactMessage) error
	ListPaginated(ctx context.Context, limit, offset int) ([]model.ContactMessage, int, error)
	ToggleRead(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SettingStore interface {
	GetMany(ctx context.Context, keys ...string) (map[string]model.AppSetting, error)
	Upsert(ctx context.Context, pairs map[string]string) error
}

type DashboardStore interface {
	GetSummaryCounts(ctx context.Context) (repository.DashboardCounts, error)
}

// Compile-time checks that the pgx repositories satisfy the stores.
var (
	_ UserStore           = (*repository.UserRepository)(nil)
	_ ExamStore           = (*repository.ExamRepository)(nil)
	_ PracticeStore       = (*repository.PracticeRepository)(nil)
	_ QuestionStore       = (*repository.QuestionRepository)(nil)
	_ ResultStore         = (*repository.ResultRepository)(nil)
	_ PracticeResultStore = (*repository.PracticeResultRepository)(nil)
	_ LibraryStore        = (*repository.LibraryRepository)(nil)
	_ ExplanationStore    = (*repository.ExplanationRepository)(nil)
	_ ContactStore        = (*repository.ContactRepository)(nil)
	_ SettingStore        = (*repository.SettingRepository)(nil)
	_ DashboardStore      = (*repository.DashboardRepository)(nil)
)
