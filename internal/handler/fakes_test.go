package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/repository"
)

type memExams struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Exam
}

func (f *memExams) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *memExams) ListByGrade(_ context.Context, grade string) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Exam
	for _, e := range f.byID {
		if e.Grade == grade {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *memExams) ListPaginated(ctx context.Context, grade string, _, _ int) ([]model.Exam, int, error) {
	out, err := f.ListByGrade(ctx, grade)
	return out, len(out), err
}

func (f *memExams) Create(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *memExams) Update(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *memExams) PublishResults(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.ResultsPublished = true
	return nil
}

func (f *memExams) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

type memPractices struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Practice
}

func (f *memPractices) GetByID(_ context.Context, id uuid.UUID) (*model.Practice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *memPractices) ListByGrade(_ context.Context, grade string) ([]model.Practice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Practice
	for _, p := range f.byID {
		if p.Grade == grade {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *memPractices) ListAll(_ context.Context) ([]model.Practice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Practice
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *memPractices) Create(_ context.Context, p *model.Practice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *memPractices) Update(_ context.Context, p *model.Practice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *memPractices) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

type memQuestions struct {
	mu    sync.Mutex
	items []model.Question
}

func (f *memQuestions) ListByParent(_ context.Context, parent model.QuestionParent, parentID uuid.UUID) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Question
	for _, q := range f.items {
		pid := q.PracticeID
		if parent == model.ParentExam {
			pid = q.ExamID
		}
		if pid != nil && *pid == parentID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *memQuestions) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.items {
		if q.ID == id {
			cp := q
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *memQuestions) Create(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	f.items = append(f.items, *q)
	return nil
}

func (f *memQuestions) Update(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == q.ID {
			f.items[i] = *q
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *memQuestions) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// memResults enforces one result per student and exam like the table's
// unique constraint. beforeCreate runs outside the lock on every Create;
// failures makes that many writes fail first.
type memResults struct {
	mu           sync.Mutex
	items        []model.Result
	failures     int
	beforeCreate func()
}

var errWriteFailed = errors.New("connection reset by peer")

func (f *memResults) failNext(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = n
}

func (f *memResults) onCreate(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beforeCreate = fn
}

func (f *memResults) Create(_ context.Context, res *model.Result) error {
	f.mu.Lock()
	hook := f.beforeCreate
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errWriteFailed
	}
	for _, r := range f.items {
		if r.StudentID == res.StudentID && r.ExamID == res.ExamID {
			return repository.ErrDuplicateResult
		}
	}
	res.ID = uuid.New()
	res.SubmittedAt = time.Now()
	f.items = append(f.items, *res)
	return nil
}

func (f *memResults) GetByID(_ context.Context, id uuid.UUID) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *memResults) FindByStudentAndExam(_ context.Context, studentID, examID uuid.UUID) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.StudentID == studentID && r.ExamID == examID {
			cp := r
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *memResults) ListByStudent(_ context.Context, studentID uuid.UUID) ([]model.StudentResultRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StudentResultRow
	for _, r := range f.items {
		if r.StudentID == studentID {
			out = append(out, model.StudentResultRow{Result: r, ExamExists: true})
		}
	}
	return out, nil
}

func (f *memResults) ListPaginated(_ context.Context, _ *uuid.UUID, _, _ int) ([]model.Result, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Result(nil), f.items...), len(f.items), nil
}

func (f *memResults) SetGrade(_ context.Context, id uuid.UUID, grade string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Grade = &grade
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *memResults) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type memPracticeResults struct {
	mu    sync.Mutex
	items []model.PracticeResult
}

func (f *memPracticeResults) Create(_ context.Context, pr *model.PracticeResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr.ID = uuid.New()
	pr.SubmittedAt = time.Now()
	f.items = append(f.items, *pr)
	return nil
}

func (f *memPracticeResults) ListByStudent(_ context.Context, studentID uuid.UUID) ([]model.PracticeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PracticeResult
	for _, pr := range f.items {
		if pr.StudentID == studentID {
			out = append(out, pr)
		}
	}
	return out, nil
}

func (f *memPracticeResults) ListPaginated(_ context.Context, _, _ int) ([]model.PracticeResult, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.PracticeResult(nil), f.items...), len(f.items), nil
}

func (f *memPracticeResults) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
