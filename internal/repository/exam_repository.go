package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/model"
)

const examColumns = `e.id, e.title, e.description, e.grade, e.type, e.duration, e.questions,
	e.file_url, e.file_path, e.results_published, e.created_at, e.updated_at,
	(SELECT COUNT(*) FROM questions q WHERE q.exam_id = e.id)`

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

func scanExam(row pgx.Row) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Grade, &e.Type, &e.Duration, &e.Questions,
		&e.FileURL, &e.FilePath, &e.ResultsPublished, &e.CreatedAt, &e.UpdatedAt, &e.QuestionsAdded)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func collectExams(rows pgx.Rows) ([]model.Exam, error) {
	defer rows.Close()
	exams := []model.Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// GetByID retrieves an exam by its UUID, including the number of questions added.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx, `SELECT `+examColumns+` FROM exams e WHERE e.id = $1`, id))
}

// ListByGrade returns exams whose grade equals the given code exactly, newest first.
func (r *ExamRepository) ListByGrade(ctx context.Context, grade string) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams e WHERE e.grade = $1 ORDER BY e.created_at DESC`, grade)
	if err != nil {
		return nil, err
	}
	return collectExams(rows)
}

// ListPaginated returns all exams, newest first, optionally filtered by grade.
func (r *ExamRepository) ListPaginated(ctx context.Context, grade string, limit, offset int) ([]model.Exam, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exams WHERE ($1 = '' OR grade = $1)`, grade,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams e
		 WHERE ($1 = '' OR e.grade = $1)
		 ORDER BY e.created_at DESC LIMIT $2 OFFSET $3`,
		grade, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	exams, err := collectExams(rows)
	return exams, total, err
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, description, grade, type, duration, questions, file_url, file_path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, results_published, created_at, updated_at`,
		e.Title, e.Description, e.Grade, e.Type, e.Duration, e.Questions, e.FileURL, e.FilePath,
	).Scan(&e.ID, &e.ResultsPublished, &e.CreatedAt, &e.UpdatedAt)
}

// Update edits the mutable fields of a multiple-choice exam.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`UPDATE exams SET title = $1, description = $2, grade = $3, questions = $4, duration = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING updated_at`,
		e.Title, e.Description, e.Grade, e.Questions, e.Duration, e.ID,
	).Scan(&e.UpdatedAt)
}

// PublishResults flips results_published to true. There is no way back.
func (r *ExamRepository) PublishResults(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET results_published = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes an exam. Its questions go with it; results stay.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
