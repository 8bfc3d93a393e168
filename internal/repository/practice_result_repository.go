package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/model"
)

const practiceResultColumns = `pr.id, pr.student_id, pr.practice_id, pr.practice_title, pr.score,
	pr.total_questions, pr.answers, pr.submitted_at`

// PracticeResultRepository handles practice attempt records.
type PracticeResultRepository struct {
	pool *pgxpool.Pool
}

// NewPracticeResultRepository creates a new PracticeResultRepository.
func NewPracticeResultRepository(pool *pgxpool.Pool) *PracticeResultRepository {
	return &PracticeResultRepository{pool: pool}
}

func scanPracticeResult(row pgx.Row, extra ...any) (*model.PracticeResult, error) {
	pr := &model.PracticeResult{}
	dest := []any{&pr.ID, &pr.StudentID, &pr.PracticeID, &pr.PracticeTitle, &pr.Score,
		&pr.TotalQuestions, &pr.Answers, &pr.SubmittedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return pr, nil
}

// Create inserts a practice result. Retakes are recorded as separate rows.
func (r *PracticeResultRepository) Create(ctx context.Context, pr *model.PracticeResult) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO practice_results (student_id, practice_id, practice_title, score, total_questions, answers)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, submitted_at`,
		pr.StudentID, pr.PracticeID, pr.PracticeTitle, pr.Score, pr.TotalQuestions, pr.Answers,
	).Scan(&pr.ID, &pr.SubmittedAt)
}

// ListByStudent returns the student's practice attempts, newest first.
func (r *PracticeResultRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.PracticeResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+practiceResultColumns+` FROM practice_results pr
		 WHERE pr.student_id = $1 ORDER BY pr.submitted_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.PracticeResult{}
	for rows.Next() {
		pr, err := scanPracticeResult(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *pr)
	}
	return list, rows.Err()
}

// ListPaginated returns every practice attempt with the student name, newest first.
func (r *PracticeResultRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.PracticeResult, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM practice_results`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+practiceResultColumns+`, u.username FROM practice_results pr
		 LEFT JOIN users u ON u.id = pr.student_id
		 ORDER BY pr.submitted_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.PracticeResult{}
	for rows.Next() {
		var name *string
		pr, err := scanPracticeResult(rows, &name)
		if err != nil {
			return nil, 0, err
		}
		if name != nil {
			pr.StudentName = *name
		}
		list = append(list, *pr)
	}
	return list, total, rows.Err()
}
