package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/model"
)

const questionColumns = `id, exam_id, practice_id, text, options, correct_answer, explanation, created_at`

// QuestionRepository handles question data access for both exams and practice sets.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	q := &model.Question{}
	if err := row.Scan(&q.ID, &q.ExamID, &q.PracticeID, &q.Text, &q.Options,
		&q.CorrectAnswer, &q.Explanation, &q.CreatedAt); err != nil {
		return nil, err
	}
	return q, nil
}

func parentColumn(parent model.QuestionParent) string {
	if parent == model.ParentPractice {
		return "practice_id"
	}
	return "exam_id"
}

// ListByParent retrieves all questions of an exam or practice set in
// creation order.
func (r *QuestionRepository) ListByParent(ctx context.Context, parent model.QuestionParent, parentID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE `+parentColumn(parent)+` = $1
		 ORDER BY created_at ASC, id ASC`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// Create inserts a new question. Exactly one of ExamID and PracticeID must be set.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, practice_id, text, options, correct_answer, explanation)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		q.ExamID, q.PracticeID, q.Text, q.Options, q.CorrectAnswer, q.Explanation,
	).Scan(&q.ID, &q.CreatedAt)
}

// Update replaces the content of a question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET text = $1, options = $2, correct_answer = $3, explanation = $4 WHERE id = $5`,
		q.Text, q.Options, q.CorrectAnswer, q.Explanation, q.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
