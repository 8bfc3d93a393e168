package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/model"
)

const practiceColumns = `p.id, p.title, p.description, p.grade, p.type, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM questions q WHERE q.practice_id = p.id)`

// PracticeRepository handles practice set data access.
type PracticeRepository struct {
	pool *pgxpool.Pool
}

// NewPracticeRepository creates a new PracticeRepository.
func NewPracticeRepository(pool *pgxpool.Pool) *PracticeRepository {
	return &PracticeRepository{pool: pool}
}

func scanPractice(row pgx.Row) (*model.Practice, error) {
	p := &model.Practice{}
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Grade, &p.Type,
		&p.CreatedAt, &p.UpdatedAt, &p.QuestionsAdded); err != nil {
		return nil, err
	}
	return p, nil
}

func collectPractices(rows pgx.Rows) ([]model.Practice, error) {
	defer rows.Close()
	list := []model.Practice{}
	for rows.Next() {
		p, err := scanPractice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *PracticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Practice, error) {
	return scanPractice(r.pool.QueryRow(ctx, `SELECT `+practiceColumns+` FROM practices p WHERE p.id = $1`, id))
}

// ListByGrade returns practice sets for exactly one grade, newest first.
func (r *PracticeRepository) ListByGrade(ctx context.Context, grade string) ([]model.Practice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+practiceColumns+` FROM practices p WHERE p.grade = $1 ORDER BY p.created_at DESC`, grade)
	if err != nil {
		return nil, err
	}
	return collectPractices(rows)
}

func (r *PracticeRepository) ListAll(ctx context.Context) ([]model.Practice, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+practiceColumns+` FROM practices p ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectPractices(rows)
}

func (r *PracticeRepository) Create(ctx context.Context, p *model.Practice) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO practices (title, description, grade, type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		p.Title, p.Description, p.Grade, p.Type,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PracticeRepository) Update(ctx context.Context, p *model.Practice) error {
	return r.pool.QueryRow(ctx,
		`UPDATE practices SET title = $1, description = $2, grade = $3, updated_at = NOW()
		 WHERE id = $4 RETURNING updated_at`,
		p.Title, p.Description, p.Grade, p.ID,
	).Scan(&p.UpdatedAt)
}

func (r *PracticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM practices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
