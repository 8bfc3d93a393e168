package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/model"
)

// ExplanationRepository handles video lesson data access.
type ExplanationRepository struct {
	pool *pgxpool.Pool
}

func NewExplanationRepository(pool *pgxpool.Pool) *ExplanationRepository {
	return &ExplanationRepository{pool: pool}
}

// List returns explanations newest first. An empty grade lists every grade.
func (r *ExplanationRepository) List(ctx context.Context, grade string) ([]model.Explanation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, grade, video_url, created_at FROM explanations
		 WHERE ($1 = '' OR grade = $1) ORDER BY created_at DESC`, grade)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Explanation{}
	for rows.Next() {
		var e model.Explanation
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Grade, &e.VideoURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *ExplanationRepository) Create(ctx context.Context, e *model.Explanation) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO explanations (title, description, grade, video_url)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		e.Title, e.Description, e.Grade, e.VideoURL,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *ExplanationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM explanations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
