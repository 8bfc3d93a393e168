package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/model"
)

// ContactRepository stores messages from the public contact form.
type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, m *model.ContactMessage) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contact_messages (name, email, message) VALUES ($1, $2, $3)
		 RETURNING id, read, created_at`,
		m.Name, m.Email, m.Message,
	).Scan(&m.ID, &m.Read, &m.CreatedAt)
}

// ListPaginated returns messages newest first.
func (r *ContactRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.ContactMessage, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, message, read, created_at FROM contact_messages
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.ContactMessage{}
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// ToggleRead flips the read flag and returns the new value.
func (r *ContactRepository) ToggleRead(ctx context.Context, id uuid.UUID) (bool, error) {
	var read bool
	err := r.pool.QueryRow(ctx,
		`UPDATE contact_messages SET read = NOT read WHERE id = $1 RETURNING read`, id,
	).Scan(&read)
	return read, err
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
