package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/model"
)

const libraryColumns = `id, title, description, grade, file_url, file_path, created_at`

// LibraryRepository handles library file metadata.
type LibraryRepository struct {
	pool *pgxpool.Pool
}

func NewLibraryRepository(pool *pgxpool.Pool) *LibraryRepository {
	return &LibraryRepository{pool: pool}
}

func scanLibraryFile(row pgx.Row) (*model.LibraryFile, error) {
	f := &model.LibraryFile{}
	if err := row.Scan(&f.ID, &f.Title, &f.Description, &f.Grade, &f.FileURL, &f.FilePath, &f.CreatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

// List returns library files newest first. An empty grade lists every grade.
func (r *LibraryRepository) List(ctx context.Context, grade string) ([]model.LibraryFile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+libraryColumns+` FROM library_files
		 WHERE ($1 = '' OR grade = $1) ORDER BY created_at DESC`, grade)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []model.LibraryFile{}
	for rows.Next() {
		f, err := scanLibraryFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

func (r *LibraryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.LibraryFile, error) {
	return scanLibraryFile(r.pool.QueryRow(ctx, `SELECT `+libraryColumns+` FROM library_files WHERE id = $1`, id))
}

func (r *LibraryRepository) Create(ctx context.Context, f *model.LibraryFile) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO library_files (title, description, grade, file_url, file_path)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		f.Title, f.Description, f.Grade, f.FileURL, f.FilePath,
	).Scan(&f.ID, &f.CreatedAt)
}

func (r *LibraryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM library_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
