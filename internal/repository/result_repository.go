package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/database"
	"github.com/farisarabic/faris-backend/internal/model"
)

// ErrDuplicateResult is returned when a second result is written for the
// same (student, exam) pair.
var ErrDuplicateResult = errors.New("result already exists for student and exam")

const resultColumns = `r.id, r.student_id, r.exam_id, r.type, r.exam_title, r.grade_level, r.score,
	r.total_questions, r.answers, r.file_url, r.file_path, r.grade, r.submitted_at`

// ResultRepository handles exam result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func scanResult(row pgx.Row, extra ...any) (*model.Result, error) {
	res := &model.Result{}
	dest := []any{&res.ID, &res.StudentID, &res.ExamID, &res.Type, &res.ExamTitle, &res.GradeLevel,
		&res.Score, &res.TotalQuestions, &res.Answers, &res.FileURL, &res.FilePath, &res.Grade, &res.SubmittedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return res, nil
}

// Create inserts a result. The unique (student_id, exam_id) constraint turns
// a concurrent second submission into ErrDuplicateResult.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO results (student_id, exam_id, type, exam_title, grade_level, score, total_questions,
		                      answers, file_url, file_path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, submitted_at`,
		res.StudentID, res.ExamID, res.Type, res.ExamTitle, res.GradeLevel, res.Score, res.TotalQuestions,
		res.Answers, res.FileURL, res.FilePath,
	).Scan(&res.ID, &res.SubmittedAt)
	if database.IsUniqueViolation(err, "results_student_exam_key") {
		return ErrDuplicateResult
	}
	return err
}

// GetByID retrieves a result by ID.
func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	var name *string
	res, err := scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+`, u.username FROM results r
		 LEFT JOIN users u ON u.id = r.student_id
		 WHERE r.id = $1`, id), &name)
	if err != nil {
		return nil, err
	}
	if name != nil {
		res.StudentName = *name
	}
	return res, nil
}

// FindByStudentAndExam returns the student's result for an exam, or pgx.ErrNoRows.
func (r *ResultRepository) FindByStudentAndExam(ctx context.Context, studentID, examID uuid.UUID) (*model.Result, error) {
	return scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results r WHERE r.student_id = $1 AND r.exam_id = $2`,
		studentID, examID))
}

// ListByStudent returns a student's results with the visibility state of
// each exam, newest first.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.StudentResultRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+`, e.id IS NOT NULL, COALESCE(e.results_published, FALSE)
		 FROM results r
		 LEFT JOIN exams e ON e.id = r.exam_id
		 WHERE r.student_id = $1
		 ORDER BY r.submitted_at DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.StudentResultRow{}
	for rows.Next() {
		var row model.StudentResultRow
		res, err := scanResult(rows, &row.ExamExists, &row.ResultsPublished)
		if err != nil {
			return nil, err
		}
		row.Result = *res
		list = append(list, row)
	}
	return list, rows.Err()
}

// ListPaginated returns all results joined with the student name, newest first.
func (r *ResultRepository) ListPaginated(ctx context.Context, examID *uuid.UUID, limit, offset int) ([]model.Result, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM results WHERE ($1::uuid IS NULL OR exam_id = $1)`, examID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+`, u.username FROM results r
		 LEFT JOIN users u ON u.id = r.student_id
		 WHERE ($1::uuid IS NULL OR r.exam_id = $1)
		 ORDER BY r.submitted_at DESC LIMIT $2 OFFSET $3`,
		examID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []model.Result{}
	for rows.Next() {
		var name *string
		res, err := scanResult(rows, &name)
		if err != nil {
			return nil, 0, err
		}
		if name != nil {
			res.StudentName = *name
		}
		results = append(results, *res)
	}
	return results, total, rows.Err()
}

// SetGrade writes the manual grade of a file-exam result.
func (r *ResultRepository) SetGrade(ctx context.Context, id uuid.UUID, grade string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE results SET grade = $1 WHERE id = $2`, grade, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
