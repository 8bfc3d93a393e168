package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farisarabic/faris-backend/internal/model"
)

// DashboardCounts holds the totals shown on the admin dashboard.
type DashboardCounts struct {
	Students        int `json:"students"`
	PendingStudents int `json:"pending_students"`
	Exams           int `json:"exams"`
	Practice        int `json:"practice"`
	Explanations    int `json:"explanations"`
	LibraryFiles    int `json:"library_files"`
	Results         int `json:"results"`
	PracticeResults int `json:"practice_results"`
	UnreadMessages  int `json:"unread_messages"`
}

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard in one round trip.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (DashboardCounts, error) {
	var c DashboardCounts
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users WHERE role = $1),
			(SELECT COUNT(*) FROM users WHERE role = $1 AND status = $2),
			(SELECT COUNT(*) FROM exams),
			(SELECT COUNT(*) FROM practices),
			(SELECT COUNT(*) FROM explanations),
			(SELECT COUNT(*) FROM library_files),
			(SELECT COUNT(*) FROM results),
			(SELECT COUNT(*) FROM practice_results),
			(SELECT COUNT(*) FROM contact_messages WHERE NOT read)`,
		model.RoleStudent, model.UserStatusPending,
	).Scan(&c.Students, &c.PendingStudents, &c.Exams, &c.Practice, &c.Explanations,
		&c.LibraryFiles, &c.Results, &c.PracticeResults, &c.UnreadMessages)
	return c, err
}
