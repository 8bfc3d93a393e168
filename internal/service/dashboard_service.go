package service

import (
	"context"
)

// DashboardData consolidates the counters of the admin dashboard.
type DashboardData struct {
	TotalStudents        int `json:"total_students"`
	PendingStudents      int `json:"pending_students"`
	TotalExams           int `json:"total_exams"`
	TotalPractice        int `json:"total_practice"`
	TotalExplanations    int `json:"total_explanations"`
	TotalLibraryFiles    int `json:"total_library_files"`
	TotalResults         int `json:"total_results"`
	TotalPracticeResults int `json:"total_practice_results"`
	UnreadMessages       int `json:"unread_messages"`
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	repo DashboardStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo DashboardStore) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetDashboardData reads every counter in one round trip.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	c, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalStudents:        c.Students,
		PendingStudents:      c.PendingStudents,
		TotalExams:           c.Exams,
		TotalPractice:        c.Practice,
		TotalExplanations:    c.Explanations,
		TotalLibraryFiles:    c.LibraryFiles,
		TotalResults:         c.Results,
		TotalPracticeResults: c.PracticeResults,
		UnreadMessages:       c.UnreadMessages,
	}, nil
}
