package model

import (
	"time"

	"github.com/google/uuid"
)

// Result is one student's finalized exam attempt. At most one exists per
// (student, exam).
type Result struct {
	ID             uuid.UUID         `json:"id"`
	StudentID      uuid.UUID         `json:"student_id"`
	ExamID         uuid.UUID         `json:"exam_id"`
	Type           ExamType          `json:"type"`
	ExamTitle      string            `json:"exam_title"`
	GradeLevel     string            `json:"grade_level"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	Answers        map[string]string `json:"answers,omitempty"`
	FileURL        *string           `json:"file_url,omitempty"`
	FilePath       *string           `json:"-"`
	Grade          *string           `json:"grade,omitempty"` // manual grade, file exams only
	SubmittedAt    time.Time         `json:"submitted_at"`

	// Populated by admin listings.
	StudentName string `json:"student_name,omitempty"`
}

// PracticeResult is one finalized practice attempt. Retakes add rows.
type PracticeResult struct {
	ID             uuid.UUID         `json:"id"`
	StudentID      uuid.UUID         `json:"student_id"`
	PracticeID     uuid.UUID         `json:"practice_id"`
	PracticeTitle  string            `json:"practice_title"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	Answers        map[string]string `json:"answers,omitempty"`
	SubmittedAt    time.Time         `json:"submitted_at"`

	StudentName string `json:"student_name,omitempty"`
}

// SubmitAnswersRequest carries a whole attempt for stateless clients.
type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// StudentResultRow is a result together with the current state of its exam.
// ExamExists is false once the exam has been deleted.
type StudentResultRow struct {
	Result
	ExamExists       bool
	ResultsPublished bool
}
