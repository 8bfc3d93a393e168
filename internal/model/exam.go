package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamType discriminates computer-graded exams from file-upload exams.
type ExamType string

const (
	ExamTypeMCQ  ExamType = "mcq"
	ExamTypeFile ExamType = "file"
)

// Exam represents a gradable assessment.
type Exam struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Grade            string    `json:"grade"`
	Type             ExamType  `json:"type"`
	Duration         *int      `json:"duration,omitempty"` // minutes, mcq only
	Questions        int       `json:"questions"`
	FileURL          *string   `json:"file_url,omitempty"`
	FilePath         *string   `json:"-"`
	ResultsPublished bool      `json:"results_published"`
	QuestionsAdded   int       `json:"questions_added"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ExamDraft is the tagged union accepted when creating an exam. The only
// implementations are MCQExamDraft and FileExamDraft.
type ExamDraft interface {
	ExamType() ExamType
}

// MCQExamDraft creates a multiple-choice exam.
type MCQExamDraft struct {
	Type        ExamType `json:"type" binding:"required,eq=mcq"`
	Title       string   `json:"title" binding:"required,min=3,max=255"`
	Description string   `json:"description" binding:"required,min=10,max=5000"`
	Grade       string   `json:"grade" binding:"required,grade"`
	Questions   int      `json:"questions" binding:"required,gt=0,lte=500"`
	Duration    int      `json:"duration" binding:"required,gt=0,lte=600"`
}

func (MCQExamDraft) ExamType() ExamType { return ExamTypeMCQ }

// FileExamDraft creates a file-upload exam. The PDF travels beside it in
// the multipart form.
type FileExamDraft struct {
	Type        ExamType `form:"type" binding:"required,eq=file"`
	Title       string   `form:"title" binding:"required,min=3,max=255"`
	Description string   `form:"description" binding:"required,min=10,max=5000"`
	Grade       string   `form:"grade" binding:"required,grade"`
	Questions   int      `form:"questions" binding:"required,gt=0,lte=500"`
}

func (FileExamDraft) ExamType() ExamType { return ExamTypeFile }

// UpdateExamRequest edits a multiple-choice exam. File exams are immutable.
type UpdateExamRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"required,min=10,max=5000"`
	Grade       string `json:"grade" binding:"required,grade"`
	Questions   int    `json:"questions" binding:"required,gt=0,lte=500"`
	Duration    int    `json:"duration" binding:"required,gt=0,lte=600"`
}

// GradeResultRequest is the manual grade an admin writes on a file result.
type GradeResultRequest struct {
	Grade string `json:"grade" binding:"required,min=1,max=255"`
}
