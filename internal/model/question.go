package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionParent names the kind of set a question belongs to.
type QuestionParent string

const (
	ParentExam     QuestionParent = "exam"
	ParentPractice QuestionParent = "practice"
)

// OptionCount is the fixed number of options per question.
const OptionCount = 4

// Question is one multiple-choice item of an exam or a practice set.
type Question struct {
	ID            uuid.UUID  `json:"id"`
	ExamID        *uuid.UUID `json:"exam_id,omitempty"`
	PracticeID    *uuid.UUID `json:"practice_id,omitempty"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   *string    `json:"explanation,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// QuestionForStudent hides the correct answer from exam takers.
type QuestionForStudent struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Options []string  `json:"options"`
}

// QuestionRequest creates or replaces a question. correct_answer must be
// one of the options; the validator enforces it.
type QuestionRequest struct {
	Text          string   `json:"text" binding:"required,min=5,max=2000"`
	Options       []string `json:"options" binding:"required,len=4,dive,required,max=500"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Explanation   *string  `json:"explanation" binding:"omitempty,max=2000"`
}
