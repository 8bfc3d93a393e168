package model

import (
	"time"

	"github.com/google/uuid"
)

// Practice is a self-review question set with immediate feedback.
type Practice struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Grade          string    `json:"grade"`
	Type           ExamType  `json:"type"`
	QuestionsAdded int       `json:"questions_added"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PracticeRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"required,min=10,max=5000"`
	Grade       string `json:"grade" binding:"required,grade"`
}
