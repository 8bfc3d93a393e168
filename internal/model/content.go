package model

import (
	"time"

	"github.com/google/uuid"
)

// LibraryFile is a downloadable PDF scoped to a grade.
type LibraryFile struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Grade       string    `json:"grade"`
	FileURL     string    `json:"file_url"`
	FilePath    string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type LibraryFileRequest struct {
	Title       string `form:"title" binding:"required,min=3,max=255"`
	Description string `form:"description" binding:"omitempty,max=5000"`
	Grade       string `form:"grade" binding:"required,grade"`
}

// Explanation is a YouTube lesson scoped to a grade.
type Explanation struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Grade       string    `json:"grade"`
	VideoURL    string    `json:"video_url"`
	EmbedID     string    `json:"embed_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExplanationRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	VideoURL    string `json:"video_url" binding:"required,url,youtube"`
	Grade       string `json:"grade" binding:"required,grade"`
}

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessageRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,min=10,max=5000"`
}
