package model

// TutorRole tags a transcript turn. "model" is the assistant side.
type TutorRole string

const (
	TutorRoleUser  TutorRole = "user"
	TutorRoleModel TutorRole = "model"
)

// ChatTurn is one turn of a tutor conversation.
type ChatTurn struct {
	Role    TutorRole `json:"role" binding:"required,oneof=user model"`
	Content string    `json:"content" binding:"required,max=8000"`
}

// TutorRequest carries the visible transcript plus the new user message.
type TutorRequest struct {
	History []ChatTurn `json:"history" binding:"omitempty,max=100,dive"`
	Message string     `json:"message" binding:"required,min=1,max=4000"`
}

// TutorResponse returns the transcript with the reply appended.
type TutorResponse struct {
	History  []ChatTurn `json:"history"`
	Answer   string     `json:"answer"`
	Fallback bool       `json:"fallback"`
}
