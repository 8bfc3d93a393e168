// Package tutor talks to the language model behind the AI tutor.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/farisarabic/faris-backend/internal/config"
)

// Provider generates the next model turn of a conversation.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Role is the speaker of a turn. Only the two roles the model API knows.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of the transcript.
type Message struct {
	Role    Role
	Content string
}

// Schema is a JSON Schema the model output must conform to.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Request is one generation call.
type Request struct {
	System    string
	Messages  []Message
	Schema    *Schema
	MaxTokens int
}

// Response holds the validated JSON the model produced.
type Response struct {
	Content json.RawMessage
	Model   string
}

// ErrUnavailable wraps transport and API failures of a provider.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err == nil {
		return "tutor provider unavailable"
	}
	return fmt.Sprintf("tutor provider unavailable: %v", e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse is returned when the model output fails the schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid tutor response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrNotConfigured is returned by NewProvider when no API key is set.
var ErrNotConfigured = errors.New("tutor provider not configured")

// NewProvider builds the Gemini provider from cfg.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrNotConfigured
	}
	p, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	return p, nil
}
