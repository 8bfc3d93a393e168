package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/tutor"
)

// TutorFallback is appended in place of a reply whenever generation fails.
const TutorFallback = "عذراً، حدث خطأ أثناء معالجة طلبك. يرجى المحاولة مرة أخرى."

var errEmptyAnswer = errors.New("tutor returned an empty answer")

// TutorService relays a transcript to the language model. It keeps no
// state between calls.
type TutorService struct {
	provider  tutor.Provider
	maxTokens int
	timeout   time.Duration
	log       zerolog.Logger
}

// NewTutorService creates a new TutorService. A nil provider makes every
// call answer with the fallback.
func NewTutorService(provider tutor.Provider, maxTokens int, timeout time.Duration, log zerolog.Logger) *TutorService {
	return &TutorService{
		provider:  provider,
		maxTokens: maxTokens,
		timeout:   timeout,
		log:       log.With().Str("component", "tutor_service").Logger(),
	}
}

// Ask appends the user's message and the model's reply to the history.
// Any failure yields the fallback reply instead of an error.
func (s *TutorService) Ask(ctx context.Context, req model.TutorRequest) *model.TutorResponse {
	history := make([]model.ChatTurn, 0, len(req.History)+2)
	history = append(history, req.History...)
	history = append(history, model.ChatTurn{Role: model.TutorRoleUser, Content: strings.TrimSpace(req.Message)})

	answer, err := s.generate(ctx, history)
	fallback := false
	if err != nil {
		s.log.Warn().Err(err).Int("turns", len(history)).Msg("Tutor reply failed, using fallback")
		answer = TutorFallback
		fallback = true
	}

	history = append(history, model.ChatTurn{Role: model.TutorRoleModel, Content: answer})
	return &model.TutorResponse{History: history, Answer: answer, Fallback: fallback}
}

func (s *TutorService) generate(ctx context.Context, history []model.ChatTurn) (string, error) {
	if s.provider == nil {
		return "", tutor.ErrNotConfigured
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	msgs := make([]tutor.Message, len(history))
	for i, t := range history {
		msgs[i] = tutor.Message{Role: tutor.Role(t.Role), Content: t.Content}
	}

	resp, err := s.provider.Generate(ctx, tutor.Request{
		System:    tutor.SystemPrompt,
		Messages:  msgs,
		Schema:    tutor.AnswerSchema,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", &tutor.ErrInvalidResponse{Err: err}
	}
	if strings.TrimSpace(out.Answer) == "" {
		return "", errEmptyAnswer
	}
	return out.Answer, nil
}
