package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/tutor"
)

func tutorReq() model.TutorRequest {
	return model.TutorRequest{
		History: []model.ChatTurn{
			{Role: model.TutorRoleUser, Content: "ما الفاعل؟"},
			{Role: model.TutorRoleModel, Content: "الفاعل اسم مرفوع."},
		},
		Message: "أعطني مثالاً",
	}
}

func TestTutorAppendsAnswer(t *testing.T) {
	mock := tutor.NewMockProvider(tutor.MockResponse{Content: json.RawMessage(`{"answer":"جاء **محمدٌ**"}`)})
	svc := NewTutorService(mock, 512, 0, nopLog)

	resp := svc.Ask(context.Background(), tutorReq())
	assert.False(t, resp.Fallback)
	assert.Equal(t, "جاء **محمدٌ**", resp.Answer)
	require.Len(t, resp.History, 4)
	assert.Equal(t, model.TutorRoleUser, resp.History[2].Role)
	assert.Equal(t, "أعطني مثالاً", resp.History[2].Content)
	assert.Equal(t, model.TutorRoleModel, resp.History[3].Role)

	require.Len(t, mock.Calls, 1)
	call := mock.Calls[0]
	assert.Equal(t, tutor.SystemPrompt, call.System)
	assert.Len(t, call.Messages, 3)
	assert.Equal(t, tutor.RoleModel, call.Messages[1].Role)
}

func TestTutorFallback(t *testing.T) {
	cases := map[string]tutor.Provider{
		"not configured": nil,
		"unavailable":    tutor.NewMockProvider(tutor.MockResponse{Err: &tutor.ErrUnavailable{}}),
		"schema":         tutor.NewMockProvider(tutor.MockResponse{Content: json.RawMessage(`{"reply":"x"}`)}),
		"not json":       tutor.NewMockProvider(tutor.MockResponse{Content: json.RawMessage(`hello`)}),
		"blank answer":   tutor.NewMockProvider(tutor.MockResponse{Content: json.RawMessage(`{"answer":"   "}`)}),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			resp := NewTutorService(p, 0, 0, nopLog).Ask(context.Background(), tutorReq())
			assert.True(t, resp.Fallback)
			assert.Equal(t, TutorFallback, resp.Answer)
			require.Len(t, resp.History, 4)
			assert.Equal(t, TutorFallback, resp.History[3].Content)
		})
	}
}
