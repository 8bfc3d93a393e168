package mailer

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farisarabic/faris-backend/internal/config"
)

func TestQueueEnqueue(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	q := NewQueue(rdb)

	msg := Message{ToEmail: "student@example.com", Subject: "hi", Text: "body"}
	require.NoError(t, q.Enqueue(context.Background(), msg))

	items, err := mr.List(config.WorkerKey.OutboundMailQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(items[0]), &env))
	assert.Equal(t, msg, env.Message)
	assert.Zero(t, env.Attempts)
}

func TestPasswordResetTemplate(t *testing.T) {
	msg := PasswordReset("فارس", "أحمد", "a@example.com", "https://faris.example/reset", "tok en", 30*time.Minute)

	assert.Equal(t, "a@example.com", msg.ToEmail)
	assert.Contains(t, msg.Text, "https://faris.example/reset?token=tok+en")
	assert.Contains(t, msg.Text, "30")
	assert.True(t, strings.HasPrefix(msg.HTML, `<div dir="rtl">`))
}

func TestSendgridBuild(t *testing.T) {
	s := NewSendgridSender("key", "Faris", "no-reply@faris.example")
	m := s.build(Message{ToName: "Ali", ToEmail: "ali@example.com", Subject: "s", Text: "t"})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "s", m.Personalizations[0].Subject)
	assert.Equal(t, "ali@example.com", m.Personalizations[0].To[0].Address)
	assert.Len(t, m.Content, 1)
}
