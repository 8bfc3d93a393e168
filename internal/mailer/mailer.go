// Package mailer renders and delivers transactional email. Handlers never
// send directly: they push onto a Redis list that worker.MailWorker drains.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/config"
)

// Message is one outbound email.
type Message struct {
	ToName  string `json:"to_name"`
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Envelope is the queued form of a message.
type Envelope struct {
	Message  Message `json:"message"`
	Attempts int     `json:"attempts"`
}

// Queue pushes messages onto the outbound mail list.
type Queue struct {
	rdb *redis.Client
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Enqueue schedules msg for delivery.
func (q *Queue) Enqueue(ctx context.Context, msg Message) error {
	return q.push(ctx, Envelope{Message: msg})
}

// Requeue puts a failed envelope back at the tail of the list.
func (q *Queue) Requeue(ctx context.Context, env Envelope) error {
	return q.push(ctx, env)
}

func (q *Queue) push(ctx context.Context, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.OutboundMailQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}

// NewSender builds the Sender selected by cfg.MailDriver.
func NewSender(cfg *config.Config, log zerolog.Logger) (Sender, error) {
	switch cfg.MailDriver {
	case config.MailDriverConsole, "":
		return NewConsoleSender(log), nil
	case config.MailDriverSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is required for mail driver %q", cfg.MailDriver)
		}
		return NewSendgridSender(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddress), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}

// ConsoleSender logs messages instead of delivering them. Used in development.
type ConsoleSender struct {
	log zerolog.Logger
}

func NewConsoleSender(log zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{log: log.With().Str("component", "console_mailer").Logger()}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("Mail (console driver)")
	return nil
}
