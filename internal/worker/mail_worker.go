package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/config"
	"github.com/farisarabic/faris-backend/internal/mailer"
)

const (
	MailPollTimeout = 1 * time.Second
	MailMaxAttempts = 5
)

// MailWorker drains the outbound mail queue and hands each message to the
// configured Sender. Failed deliveries go back on the queue until they run
// out of attempts.
type MailWorker struct {
	rdb    *redis.Client
	queue  *mailer.Queue
	sender mailer.Sender
	log    zerolog.Logger
}

func NewMailWorker(rdb *redis.Client, sender mailer.Sender, log zerolog.Logger) *MailWorker {
	return &MailWorker{
		rdb:    rdb,
		queue:  mailer.NewQueue(rdb),
		sender: sender,
		log:    log.With().Str("component", "mail_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled.
func (w *MailWorker) Start(ctx context.Context) {
	w.log.Info().Msg("MailWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("MailWorker stopped")
			return
		default:
		}

		item, err := w.rdb.BLPop(ctx, MailPollTimeout, config.WorkerKey.OutboundMailQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("BLPop error")
				time.Sleep(MailPollTimeout)
			}
			continue
		}
		if len(item) < 2 {
			continue
		}

		var env mailer.Envelope
		if err := json.Unmarshal([]byte(item[1]), &env); err != nil {
			w.log.Error().Err(err).Msg("Invalid JSON payload, dropping")
			continue
		}

		w.deliver(ctx, env)
	}
}

func (w *MailWorker) deliver(ctx context.Context, env mailer.Envelope) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	err := w.sender.Send(sendCtx, env.Message)
	if err == nil {
		w.log.Debug().Str("to", env.Message.ToEmail).Msg("Mail delivered")
		return
	}

	env.Attempts++
	if env.Attempts >= MailMaxAttempts {
		w.log.Error().Err(err).Str("to", env.Message.ToEmail).Int("attempts", env.Attempts).
			Msg("Mail delivery failed, giving up")
		return
	}

	w.log.Warn().Err(err).Str("to", env.Message.ToEmail).Int("attempts", env.Attempts).
		Msg("Mail delivery failed, requeueing")
	if err := w.queue.Requeue(context.WithoutCancel(ctx), env); err != nil {
		w.log.Error().Err(err).Msg("Requeue failed, mail lost")
	}
}
