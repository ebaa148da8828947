// Copyright (c) 2026 Veranda Systems. All rights reserved.

package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/verandahq/veranda/internal/platform/constants"
)

const (
	consumerPrefetch   = 50
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

/*
Consumer drains the email queue and delivers each job over SMTP.

Run blocks until the context is cancelled. Broker failures are handled with
an exponential-backoff reconnect loop; a malformed or unrenderable message is
rejected without requeue so it cannot wedge the queue, while an SMTP failure
nacks with requeue so delivery is retried once the mail server recovers.
*/
type Consumer struct {
	url    string
	mailer *Mailer
	logger *slog.Logger
}

func NewConsumer(url string, mailer *Mailer, logger *slog.Logger) *Consumer {
	return &Consumer{url: url, mailer: mailer, logger: logger}
}

func (consumer *Consumer) Run(ctx context.Context) error {
	backoff := reconnectBaseDelay

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := amqp.Dial(consumer.url)
		if err != nil {
			consumer.logger.Warn("email_consumer_dial_failed",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", backoff),
			)
			if !sleepContext(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < reconnectMaxDelay {
				backoff *= 2
			}
			continue
		}
		backoff = reconnectBaseDelay

		err = consumer.consumeLoop(ctx, conn)
		_ = conn.Close()
		if errors.Is(err, context.Canceled) {
			return err
		}

		consumer.logger.Warn("email_consumer_loop_ended",
			slog.String("error", err.Error()),
		)
		if !sleepContext(ctx, reconnectBaseDelay) {
			return ctx.Err()
		}
	}
}

func (consumer *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open_channel: %w", err)
	}
	defer func() { _ = channel.Close() }()

	if err := channel.Qos(consumerPrefetch, 0, false); err != nil {
		return fmt.Errorf("set_qos: %w", err)
	}

	if _, err := channel.QueueDeclare(constants.EmailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare_queue: %w", err)
	}

	deliveries, err := channel.Consume(constants.EmailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume_queue: %w", err)
	}

	consumer.logger.Info("email_consumer_started", slog.String("queue", constants.EmailQueueName))

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case delivery, open := <-deliveries:
			if !open {
				return errors.New("deliveries channel closed")
			}
			consumer.handle(delivery)
		}
	}
}

func (consumer *Consumer) handle(delivery amqp.Delivery) {
	job, err := DecodeJob(delivery.Body)
	if err != nil {
		consumer.logger.Error("email_job_rejected", slog.String("error", err.Error()))
		_ = delivery.Nack(false, false)
		return
	}

	subject, body, err := Render(job)
	if err != nil {
		consumer.logger.Error("email_job_rejected",
			slog.String("kind", job.Kind),
			slog.String("error", err.Error()),
		)
		_ = delivery.Nack(false, false)
		return
	}

	if err := consumer.mailer.Send(job.To, subject, body); err != nil {
		consumer.logger.Warn("email_delivery_failed_requeued",
			slog.String("kind", job.Kind),
			slog.String("to", job.To),
			slog.String("error", err.Error()),
		)
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
