// Copyright (c) 2026 Veranda Systems. All rights reserved.

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/verandahq/veranda/internal/platform/constants"
)

/*
Publisher enqueues email jobs onto the durable email queue.

A single connection and channel are held for the lifetime of the process and
re-dialed lazily after a broker failure. All Publish* methods return an error
so callers can log it, but services treat publishing as best-effort and never
fail a request over it.
*/
type Publisher struct {
	url    string
	logger *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishWelcome enqueues the post-registration welcome email.
func (publisher *Publisher) PublishWelcome(ctx context.Context, recipient, firstName string) error {
	return publisher.publish(ctx, &Job{
		Kind: KindWelcome,
		To:   recipient,
		Data: map[string]string{
			"first_name": firstName,
		},
	})
}

// PublishReservationConfirmed enqueues the reservation confirmation email.
func (publisher *Publisher) PublishReservationConfirmed(ctx context.Context, recipient, firstName, spaceName string, date time.Time, startTime, endTime string) error {
	return publisher.publish(ctx, &Job{
		Kind: KindReservationConfirmed,
		To:   recipient,
		Data: map[string]string{
			"first_name": firstName,
			"space_name": spaceName,
			"date":       date.Format("2006-01-02"),
			"start_time": startTime,
			"end_time":   endTime,
		},
	})
}

// PublishPaymentReceipt enqueues the payment receipt email.
func (publisher *Publisher) PublishPaymentReceipt(ctx context.Context, recipient, firstName string, amount int64, currency, description string, paidAt time.Time) error {
	return publisher.publish(ctx, &Job{
		Kind: KindPaymentReceipt,
		To:   recipient,
		Data: map[string]string{
			"first_name":  firstName,
			"amount":      FormatAmount(amount, currency),
			"description": description,
			"paid_at":     paidAt.Format("2006-01-02 15:04"),
		},
	})
}

func (publisher *Publisher) publish(ctx context.Context, job *Job) error {
	body, err := job.Encode()
	if err != nil {
		return err
	}

	channel, err := publisher.ensureChannel()
	if err != nil {
		return err
	}

	err = channel.PublishWithContext(ctx,
		"",                       // default exchange
		constants.EmailQueueName, // routing key = queue name
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		publisher.reset()
		return fmt.Errorf("publish_email_job: %w", err)
	}

	publisher.logger.Info("email_job_published",
		slog.String("kind", job.Kind),
		slog.String("to", job.To),
	)
	return nil
}

// ensureChannel returns the live channel, dialing the broker and declaring
// the durable queue on first use or after a failure.
func (publisher *Publisher) ensureChannel() (*amqp.Channel, error) {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.channel != nil && !publisher.channel.IsClosed() {
		return publisher.channel, nil
	}

	// A broker-side close leaves the old connection behind with no publish
	// error to trigger reset; release it before dialing again.
	if publisher.conn != nil {
		_ = publisher.conn.Close()
		publisher.conn = nil
		publisher.channel = nil
	}

	conn, err := amqp.Dial(publisher.url)
	if err != nil {
		return nil, fmt.Errorf("dial_broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open_channel: %w", err)
	}

	if _, err := channel.QueueDeclare(constants.EmailQueueName, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare_queue: %w", err)
	}

	publisher.conn = conn
	publisher.channel = channel
	return channel, nil
}

func (publisher *Publisher) reset() {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.channel != nil {
		_ = publisher.channel.Close()
		publisher.channel = nil
	}
	if publisher.conn != nil {
		_ = publisher.conn.Close()
		publisher.conn = nil
	}
}

// Close releases the broker connection.
func (publisher *Publisher) Close() {
	publisher.reset()
}
