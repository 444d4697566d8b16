// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher is the part of an AMQP channel used to enqueue messages.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
}

// brokerConnection is the part of an AMQP connection the queue manages.
type brokerConnection interface {
	IsClosed() bool
	Close() error
}

// Queue publishes messages to a durable RabbitMQ queue.
type Queue struct {
	mu         sync.Mutex
	url        string
	queue      string
	connection brokerConnection
	channel    publisher
	dial       func() (brokerConnection, publisher, error)
	logger     *slog.Logger
}

// NewQueue connects to the broker and declares the queue.
func NewQueue(url, queue string, logger *slog.Logger) (*Queue, error) {
	notifier := &Queue{url: url, queue: queue, logger: logger}
	notifier.dial = notifier.open
	if err := notifier.connect(); err != nil {
		return nil, err
	}
	return notifier, nil
}

// open dials the broker and declares the queue on a fresh channel.
func (q *Queue) open() (brokerConnection, publisher, error) {
	connection, err := amqp.Dial(q.url)
	if err != nil {
		return nil, nil, fmt.Errorf("mailer_amqp_dial_failed: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, nil, fmt.Errorf("mailer_amqp_channel_failed: %w", err)
	}

	if _, err := channel.QueueDeclare(q.queue, true, false, false, false, nil); err != nil {
		_ = connection.Close()
		return nil, nil, fmt.Errorf("mailer_amqp_declare_failed: %w", err)
	}
	return connection, channel, nil
}

// connect replaces the connection and channel, closing a connection that is
// still open.
func (q *Queue) connect() error {
	connection, channel, err := q.dial()
	if err != nil {
		return err
	}

	if q.connection != nil && !q.connection.IsClosed() {
		_ = q.connection.Close()
	}
	q.connection = connection
	q.channel = channel
	return nil
}

// broken reports whether the connection or the channel has gone away.
func (q *Queue) broken() bool {
	if q.connection == nil || q.connection.IsClosed() {
		return true
	}
	return q.channel == nil || q.channel.IsClosed()
}

// Send implements [Notifier]. A closed connection or channel is
// re-established once.
func (q *Queue) Send(ctx context.Context, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("mailer_amqp_marshal_failed: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.broken() {
		q.logger.WarnContext(ctx, "mail_queue_reconnecting", slog.String("queue", q.queue))
		if err := q.connect(); err != nil {
			return err
		}
	}

	err = q.channel.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("mailer_amqp_publish_failed: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.connection == nil {
		return nil
	}
	return q.connection.Close()
}

// # Consumer

// Consume delivers queued messages through notifier until ctx is done.
// Messages that cannot be decoded are dropped; delivery failures are
// requeued once and dropped on the second failure.
func Consume(ctx context.Context, url, queue string, notifier Notifier, logger *slog.Logger) error {
	connection, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("mailer_amqp_dial_failed: %w", err)
	}
	defer func() { _ = connection.Close() }()

	channel, err := connection.Channel()
	if err != nil {
		return fmt.Errorf("mailer_amqp_channel_failed: %w", err)
	}
	defer func() { _ = channel.Close() }()

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("mailer_amqp_declare_failed: %w", err)
	}
	if err := channel.Qos(10, 0, false); err != nil {
		return fmt.Errorf("mailer_amqp_qos_failed: %w", err)
	}

	deliveries, err := channel.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("mailer_amqp_consume_failed: %w", err)
	}

	logger.InfoContext(ctx, "mail_worker_started", slog.String("queue", queue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("mailer_amqp_deliveries_closed")
			}
			handleDelivery(ctx, delivery, notifier, logger)
		}
	}
}

// acknowledger is the part of a delivery used to settle it.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// handleDelivery sends one queued message and settles the delivery.
func handleDelivery(ctx context.Context, delivery amqp.Delivery, notifier Notifier, logger *slog.Logger) {
	deliver(ctx, delivery.Body, delivery.Redelivered, &delivery, notifier, logger)
}

func deliver(ctx context.Context, body []byte, redelivered bool, ack acknowledger, notifier Notifier, logger *slog.Logger) {
	var message Message
	if err := json.Unmarshal(body, &message); err != nil {
		logger.ErrorContext(ctx, "mail_message_invalid", slog.Any("error", err))
		_ = ack.Nack(false, false)
		return
	}

	if err := notifier.Send(ctx, message); err != nil {
		logger.ErrorContext(ctx, "mail_dispatch_failed",
			slog.Any("error", err),
			slog.Bool("redelivered", redelivered),
		)
		_ = ack.Nack(false, !redelivered)
		return
	}

	_ = ack.Ack(false)
}
