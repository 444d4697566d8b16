// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcome(t *testing.T) {
	message := Welcome("jonas@example.com", "Jonas Schmedtmann", "https://admin.example.com/verify/abc", 24*time.Hour)

	assert.Equal(t, "jonas@example.com", message.To)
	assert.Equal(t, "Welcome to The Wild Oasis! Let's activate your account (Valid for 24 hrs)", message.Subject)
	assert.Contains(t, message.Text, "Hi Jonas,")
	assert.Contains(t, message.Text, "https://admin.example.com/verify/abc")
}

func TestPasswordReset(t *testing.T) {
	message := PasswordReset("jonas@example.com", "", "https://admin.example.com/reset/xyz", 10*time.Minute)

	assert.Equal(t, "Your reset password token (valid for 10 mins)", message.Subject)
	assert.Contains(t, message.Text, "Hi there,")
	assert.Contains(t, message.Text, "https://admin.example.com/reset/xyz")
}

func TestFromAddress(t *testing.T) {
	assert.Equal(t, "The Wild Oasis | Admin Portal <noreply@wildoasis.dev>", FromAddress("noreply@wildoasis.dev"))
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage(FromAddress("noreply@wildoasis.dev"), Message{
		To:      "guest@example.com",
		Subject: "Hello",
		Text:    "Body",
	})
	require.NoError(t, err)

	var rendered strings.Builder
	_, err = msg.WriteTo(&rendered)
	require.NoError(t, err)
	assert.Contains(t, rendered.String(), "Subject: Hello")
	assert.Contains(t, rendered.String(), "<guest@example.com>")

	_, err = buildMessage("noreply@wildoasis.dev", Message{To: "not an address"})
	assert.Error(t, err)
}

// # Consumer

type recordingNotifier struct {
	sent []Message
	err  error
}

func (notifier *recordingNotifier) Send(_ context.Context, message Message) error {
	notifier.sent = append(notifier.sent, message)
	return notifier.err
}

type recordingAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (ack *recordingAck) Ack(bool) error { ack.acked = true; return nil }

func (ack *recordingAck) Nack(_ bool, requeue bool) error {
	ack.nacked, ack.requeue = true, requeue
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDeliver(t *testing.T) {
	body := []byte(`{"to":"guest@example.com","subject":"Hi","text":"Body"}`)

	t.Run("acks sent messages", func(t *testing.T) {
		notifier, ack := &recordingNotifier{}, &recordingAck{}
		deliver(context.Background(), body, false, ack, notifier, discardLogger())

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "guest@example.com", notifier.sent[0].To)
		assert.True(t, ack.acked)
	})

	t.Run("requeues first failure", func(t *testing.T) {
		notifier, ack := &recordingNotifier{err: errors.New("smtp down")}, &recordingAck{}
		deliver(context.Background(), body, false, ack, notifier, discardLogger())

		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("drops redelivered failure", func(t *testing.T) {
		notifier, ack := &recordingNotifier{err: errors.New("smtp down")}, &recordingAck{}
		deliver(context.Background(), body, true, ack, notifier, discardLogger())

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})

	t.Run("drops malformed body", func(t *testing.T) {
		notifier, ack := &recordingNotifier{}, &recordingAck{}
		deliver(context.Background(), []byte("{"), false, ack, notifier, discardLogger())

		assert.Empty(t, notifier.sent)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})
}

// # Queue

type fakeConnection struct {
	closed     bool
	closeCalls int
}

func (c *fakeConnection) IsClosed() bool { return c.closed }

func (c *fakeConnection) Close() error {
	c.closeCalls++
	c.closed = true
	return nil
}

type fakeChannel struct {
	closed    bool
	published []amqp.Publishing
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) PublishWithContext(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
	if c.closed {
		return amqp.ErrClosed
	}
	c.published = append(c.published, msg)
	return nil
}

// newTestQueue returns a queue whose dial hands out fresh fakes.
func newTestQueue(t *testing.T) (*Queue, *[]*fakeChannel, *[]*fakeConnection) {
	t.Helper()
	channels, connections := &[]*fakeChannel{}, &[]*fakeConnection{}
	queue := &Queue{queue: "mail", logger: discardLogger()}
	queue.dial = func() (brokerConnection, publisher, error) {
		connection, channel := &fakeConnection{}, &fakeChannel{}
		*connections = append(*connections, connection)
		*channels = append(*channels, channel)
		return connection, channel, nil
	}
	require.NoError(t, queue.connect())
	return queue, channels, connections
}

func TestQueue_Send(t *testing.T) {
	message := Message{To: "guest@example.com", Subject: "Hi", Text: "Body"}

	t.Run("publishes on the open channel", func(t *testing.T) {
		queue, channels, _ := newTestQueue(t)
		require.NoError(t, queue.Send(context.Background(), message))

		require.Len(t, *channels, 1)
		require.Len(t, (*channels)[0].published, 1)
		assert.Equal(t, "application/json", (*channels)[0].published[0].ContentType)
		assert.Equal(t, amqp.Persistent, (*channels)[0].published[0].DeliveryMode)
	})

	t.Run("reopens a closed channel on a live connection", func(t *testing.T) {
		queue, channels, connections := newTestQueue(t)
		(*channels)[0].closed = true

		require.NoError(t, queue.Send(context.Background(), message))

		require.Len(t, *channels, 2)
		assert.Len(t, (*channels)[1].published, 1)
		assert.Equal(t, 1, (*connections)[0].closeCalls)
	})

	t.Run("reconnects a closed connection", func(t *testing.T) {
		queue, channels, connections := newTestQueue(t)
		(*connections)[0].closed = true

		require.NoError(t, queue.Send(context.Background(), message))

		require.Len(t, *channels, 2)
		assert.Len(t, (*channels)[1].published, 1)
		assert.Zero(t, (*connections)[0].closeCalls)
	})

	t.Run("reports a failed reconnect", func(t *testing.T) {
		queue, channels, _ := newTestQueue(t)
		(*channels)[0].closed = true
		queue.dial = func() (brokerConnection, publisher, error) {
			return nil, nil, errors.New("mailer_amqp_dial_failed: refused")
		}

		err := queue.Send(context.Background(), message)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refused")
	})
}
