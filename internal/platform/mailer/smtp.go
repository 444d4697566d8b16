// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP delivers messages through an SMTP relay.
type SMTP struct {
	client *mail.Client
	from   string
}

// NewSMTP creates an SMTP notifier. Authentication is only enabled when a
// username is configured; STARTTLS is used whenever the server offers it.
func NewSMTP(config SMTPConfig) (*SMTP, error) {
	options := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if config.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	client, err := mail.NewClient(config.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("mailer_smtp_init_failed: %w", err)
	}

	return &SMTP{client: client, from: FromAddress(config.From)}, nil
}

// Send implements [Notifier].
func (s *SMTP) Send(ctx context.Context, message Message) error {
	msg, err := buildMessage(s.from, message)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer_smtp_send_failed: %w", err)
	}
	return nil
}

func buildMessage(from string, message Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("mailer_invalid_from: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("mailer_invalid_recipient: %w", err)
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Text)
	return msg, nil
}
