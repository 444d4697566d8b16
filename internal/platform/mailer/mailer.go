// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer sends account emails.

Two transports implement [Notifier]:

  - SMTP: messages are delivered synchronously through go-mail.
  - AMQP: messages are published to a durable RabbitMQ queue and delivered
    by the mail worker (cmd/mailworker), which consumes the queue and sends
    through SMTP.

The auth flows only depend on [Notifier]; a failed Send is reported to them
so they can roll back the token they just issued.
*/
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Message is one plain-text email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Notifier delivers messages.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// senderName is shown as the display name of every email.
const senderName = "The Wild Oasis | Admin Portal"

// FromAddress formats the From header for address.
func FromAddress(address string) string {
	return fmt.Sprintf("%s <%s>", senderName, address)
}

// # Templates

// firstName returns the first word of a full name.
func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

// Welcome builds the account activation email.
func Welcome(to, fullName, link string, validFor time.Duration) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Welcome to The Wild Oasis! Let's activate your account (Valid for %d hrs)", int(validFor.Hours())),
		Text: fmt.Sprintf("Hi %s,\n\nAn account has been created for you on The Wild Oasis admin portal.\n"+
			"Verify your email address to activate it:\n\n%s\n\nIf you did not expect this email, you can ignore it.\n",
			firstName(fullName), link),
	}
}

// PasswordReset builds the password reset email.
func PasswordReset(to, fullName, link string, validFor time.Duration) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your reset password token (valid for %d mins)", int(validFor.Minutes())),
		Text: fmt.Sprintf("Hi %s,\n\nForgot your password? Choose a new one here:\n\n%s\n\n"+
			"If you didn't forget your password, please ignore this email.\n",
			firstName(fullName), link),
	}
}
