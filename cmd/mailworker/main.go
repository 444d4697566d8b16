// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mailworker drains the outbound mail queue and delivers each
// message through SMTP. It is only needed when the API runs with
// NOTIFIER=amqp.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/wildoasis/internal/platform/config"
	"github.com/taibuivan/wildoasis/internal/platform/mailer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "wildoasis"),
		slog.String("component", "mailworker"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("startup_failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		log.Error("startup_failure", slog.String("context", "AMQP_URL is not set"))
		os.Exit(1)
	}

	smtp, err := mailer.NewSMTP(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		log.Error("startup_failure", slog.String("context", "initialize smtp"), slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mailer.Consume(ctx, cfg.AMQPURL, cfg.MailQueue, smtp, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("mailworker_failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("mailworker_stopped")
}
