// Copyright (c) 2026 Veranda Systems. All rights reserved.

// Command mailworker is the background email delivery process.
//
// It consumes email jobs from the durable RabbitMQ queue and delivers them
// over SMTP. The worker runs separately from the API server so a slow mail
// provider never affects request latency.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/verandahq/veranda/internal/mail"
	"github.com/verandahq/veranda/internal/platform/config"
)

func main() {
	_ = godotenv.Load()

	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	log := rawLog.With(slog.String("app", "veranda-mailworker"))
	slog.SetDefault(log)

	log.Info("[Veranda] mailworker_initializing")

	cfg, err := config.Load()
	if err != nil {
		log.Error("startup failure",
			slog.String("context", "load configuration"),
			slog.Any("error", err),
		)
		os.Exit(1)
	}

	mailer := mail.NewMailer(cfg, log)
	if !mailer.IsOperational() {
		log.Warn("mailer_not_operational_emails_will_be_dropped")
	}

	consumer := mail.NewConsumer(cfg.AMQPURL, mailer, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-quit
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()
	}()

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("mailworker stopped cleanly")
}
