// Copyright (c) 2026 Veranda Systems. All rights reserved.

package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/verandahq/veranda/internal/platform/config"
)

/*
Mailer delivers rendered emails over SMTP.

The mailer is deliberately tolerant of missing configuration: when SMTP is
not configured (or email is disabled), IsOperational reports false and Send
logs the message instead of failing. Local development works without a mail
server that way.
*/
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	enabled  bool
	logger   *slog.Logger
}

func NewMailer(cfg *config.Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		enabled:  cfg.EmailEnabled,
		logger:   logger,
	}
}

// IsOperational reports whether the mailer can actually deliver email.
func (mailer *Mailer) IsOperational() bool {
	return mailer.enabled && mailer.host != "" && mailer.from != ""
}

// Send delivers one HTML email. When the mailer is not operational the
// message is logged and dropped.
func (mailer *Mailer) Send(to, subject, htmlBody string) error {
	if !mailer.IsOperational() {
		mailer.logger.Info("email_skipped_mailer_not_operational",
			slog.String("to", to),
			slog.String("subject", subject),
		)
		return nil
	}

	message := strings.Join([]string{
		fmt.Sprintf("From: %s", mailer.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	address := fmt.Sprintf("%s:%d", mailer.host, mailer.port)

	var auth smtp.Auth
	if mailer.username != "" {
		auth = smtp.PlainAuth("", mailer.username, mailer.password, mailer.host)
	}

	if err := smtp.SendMail(address, auth, mailer.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("send_email: %w", err)
	}

	mailer.logger.Info("email_sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
