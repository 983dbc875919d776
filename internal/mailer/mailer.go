// Package mailer sends transactional and announcement mail over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"paceup/internal/config"
	"paceup/internal/middleware"
	"paceup/internal/observability"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers email. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, kind, to, subject, htmlBody string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds an SMTP-backed mailer from config. Returns an error when SMTP
// is not configured; callers that can run without mail should check
// cfg.SMTPConfigured() first.
func New(cfg *config.Config) (Mailer, error) {
	if !cfg.SMTPConfigured() {
		return nil, fmt.Errorf("smtp is not configured")
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, kind, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		observability.EmailsSent.WithLabelValues(kind, "error").Inc()
		middleware.Logger.ErrorContext(ctx, "email send failed",
			slog.String("kind", kind),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("sending mail: %w", err)
	}
	observability.EmailsSent.WithLabelValues(kind, "ok").Inc()
	return nil
}

// ResetCodeBody renders the password reset email.
func ResetCodeBody(code string) string {
	return fmt.Sprintf(
		`<p>Your PaceUp password reset code is:</p>
<h2 style="letter-spacing:4px">%s</h2>
<p>The code expires in 15 minutes. If you did not request a reset, ignore this email.</p>`,
		code,
	)
}
