// Package mail implements mail.Sender over SMTP.
package mail

import (
	"context"
	"fmt"

	"logistics-auth-service/internal/config"
	domainMail "logistics-auth-service/internal/domain/mail"
	"logistics-auth-service/internal/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer      dialer
	defaultFrom string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer:      gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		defaultFrom: cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg domainMail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.defaultFrom
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when no
// SMTP host is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg domainMail.Message) error {
	logger.Info("Mail not sent, SMTP is not configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("event", "mail_logged"),
	)
	return nil
}
