// Package email delivers transactional mail over SMTP.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds SMTP connection settings. An empty Host disables delivery:
// the sender degrades to logging, which keeps local development mail-free.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPSender sends welcome emails via a plain SMTP relay.
type SMTPSender struct {
	cfg Config
	log zerolog.Logger
}

func NewSMTPSender(cfg Config, log zerolog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log.With().Str("component", "email").Logger()}
}

// SendWelcome delivers the post-registration welcome message. The ctx
// deadline is honoured only coarsely: net/smtp has no context support, so a
// cancelled context short-circuits before dialing.
func (s *SMTPSender) SendWelcome(ctx context.Context, to, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := "Welcome to AccountHub"
	body := fmt.Sprintf("Hi %s,\r\n\r\nYour account has been created. Welcome aboard!\r\n", name)

	if s.cfg.Host == "" {
		s.log.Info().Str("to", to).Str("subject", subject).Msg("smtp not configured, logging welcome email instead")
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := s.cfg.Host + ":" + s.cfg.Port
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	s.log.Info().Str("to", to).Msg("welcome email sent")
	return nil
}
