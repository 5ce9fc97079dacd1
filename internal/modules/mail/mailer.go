// Package mail is the outbound e-mail collaborator. Delivery is external to
// the core; the interface exists so the gateway's send_email action has a
// seam, with an SMTP implementation for deployments that configure one.
package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Mailer sends one message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds the connection settings for an SMTP relay.
type SMTPConfig struct {
	Host string
	Port string
	From string
	User string
	Pass string
}

type smtpMailer struct{ cfg SMTPConfig }

// NewSMTPMailer creates a Mailer over an SMTP relay.
func NewSMTPMailer(cfg SMTPConfig) Mailer { return &smtpMailer{cfg: cfg} }

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	if to == "" {
		return apperr.New(apperr.KindValidation, "recipient is required")
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.cfg.From, to, subject, body)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}

type logMailer struct{}

// NewLogMailer creates a Mailer that only logs. Used when no SMTP relay is
// configured (dev mode).
func NewLogMailer() Mailer { return &logMailer{} }

func (logMailer) Send(_ context.Context, to, subject, _ string) error {
	if to == "" {
		return apperr.New(apperr.KindValidation, "recipient is required")
	}
	log.Printf("[mail] (not configured, dropping) to=%s subject=%q", to, subject)
	return nil
}
