// Package mail delivers the verification and password-reset emails. Delivery
// failures surface to the caller so issued secrets can be compensated rather
// than left live with no way to reach the user.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

// SMTPMailer sends through a plain SMTP relay. Auth is used only when a
// username is configured, so local dev relays work without credentials.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	var auth smtp.Auth
	if m.cfg.Username != "" {
		host := m.cfg.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, host)
	}

	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.cfg.From, msg.To, msg.Subject, msg.Body)

	if err := smtp.SendMail(m.cfg.Addr, auth, m.cfg.From, []string{msg.To}, []byte(payload)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// VerifyEmailMessage builds the account verification email carrying the
// one-time secret link.
func VerifyEmailMessage(to, appURL, secret string) Message {
	return Message{
		To:      to,
		Subject: "Verify your email address",
		Body: fmt.Sprintf("Welcome!\n\nConfirm your email address by opening the link below:\n\n%s/verify-email?token=%s\n\nThe link expires in 24 hours. If you did not sign up, ignore this email.\n",
			appURL, secret),
	}
}

// PasswordResetMessage builds the password reset email.
func PasswordResetMessage(to, appURL, secret string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		Body: fmt.Sprintf("A password reset was requested for your account.\n\nChoose a new password via the link below:\n\n%s/reset-password?token=%s\n\nThe link expires in 1 hour. If you did not request this, ignore this email.\n",
			appURL, secret),
	}
}
