package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Mailer delivers the verification and reset links. Registration treats a
// send failure as a request failure, but the user row and token are already
// committed; the resend endpoint covers retry.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, link string) error
	SendPasswordResetEmail(ctx context.Context, to, link string) error
}

type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, link string) error {
	body := fmt.Sprintf("Welcome to Dump Pad!\n\nPlease verify your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours.\n", link)
	return m.send(ctx, to, "Verify your Dump Pad email", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, link string) error {
	body := fmt.Sprintf("A password reset was requested for your Dump Pad account.\n\nOpen the link below to choose a new password:\n\n%s\n\nThe link expires in 1 hour. If you did not request this, you can ignore this email.\n", link)
	return m.send(ctx, to, "Reset your Dump Pad password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// DevMailer logs the links instead of sending, for local development
// without an SMTP server.
type DevMailer struct {
	logger *slog.Logger
}

func NewDevMailer(logger *slog.Logger) *DevMailer {
	return &DevMailer{logger: logger}
}

func (m *DevMailer) SendVerificationEmail(ctx context.Context, to, link string) error {
	m.logger.InfoContext(ctx, "verification email issued", "to", to, "link", link)
	return nil
}

func (m *DevMailer) SendPasswordResetEmail(ctx context.Context, to, link string) error {
	m.logger.InfoContext(ctx, "password reset email issued", "to", to, "link", link)
	return nil
}
