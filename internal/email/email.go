// Package email delivers transactional mail over SMTP or the Resend API,
// or logs it when delivery is disabled.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"brightscope/internal/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender sends email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// New picks a sender for the configured provider.
func New(cfg config.EmailConfig, log zerolog.Logger) Sender {
	switch cfg.Provider {
	case "smtp":
		return &SMTPSender{cfg: cfg, send: smtp.SendMail}
	case "resend":
		return &ResendSender{cfg: cfg, client: resend.NewClient(cfg.ResendAPIKey)}
	default:
		return &ConsoleSender{log: log}
	}
}

func fromHeader(cfg config.EmailConfig) string {
	if cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}
	return cfg.FromEmail
}

// SMTPSender relays mail through an SMTP server with PLAIN auth.
type SMTPSender struct {
	cfg  config.EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Enabled reports true; SMTP always delivers.
func (s *SMTPSender) Enabled() bool { return true }

// Send sends an HTML email with plain text fallback
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return errors.New("email service not properly configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := s.send(addr, auth, s.cfg.FromEmail, []string{msg.To}, buildMIME(fromHeader(s.cfg), msg)); err != nil {
		return errors.Wrapf(err, "failed to send email to %s", msg.To)
	}
	return nil
}

// buildMIME renders a multipart/alternative message.
func buildMIME(from string, msg Message) []byte {
	boundary := "----=_Part_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text + "\r\n")

	if msg.HTML != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.HTML + "\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	cfg    config.EmailConfig
	client *resend.Client
}

// Enabled reports true; Resend always delivers.
func (s *ResendSender) Enabled() bool { return true }

// Send sends msg through Resend.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    fromHeader(s.cfg),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return errors.Wrapf(err, "failed to send email to %s", msg.To)
	}
	return nil
}

// ConsoleSender logs mail instead of sending it.
type ConsoleSender struct {
	log zerolog.Logger
}

// Enabled reports false.
func (s *ConsoleSender) Enabled() bool { return false }

// Send logs the recipient and subject.
func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email delivery disabled, message not sent")
	return nil
}
