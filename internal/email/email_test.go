package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightscope/internal/config"
)

func TestNewPicksProvider(t *testing.T) {
	cfg := config.Default().Email
	assert.IsType(t, &ConsoleSender{}, New(cfg, zerolog.Nop()))
	assert.False(t, New(cfg, zerolog.Nop()).Enabled())

	cfg.Provider = "smtp"
	assert.IsType(t, &SMTPSender{}, New(cfg, zerolog.Nop()))

	cfg.Provider = "resend"
	cfg.ResendAPIKey = "re_test"
	assert.IsType(t, &ResendSender{}, New(cfg, zerolog.Nop()))
}

func TestSMTPSenderBuildsMultipartMessage(t *testing.T) {
	cfg := config.Default().Email
	cfg.Provider = "smtp"
	cfg.Username = "mailer"
	cfg.Password = "secret"

	var gotAddr string
	var gotTo []string
	var gotBody string
	sender := &SMTPSender{cfg: cfg, send: func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		return nil
	}}

	err := sender.Send(context.Background(), Message{To: "ops@brightscope.ae", Subject: "Hi", HTML: "<p>Hi</p>", Text: "Hi"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.gmail.com:587", gotAddr)
	assert.Equal(t, []string{"ops@brightscope.ae"}, gotTo)
	assert.Contains(t, gotBody, "From: Bright Scope <noreply@brightscope.ae>")
	assert.Contains(t, gotBody, "Content-Type: text/plain")
	assert.Contains(t, gotBody, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(gotBody), "--"))
}

func TestSMTPSenderRequiresCredentials(t *testing.T) {
	sender := &SMTPSender{cfg: config.EmailConfig{SMTPHost: "smtp"}}
	assert.Error(t, sender.Send(context.Background(), Message{To: "x@y.z"}))
}

func TestTemplatesEscapeUserInput(t *testing.T) {
	msg, err := ContactNotification("ops@brightscope.ae", ContactNotificationData{
		ID: 9, FullName: "Sara Ali", Email: "sara@example.com", Phone: "+971501234567",
		ServiceType: "deep_clean", Message: "<script>alert(1)</script> please call", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Contact Form Submission from Sara Ali", msg.Subject)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "#9")

	reset, err := PasswordReset("sara@example.com", PasswordResetData{Name: "Sara", Link: "https://brightscope.ae/reset-password/Mw/tok/", ExpiresHours: 72})
	require.NoError(t, err)
	assert.Contains(t, reset.HTML, "https://brightscope.ae/reset-password/Mw/tok/")
	assert.Contains(t, reset.Text, "https://brightscope.ae/reset-password/Mw/tok/")
}
