package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightscope/internal/database/dbtest"
	"brightscope/internal/domain"
	"brightscope/internal/events"
	"brightscope/internal/i18n"
	apperrors "brightscope/pkg/errors"
)

func newContactService(t *testing.T, adminNotify string) (*ContactService, *captureMailer, *events.Recorder) {
	t.Helper()
	db := dbtest.OpenTest(t)
	mailer := &captureMailer{}
	rec := &events.Recorder{}
	return NewContactService(db, mailer, rec, adminNotify, zerolog.Nop()), mailer, rec
}

func validSubmission() *ContactSubmitPayload {
	return &ContactSubmitPayload{
		FullName:    "  jane   doe ",
		PhoneNumber: "+971501234567",
		Email:       " Jane@Example.COM ",
		ServiceType: "deep_clean",
		Message:     "<b>Please</b> quote a deep clean for a two bedroom flat.",
	}
}

func fieldErrors(t *testing.T, err error) apperrors.FieldErrors {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected an application error, got %v", err)
	require.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	return appErr.Fields
}

func TestContactSubmitNormalizes(t *testing.T) {
	svc, _, rec := newContactService(t, "")

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, submissionAccepted, res.Message)
	require.NotNil(t, res.Data)
	assert.NotZero(t, res.Data.ID)
	assert.Equal(t, "Jane Doe", res.Data.FullName)
	assert.Equal(t, "jane@example.com", res.Data.Email)
	assert.Equal(t, "Please quote a deep clean for a two bedroom flat.", res.Data.Message)
	assert.False(t, res.Data.IsResolved)
	assert.Equal(t, []string{events.ContactSubmitted}, rec.Types())

	t.Run("entity encoded markup stays escaped", func(t *testing.T) {
		svc, _, _ := newContactService(t, "")
		p := validSubmission()
		p.Message = "&lt;script&gt;alert(1)&lt;/script&gt; please quote a deep clean"

		res, err := svc.Submit(context.Background(), p)
		require.NoError(t, err)

		var stored domain.ContactSubmission
		require.NoError(t, svc.db.First(&stored, res.Data.ID).Error)
		assert.NotContains(t, stored.Message, "<script>")
		assert.Contains(t, stored.Message, "please quote a deep clean")
	})

	t.Run("raw script is dropped", func(t *testing.T) {
		svc, _, _ := newContactService(t, "")
		p := validSubmission()
		p.Message = "<script>alert(1)</script>Please quote a deep clean."

		res, err := svc.Submit(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, "Please quote a deep clean.", res.Data.Message)
	})

	t.Run("apostrophe names", func(t *testing.T) {
		svc, _, _ := newContactService(t, "")
		p := validSubmission()
		p.FullName = "sean o'brien"

		res, err := svc.Submit(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, "Sean O'Brien", res.Data.FullName)
	})
}

func TestContactSubmitFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *ContactSubmitPayload)
		field   string
		message string
	}{
		{"missing name", func(p *ContactSubmitPayload) { p.FullName = "  " }, "full_name", "Full name is required"},
		{"short name", func(p *ContactSubmitPayload) { p.FullName = "J" }, "full_name", "Full name must be at least 2 characters long"},
		{"long name", func(p *ContactSubmitPayload) { p.FullName = strings.Repeat("a", 201) }, "full_name", "Full name cannot exceed 200 characters"},
		{"digits in name", func(p *ContactSubmitPayload) { p.FullName = "Jane 2nd" }, "full_name", "Name can only contain letters, spaces, hyphens, apostrophes, and periods"},
		{"single name", func(p *ContactSubmitPayload) { p.FullName = "Jane" }, "full_name", "Please enter your full name (first and last name)"},
		{"bad email", func(p *ContactSubmitPayload) { p.Email = "not-an-email" }, "email", "Please enter a valid email address"},
		{"disposable email", func(p *ContactSubmitPayload) { p.Email = "x@mailinator.com" }, "email", "Disposable email addresses are not allowed"},
		{"disposable subdomain", func(p *ContactSubmitPayload) { p.Email = "x@mx.yopmail.com" }, "email", "Disposable email addresses are not allowed"},
		{"bad phone", func(p *ContactSubmitPayload) { p.PhoneNumber = "12-34" }, "phone_number", "Phone number must be entered in the format: '+971XXXXXXXXX'. Up to 15 digits allowed."},
		{"unknown service", func(p *ContactSubmitPayload) { p.ServiceType = "gardening" }, "service_type", "Invalid service type. Must be one of: residential, commercial, deep_clean, move_in_out, other"},
		{"short message", func(p *ContactSubmitPayload) { p.Message = "<i>hi</i> there" }, "message", "Message must be at least 10 characters long"},
		{"shouting", func(p *ContactSubmitPayload) { p.Message = "PLEASE CALL ME BACK ASAP!" }, "message", "Please avoid writing entire message in uppercase"},
		{"repetition", func(p *ContactSubmitPayload) { p.Message = strings.Repeat("spam ", 12) }, "message", "Message appears to contain excessive repetition"},
		{"echoes name", func(p *ContactSubmitPayload) { p.Message = "Jane Doe, jane doe here" }, "message", "Message should provide more details about your inquiry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, rec := newContactService(t, "")
			p := validSubmission()
			tt.mutate(p)

			_, err := svc.Submit(context.Background(), p)
			fields := fieldErrors(t, err)
			assert.Equal(t, []string{tt.message}, fields[tt.field])
			assert.Empty(t, rec.Types())
		})
	}
}

func TestContactSubmitRejectsDuplicateWithinWindow(t *testing.T) {
	svc, _, _ := newContactService(t, "")
	ctx := context.Background()

	_, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	again := validSubmission()
	again.Email = "JANE@example.com"
	again.Message = "please QUOTE a deep clean for a two bedroom flat."
	_, err = svc.Submit(ctx, again)
	fields := fieldErrors(t, err)
	assert.Equal(t,
		[]string{"You have already submitted a similar message recently. Please wait 24 hours before submitting again."},
		fields["message"])

	other := validSubmission()
	other.Email = "someone@example.com"
	_, err = svc.Submit(ctx, other)
	assert.NoError(t, err, "the window is per sender")

	svc.now = fixedClock(time.Now().Add(25 * time.Hour))
	_, err = svc.Submit(ctx, validSubmission())
	assert.NoError(t, err, "older submissions are outside the window")
}

func TestContactSubmitNotifiesAdmin(t *testing.T) {
	svc, mailer, _ := newContactService(t, "ops@brightscope.test")

	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	svc.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "ops@brightscope.test", sent[0].To)
	assert.Contains(t, sent[0].Text, res.Data.FullName)
}

func TestContactSubmitIgnoresNotificationFailure(t *testing.T) {
	svc, mailer, _ := newContactService(t, "ops@brightscope.test")
	mailer.err = assert.AnError

	_, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	svc.Wait()
	assert.Empty(t, mailer.messages())
}

func TestContactInfo(t *testing.T) {
	svc, _, _ := newContactService(t, "")
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx), "seeding twice is harmless")

	require.NoError(t, svc.db.Model(&domain.ContactMethod{}).
		Where("method_type = ?", domain.MethodPhone).
		Update("title_ar", "مكتب دبي").Error)
	require.NoError(t, svc.db.Model(&domain.ContactMethod{}).
		Where("method_type = ?", domain.MethodEmail).
		Update("is_active", false).Error)

	en, err := svc.Info(ctx, i18n.English)
	require.NoError(t, err)
	require.Len(t, en.ContactMethods, 2)
	assert.Equal(t, domain.MethodPhone, en.ContactMethods[0].MethodType)
	assert.Equal(t, "Dubai Office", en.ContactMethods[0].TitleDisplay)
	require.Len(t, en.OfficeLocations, 1)
	assert.Equal(t, "Business Bay, Dubai, United Arab Emirates", en.OfficeLocations[0].FullAddress)
	assert.Equal(t, i18n.English, en.CurrentLanguage)

	ar, err := svc.Info(ctx, i18n.Arabic)
	require.NoError(t, err)
	assert.Equal(t, "مكتب دبي", ar.ContactMethods[0].TitleDisplay)
	assert.Equal(t, "Instant Response", ar.ContactMethods[1].TitleDisplay, "missing translations fall back to English")
	assert.Equal(t, i18n.Arabic, ar.CurrentLanguage)
}

func TestContactHeuristics(t *testing.T) {
	assert.True(t, isDisposable("a@fake.com"))
	assert.False(t, isDisposable("a@notfake.com"))
	assert.True(t, isShouting("HELLO THERE 123"))
	assert.False(t, isShouting("12345 67890"))
	assert.False(t, isRepetitive("one two one two one"))
	assert.True(t, isRepetitive("buy buy buy buy buy buy buy now"))
	assert.False(t, echoesName("Jane Doe", "I need a quote for Jane's flat"))
	assert.Equal(t, "مرحب", truncateRunes("مرحبا", 4))
}
