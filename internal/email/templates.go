package email

import (
	"bytes"
	"html/template"
	"time"

	"github.com/pkg/errors"
)

var htmlTemplates = template.Must(template.New("emails").Parse(`
{{define "layout_start"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"><title>{{.Title}}</title></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2 style="color: #0E7C86;">{{.Title}}</h2>{{end}}
{{define "layout_end"}}<p style="color: #64748B; font-size: 13px;">Bright Scope UAE</p></div></body></html>{{end}}

{{define "password_reset"}}{{template "layout_start" .}}
<p>Hello {{.Name}},</p>
<p>We received a request to reset the password for your account. Use the button below to choose a new one.</p>
<p><a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background: #0E7C86; color: #FFFFFF; border-radius: 6px; text-decoration: none;">Reset password</a></p>
<p>The link expires in {{.ExpiresHours}} hours. If you did not ask for this, you can ignore this email.</p>
{{template "layout_end" .}}{{end}}

{{define "contact_notification"}}{{template "layout_start" .}}
<div style="background: #F8FAFC; padding: 20px; border-radius: 8px; margin: 20px 0;">
<p><strong>Name:</strong> {{.FullName}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Service:</strong> {{.ServiceType}}</p>
<p><strong>Submitted:</strong> {{.Submitted}}</p>
</div>
<div style="padding: 20px; border-left: 4px solid #0E7C86; margin: 20px 0;">
<h3 style="margin-top: 0;">Message:</h3>
<p style="white-space: pre-wrap;">{{.Message}}</p>
</div>
<p style="color: #64748B; font-size: 14px;">Submission ID: #{{.ID}}</p>
{{template "layout_end" .}}{{end}}

{{define "booking_confirmation"}}{{template "layout_start" .}}
<p>Hello {{.CustomerName}},</p>
<p>Thank you for booking <strong>{{.ServiceName}}</strong> ({{.PackageName}}) on {{.BookingDate}}.</p>
<p>Total: <strong>AED {{.Total}}</strong></p>
<p>Our team will contact you shortly to confirm. Your booking reference is #{{.ID}}.</p>
{{template "layout_end" .}}{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s email", name)
	}
	return buf.String(), nil
}

// PasswordResetData fills the password reset email.
type PasswordResetData struct {
	Name         string
	Link         string
	ExpiresHours int
}

// PasswordReset builds the password reset email.
func PasswordReset(to string, d PasswordResetData) (Message, error) {
	html, err := render("password_reset", struct {
		Title string
		PasswordResetData
	}{"Reset your password", d})
	if err != nil {
		return Message{}, err
	}
	text := "Hello " + d.Name + ",\n\nReset your password using the link below:\n" + d.Link +
		"\n\nIf you did not ask for this, you can ignore this email.\n"
	return Message{To: to, Subject: "Reset your Bright Scope password", HTML: html, Text: text}, nil
}

// ContactNotificationData fills the admin notification for a contact submission.
type ContactNotificationData struct {
	ID          uint
	FullName    string
	Email       string
	Phone       string
	ServiceType string
	Message     string
	CreatedAt   time.Time
}

// ContactNotification builds the admin notification email.
func ContactNotification(to string, d ContactNotificationData) (Message, error) {
	submitted := d.CreatedAt.Format("January 2, 2006 at 3:04 PM")
	html, err := render("contact_notification", struct {
		Title     string
		Submitted string
		ContactNotificationData
	}{"New Contact Form Submission", submitted, d})
	if err != nil {
		return Message{}, err
	}
	text := "New Contact Form Submission\n\nName: " + d.FullName + "\nEmail: " + d.Email + "\nPhone: " + d.Phone +
		"\nService: " + d.ServiceType + "\nSubmitted: " + submitted + "\n\nMessage:\n" + d.Message + "\n"
	return Message{To: to, Subject: "New Contact Form Submission from " + d.FullName, HTML: html, Text: text}, nil
}

// BookingConfirmationData fills the customer booking confirmation.
type BookingConfirmationData struct {
	ID           uint
	CustomerName string
	ServiceName  string
	PackageName  string
	BookingDate  string
	Total        string
}

// BookingConfirmation builds the customer booking confirmation email.
func BookingConfirmation(to string, d BookingConfirmationData) (Message, error) {
	html, err := render("booking_confirmation", struct {
		Title string
		BookingConfirmationData
	}{"Booking received", d})
	if err != nil {
		return Message{}, err
	}
	text := "Hello " + d.CustomerName + ",\n\nThank you for booking " + d.ServiceName + " (" + d.PackageName + ") on " +
		d.BookingDate + ".\nTotal: AED " + d.Total + "\n"
	return Message{To: to, Subject: "Your Bright Scope booking", HTML: html, Text: text}, nil
}
