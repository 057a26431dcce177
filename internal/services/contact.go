package services

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"brightscope/internal/domain"
	"brightscope/internal/email"
	"brightscope/internal/events"
	"brightscope/internal/i18n"
	"brightscope/internal/metrics"
	"brightscope/internal/validation"
	apperrors "brightscope/pkg/errors"
)

const (
	submissionAccepted = "Thank you for your submission. We will get back to you within 24 hours."
	duplicateWindow    = 24 * time.Hour
	duplicatePrefix    = 50
	notifyTimeout      = 30 * time.Second
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s\.\-']+$`)
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

	disposableDomains = []string{
		"tempmail.com", "throwaway.com", "fake.com", "guerrillamail.com",
		"mailinator.com", "yopmail.com", "temp-mail.org",
	}
)

// ContactSubmitPayload is the body of POST /contact/submit.
type ContactSubmitPayload struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	ServiceType string `json:"service_type"`
	Message     string `json:"message"`
}

// ContactSubmitResult is returned for an accepted submission.
type ContactSubmitResult struct {
	Message string                    `json:"message"`
	Data    *domain.ContactSubmission `json:"data"`
}

// ContactMethodView is a contact method with display fields resolved.
type ContactMethodView struct {
	ID                 uint                     `json:"id"`
	Icon               string                   `json:"icon"`
	MethodType         domain.ContactMethodType `json:"method_type"`
	TitleDisplay       string                   `json:"title_display"`
	DescriptionDisplay string                   `json:"description_display"`
	Value              string                   `json:"value"`
	ActionTextDisplay  string                   `json:"action_text_display"`
	IsActive           bool                     `json:"is_active"`
	Order              int                      `json:"order"`
}

// OfficeLocationView is an office with display fields resolved.
type OfficeLocationView struct {
	ID                          uint    `json:"id"`
	Icon                        string  `json:"icon"`
	TitleDisplay                string  `json:"title_display"`
	DescriptionDisplay          string  `json:"description_display"`
	OfficeNameDisplay           string  `json:"office_name_display"`
	OfficeAddressDisplay        string  `json:"office_address_display"`
	WorkingHoursNameDisplay     string  `json:"working_hours_name_display"`
	WorkingHoursWeekdaysDisplay string  `json:"working_hours_weekdays_display"`
	FullAddress                 string  `json:"full_address"`
	GoogleMapsLink              *string `json:"google_maps_link"`
	IsPrimary                   bool    `json:"is_primary"`
}

// ContactInfoResult is the body of GET /contact/info.
type ContactInfoResult struct {
	ContactMethods  []ContactMethodView  `json:"contact_methods"`
	OfficeLocations []OfficeLocationView `json:"office_locations"`
	CurrentLanguage i18n.Locale          `json:"current_language"`
}

// ContactService implements the contact service
type ContactService struct {
	db          *gorm.DB
	mailer      email.Sender
	events      events.Publisher
	adminNotify string
	sanitizer   *bluemonday.Policy
	titleCaser  cases.Caser
	notify      sync.WaitGroup
	log         zerolog.Logger
	now         func() time.Time
}

// NewContactService creates a new contact service. When adminNotify is set
// every accepted submission is mailed to it.
func NewContactService(db *gorm.DB, mailer email.Sender, pub events.Publisher, adminNotify string, log zerolog.Logger) *ContactService {
	return &ContactService{
		db:          db,
		mailer:      mailer,
		events:      pub,
		adminNotify: adminNotify,
		sanitizer:   bluemonday.StrictPolicy(),
		titleCaser:  cases.Title(language.English),
		log:         log,
		now:         time.Now,
	}
}

// Submit validates and stores a contact form submission.
func (s *ContactService) Submit(ctx context.Context, p *ContactSubmitPayload) (*ContactSubmitResult, error) {
	submission, fields := s.clean(p)

	if !fields.Any() {
		if err := s.crossCheck(ctx, submission, fields); err != nil {
			return nil, err
		}
	}
	if fields.Any() {
		metrics.RecordContactSubmission(false)
		s.log.Warn().Str("email", submission.Email).Interface("errors", fields).Msg("contact submission rejected")
		return nil, apperrors.Validation(validation.DefaultMessage, fields)
	}

	if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, apperrors.Internal("failed to save contact submission", err)
	}

	metrics.RecordContactSubmission(true)
	s.log.Info().Uint("id", submission.ID).Str("email", submission.Email).Msg("new contact submission")
	if err := s.events.Publish(ctx, events.ContactSubmitted, submission); err != nil {
		s.log.Error().Err(err).Msg("failed to publish contact event")
	}
	s.notifyAdmin(*submission)

	return &ContactSubmitResult{Message: submissionAccepted, Data: submission}, nil
}

// clean normalises each field and collects per-field failures.
func (s *ContactService) clean(p *ContactSubmitPayload) (*domain.ContactSubmission, apperrors.FieldErrors) {
	fields := apperrors.FieldErrors{}
	out := &domain.ContactSubmission{}

	// full_name
	rawName := strings.TrimSpace(p.FullName)
	switch n := utf8.RuneCountInString(rawName); {
	case rawName == "":
		fields.Add("full_name", "Full name is required")
	case n < 2:
		fields.Add("full_name", "Full name must be at least 2 characters long")
	case n > 200:
		fields.Add("full_name", "Full name cannot exceed 200 characters")
	default:
		name := strings.Join(strings.Fields(rawName), " ")
		if !namePattern.MatchString(name) {
			fields.Add("full_name", "Name can only contain letters, spaces, hyphens, apostrophes, and periods")
		} else if len(strings.Fields(name)) < 2 {
			fields.Add("full_name", "Please enter your full name (first and last name)")
		} else {
			out.FullName = s.titleName(name)
		}
	}

	// email
	addr := strings.ToLower(strings.TrimSpace(p.Email))
	switch {
	case addr == "":
		fields.Add("email", "Email address is required")
	case !validation.Var(addr, "email"):
		fields.Add("email", "Please enter a valid email address")
	case isDisposable(addr):
		fields.Add("email", "Disposable email addresses are not allowed")
	default:
		out.Email = addr
	}

	// phone_number
	phone := strings.TrimSpace(p.PhoneNumber)
	switch {
	case phone == "":
		fields.Add("phone_number", "This field is required.")
	case utf8.RuneCountInString(phone) > 17:
		fields.Add("phone_number", "Ensure this field has no more than 17 characters.")
	case !phonePattern.MatchString(phone):
		fields.Add("phone_number", "Phone number must be entered in the format: '+971XXXXXXXXX'. Up to 15 digits allowed.")
	default:
		out.PhoneNumber = phone
	}

	// service_type
	st := domain.ContactServiceType(strings.TrimSpace(p.ServiceType))
	switch {
	case st == "":
		fields.Add("service_type", "This field is required.")
	case !st.Valid():
		names := make([]string, len(domain.ContactServiceTypes))
		for i, t := range domain.ContactServiceTypes {
			names[i] = string(t)
		}
		fields.Add("service_type", "Invalid service type. Must be one of: "+strings.Join(names, ", "))
	default:
		out.ServiceType = st
	}

	// message
	msg := strings.TrimSpace(s.sanitizer.Sanitize(p.Message))
	text := html.UnescapeString(msg)
	switch n := utf8.RuneCountInString(msg); {
	case strings.TrimSpace(p.Message) == "":
		fields.Add("message", "Message is required")
	case n < 10:
		fields.Add("message", "Message must be at least 10 characters long")
	case n > 1000:
		fields.Add("message", "Message cannot exceed 1000 characters")
	case isShouting(text):
		fields.Add("message", "Please avoid writing entire message in uppercase")
	case isRepetitive(text):
		fields.Add("message", "Message appears to contain excessive repetition")
	default:
		out.Message = msg
	}

	return out, fields
}

// titleName title-cases a name and also capitalises the letter after an
// apostrophe, so "o'brien" becomes "O'Brien".
func (s *ContactService) titleName(name string) string {
	r := []rune(s.titleCaser.String(name))
	for i := 1; i < len(r); i++ {
		if r[i-1] == '\'' && unicode.IsLetter(r[i]) {
			r[i] = unicode.ToUpper(r[i])
		}
	}
	return string(r)
}

// crossCheck applies the rules that span fields or need the database.
func (s *ContactService) crossCheck(ctx context.Context, sub *domain.ContactSubmission, fields apperrors.FieldErrors) error {
	var recent []domain.ContactSubmission
	err := s.db.WithContext(ctx).
		Select("message").
		Where("email = ? AND created_at >= ?", sub.Email, s.now().UTC().Add(-duplicateWindow)).
		Find(&recent).Error
	if err != nil {
		return apperrors.Internal("failed to check recent submissions", err)
	}

	prefix := strings.ToLower(truncateRunes(sub.Message, duplicatePrefix))
	for _, r := range recent {
		if strings.Contains(strings.ToLower(r.Message), prefix) {
			fields.Add("message", "You have already submitted a similar message recently. Please wait 24 hours before submitting again.")
			return nil
		}
	}

	if echoesName(sub.FullName, html.UnescapeString(sub.Message)) {
		fields.Add("message", "Message should provide more details about your inquiry")
	}
	return nil
}

func (s *ContactService) notifyAdmin(sub domain.ContactSubmission) {
	if s.adminNotify == "" {
		return
	}
	s.notify.Add(1)
	go func() {
		defer s.notify.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		msg, err := email.ContactNotification(s.adminNotify, email.ContactNotificationData{
			ID:          sub.ID,
			FullName:    sub.FullName,
			Email:       sub.Email,
			Phone:       sub.PhoneNumber,
			ServiceType: string(sub.ServiceType),
			Message:     sub.Message,
			CreatedAt:   sub.CreatedAt,
		})
		if err == nil {
			err = s.mailer.Send(ctx, msg)
		}
		if err != nil {
			s.log.Error().Err(err).Uint("id", sub.ID).Msg("failed to send contact notification")
		}
	}()
}

// Wait blocks until pending admin notifications have been sent.
func (s *ContactService) Wait() {
	s.notify.Wait()
}

// Info lists the active contact methods and every office location.
func (s *ContactService) Info(ctx context.Context, locale i18n.Locale) (*ContactInfoResult, error) {
	db := s.db.WithContext(ctx)

	var methods []domain.ContactMethod
	if err := db.Where("is_active = ?", true).Order("sort_order, method_type").Find(&methods).Error; err != nil {
		return nil, apperrors.Internal("failed to load contact methods", err)
	}
	var offices []domain.OfficeLocation
	if err := db.Order("is_primary DESC, id").Find(&offices).Error; err != nil {
		return nil, apperrors.Internal("failed to load office locations", err)
	}

	result := &ContactInfoResult{
		ContactMethods:  make([]ContactMethodView, len(methods)),
		OfficeLocations: make([]OfficeLocationView, len(offices)),
		CurrentLanguage: locale,
	}
	for i, m := range methods {
		result.ContactMethods[i] = ContactMethodView{
			ID:                 m.ID,
			Icon:               m.Icon,
			MethodType:         m.MethodType,
			TitleDisplay:       locale.Pick(m.Title, m.TitleAr),
			DescriptionDisplay: locale.Pick(m.Description, m.DescriptionAr),
			Value:              m.Value,
			ActionTextDisplay:  locale.Pick(m.ActionText, m.ActionTextAr),
			IsActive:           m.IsActive,
			Order:              m.Order,
		}
	}
	for i, o := range offices {
		name := locale.Pick(o.OfficeName, o.OfficeNameAr)
		address := locale.Pick(o.OfficeAddress, o.OfficeAddressAr)
		result.OfficeLocations[i] = OfficeLocationView{
			ID:                          o.ID,
			Icon:                        o.Icon,
			TitleDisplay:                locale.Pick(o.Title, o.TitleAr),
			DescriptionDisplay:          locale.Pick(o.Description, o.DescriptionAr),
			OfficeNameDisplay:           name,
			OfficeAddressDisplay:        address,
			WorkingHoursNameDisplay:     locale.Pick(o.WorkingHoursName, o.WorkingHoursNameAr),
			WorkingHoursWeekdaysDisplay: locale.Pick(o.WorkingHoursWeekdays, o.WorkingHoursWeekdaysAr),
			FullAddress:                 fmt.Sprintf("%s, %s", name, address),
			GoogleMapsLink:              o.GoogleMapsLink,
			IsPrimary:                   o.IsPrimary,
		}
	}
	return result, nil
}

// Seed loads the default contact methods and primary office. Existing rows
// are left untouched.
func (s *ContactService) Seed(ctx context.Context) error {
	const placeholder = "+971 XXX XXX XXX"
	methods := []domain.ContactMethod{
		{
			MethodType:  domain.MethodPhone,
			Title:       "Dubai Office",
			Description: "Speak directly to our Customer Service Team",
			Value:       placeholder,
			ActionText:  placeholder,
			Order:       1,
		},
		{
			MethodType:  domain.MethodWhatsApp,
			Title:       "Instant Response",
			Description: "Instant Response - Get immediate assistance through our chat",
			Value:       placeholder,
			ActionText:  "Chat Now",
			Order:       2,
		},
		{
			MethodType:  domain.MethodEmail,
			Title:       "24/7 Support",
			Description: "Send us your queries and we'll respond promptly",
			Value:       "info@Brightscope.Ao",
			ActionText:  "info@Brightscope.Ao",
			Order:       3,
		},
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range methods {
			m.IsActive = true
			m.Icon = "fa-solid fa-map-pin"
			var existing domain.ContactMethod
			if err := tx.Where(domain.ContactMethod{MethodType: m.MethodType}).Attrs(m).FirstOrCreate(&existing).Error; err != nil {
				return fmt.Errorf("failed to seed contact method %s: %w", m.MethodType, err)
			}
		}

		office := domain.OfficeLocation{
			Icon:                 "fa-solid fa-map-pin",
			Title:                "Visit Our Office",
			Description:          "Come visit us at our Dubai headquarters for in-person consultations.",
			OfficeAddress:        "United Arab Emirates",
			WorkingHoursName:     "Working Hours",
			WorkingHoursWeekdays: "Mon-Fri: 8AM-8PM | Sat: 9AM-6PM",
			IsPrimary:            true,
		}
		var existing domain.OfficeLocation
		if err := tx.Where(domain.OfficeLocation{OfficeName: "Business Bay, Dubai"}).Attrs(office).FirstOrCreate(&existing).Error; err != nil {
			return fmt.Errorf("failed to seed office location: %w", err)
		}
		s.log.Info().Msg("contact data seeded")
		return nil
	})
}

func isDisposable(addr string) bool {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return false
	}
	host := addr[at+1:]
	for _, d := range disposableDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// isShouting reports whether every cased letter is upper case.
func isShouting(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func isRepetitive(s string) bool {
	words := strings.Fields(s)
	if len(words) <= 5 {
		return false
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) < float64(len(words))*0.3
}

// echoesName reports whether the message mostly repeats the sender's name.
func echoesName(fullName, message string) bool {
	name := strings.ToLower(fullName)
	msg := strings.ToLower(message)
	if name == "" || !strings.Contains(msg, name) {
		return false
	}
	nameWords := strings.Fields(name)
	msgWords := make(map[string]struct{})
	for _, w := range strings.Fields(msg) {
		msgWords[w] = struct{}{}
	}
	seen := make(map[string]struct{})
	for _, w := range nameWords {
		if _, ok := msgWords[w]; ok {
			seen[w] = struct{}{}
		}
	}
	return float64(len(seen))/float64(len(nameWords)) > 0.7
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
