package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"brightscope/internal/domain"
	"brightscope/internal/events"
	"brightscope/internal/i18n"
	"brightscope/internal/metrics"
	"brightscope/internal/validation"
	apperrors "brightscope/pkg/errors"
)

// WorkingHours groups the opening hours shown in the site footer.
type WorkingHours struct {
	MondayFriday string `json:"monday_friday"`
	Saturday     string `json:"saturday"`
	Sunday       string `json:"sunday"`
}

// ContactInfoView is the site-wide contact record in one language.
type ContactInfoView struct {
	ID                 uint         `json:"id"`
	CompanyName        string       `json:"company_name"`
	Tagline            string       `json:"tagline"`
	PhoneNumber        string       `json:"phone_number"`
	WhatsAppNumber     string       `json:"whatsapp_number"`
	Email              string       `json:"email"`
	Address            string       `json:"address"`
	Building           string       `json:"building"`
	Office             string       `json:"office"`
	WorkingHours       WorkingHours `json:"working_hours"`
	EmergencyAvailable bool         `json:"emergency_available"`
	FacebookURL        string       `json:"facebook_url"`
	InstagramURL       string       `json:"instagram_url"`
	LinkedInURL        string       `json:"linkedin_url"`
	TwitterURL         string       `json:"twitter_url"`
	YouTubeURL         string       `json:"youtube_url"`
	CopyrightText      string       `json:"copyright_text"`
	CurrentLanguage    i18n.Locale  `json:"current_language"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ContactInfoPayload is the body of PUT /admin/settings/contact-info.
type ContactInfoPayload struct {
	CompanyName        string `json:"company_name" validate:"required,max=200"`
	CompanyNameAr      string `json:"company_name_ar" validate:"max=200"`
	Tagline            string `json:"tagline"`
	TaglineAr          string `json:"tagline_ar"`
	PhoneNumber        string `json:"phone_number" validate:"max=20"`
	WhatsAppNumber     string `json:"whatsapp_number" validate:"max=20"`
	Email              string `json:"email" validate:"omitempty,email,max=254"`
	Address            string `json:"address"`
	AddressAr          string `json:"address_ar"`
	Building           string `json:"building" validate:"max=100"`
	BuildingAr         string `json:"building_ar" validate:"max=100"`
	Office             string `json:"office" validate:"max=50"`
	OfficeAr           string `json:"office_ar" validate:"max=50"`
	MonFriHours        string `json:"mon_fri_hours" validate:"max=100"`
	MonFriHoursAr      string `json:"mon_fri_hours_ar" validate:"max=100"`
	SaturdayHours      string `json:"saturday_hours" validate:"max=100"`
	SaturdayHoursAr    string `json:"saturday_hours_ar" validate:"max=100"`
	SundayHours        string `json:"sunday_hours" validate:"max=100"`
	SundayHoursAr      string `json:"sunday_hours_ar" validate:"max=100"`
	EmergencyAvailable bool   `json:"emergency_available"`
	FacebookURL        string `json:"facebook_url" validate:"omitempty,url,max=255"`
	InstagramURL       string `json:"instagram_url" validate:"omitempty,url,max=255"`
	LinkedInURL        string `json:"linkedin_url" validate:"omitempty,url,max=255"`
	TwitterURL         string `json:"twitter_url" validate:"omitempty,url,max=255"`
	YouTubeURL         string `json:"youtube_url" validate:"omitempty,url,max=255"`
	CopyrightText      string `json:"copyright_text" validate:"max=200"`
	CopyrightTextAr    string `json:"copyright_text_ar" validate:"max=200"`
}

// SubscribePayload is the body of POST /settings/contact-info/subscribe.
type SubscribePayload struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// SubscribeResult confirms a newsletter subscription.
type SubscribeResult struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// SettingsService implements the site settings endpoints.
type SettingsService struct {
	db     *gorm.DB
	events events.Publisher
	log    zerolog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *gorm.DB, pub events.Publisher, log zerolog.Logger) *SettingsService {
	return &SettingsService{db: db, events: pub, log: log}
}

// load returns the singleton, creating it with defaults on first use.
func (s *SettingsService) load(ctx context.Context) (*domain.ContactInfo, error) {
	info := domain.DefaultContactInfo()
	var row domain.ContactInfo
	err := s.db.WithContext(ctx).
		Where("id = ?", domain.ContactInfoID).
		Attrs(info).
		FirstOrCreate(&row).Error
	if err != nil && isUniqueViolation(err) {
		// created concurrently
		err = s.db.WithContext(ctx).First(&row, domain.ContactInfoID).Error
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve contact information", err)
	}
	return &row, nil
}

// ContactInfo returns the contact record resolved for locale.
func (s *SettingsService) ContactInfo(ctx context.Context, locale i18n.Locale) (*ContactInfoView, error) {
	c, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &ContactInfoView{
		ID:             c.ID,
		CompanyName:    locale.Pick(c.CompanyName, c.CompanyNameAr),
		Tagline:        locale.Pick(c.Tagline, c.TaglineAr),
		PhoneNumber:    c.PhoneNumber,
		WhatsAppNumber: c.WhatsAppNumber,
		Email:          c.Email,
		Address:        locale.Pick(c.Address, c.AddressAr),
		Building:       locale.Pick(c.Building, c.BuildingAr),
		Office:         locale.Pick(c.Office, c.OfficeAr),
		WorkingHours: WorkingHours{
			MondayFriday: locale.Pick(c.MonFriHours, c.MonFriHoursAr),
			Saturday:     locale.Pick(c.SaturdayHours, c.SaturdayHoursAr),
			Sunday:       locale.Pick(c.SundayHours, c.SundayHoursAr),
		},
		EmergencyAvailable: c.EmergencyAvailable,
		FacebookURL:        c.FacebookURL,
		InstagramURL:       c.InstagramURL,
		LinkedInURL:        c.LinkedInURL,
		TwitterURL:         c.TwitterURL,
		YouTubeURL:         c.YouTubeURL,
		CopyrightText:      locale.Pick(c.CopyrightText, c.CopyrightTextAr),
		CurrentLanguage:    locale,
		UpdatedAt:          c.UpdatedAt,
	}, nil
}

// UpdateContactInfo replaces every editable field of the singleton.
func (s *SettingsService) UpdateContactInfo(ctx context.Context, p *ContactInfoPayload) (*domain.ContactInfo, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	updated := domain.ContactInfo{
		ID:                 domain.ContactInfoID,
		CompanyName:        p.CompanyName,
		CompanyNameAr:      p.CompanyNameAr,
		Tagline:            p.Tagline,
		TaglineAr:          p.TaglineAr,
		PhoneNumber:        p.PhoneNumber,
		WhatsAppNumber:     p.WhatsAppNumber,
		Email:              p.Email,
		Address:            p.Address,
		AddressAr:          p.AddressAr,
		Building:           p.Building,
		BuildingAr:         p.BuildingAr,
		Office:             p.Office,
		OfficeAr:           p.OfficeAr,
		MonFriHours:        p.MonFriHours,
		MonFriHoursAr:      p.MonFriHoursAr,
		SaturdayHours:      p.SaturdayHours,
		SaturdayHoursAr:    p.SaturdayHoursAr,
		SundayHours:        p.SundayHours,
		SundayHoursAr:      p.SundayHoursAr,
		EmergencyAvailable: p.EmergencyAvailable,
		FacebookURL:        p.FacebookURL,
		InstagramURL:       p.InstagramURL,
		LinkedInURL:        p.LinkedInURL,
		TwitterURL:         p.TwitterURL,
		YouTubeURL:         p.YouTubeURL,
		CopyrightText:      p.CopyrightText,
		CopyrightTextAr:    p.CopyrightTextAr,
		CreatedAt:          current.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Model(current).Select("*").Omit("id", "created_at").Updates(&updated).Error; err != nil {
		return nil, apperrors.Internal("failed to update contact information", err)
	}
	s.log.Info().Msg("contact information updated")
	return s.load(ctx)
}

// Subscribe adds an address to the newsletter. Repeated subscriptions
// succeed without creating duplicates.
func (s *SettingsService) Subscribe(ctx context.Context, p *SubscribePayload) (*SubscribeResult, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := validation.Struct(p); err != nil {
		return nil, err
	}

	var sub domain.NewsletterSubscriber
	res := s.db.WithContext(ctx).Where(domain.NewsletterSubscriber{Email: p.Email}).FirstOrCreate(&sub)
	created := res.Error == nil && res.RowsAffected == 1
	if res.Error != nil {
		if !isUniqueViolation(res.Error) {
			return nil, apperrors.Internal("Failed to subscribe. Please try again.", res.Error)
		}
		if err := s.db.WithContext(ctx).Where("email = ?", p.Email).First(&sub).Error; err != nil {
			return nil, apperrors.Internal("Failed to subscribe. Please try again.", err)
		}
	}

	metrics.RecordNewsletterSubscription(created)
	if created {
		s.log.Info().Str("email", sub.Email).Msg("newsletter subscription")
		if err := s.events.Publish(ctx, events.NewsletterJoined, map[string]any{"email": sub.Email}); err != nil {
			s.log.Error().Err(err).Msg("failed to publish newsletter event")
		}
	}
	return &SubscribeResult{Message: "Successfully subscribed to newsletter!", Email: sub.Email}, nil
}

// ListSubscribers returns newsletter subscribers newest first.
func (s *SettingsService) ListSubscribers(ctx context.Context) ([]domain.NewsletterSubscriber, error) {
	var subs []domain.NewsletterSubscriber
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&subs).Error; err != nil {
		return nil, apperrors.Internal("failed to list subscribers", err)
	}
	return subs, nil
}
