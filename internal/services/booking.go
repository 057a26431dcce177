package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brightscope/internal/domain"
	"brightscope/internal/email"
	"brightscope/internal/events"
	"brightscope/internal/i18n"
	"brightscope/internal/metrics"
	"brightscope/internal/validation"
	apperrors "brightscope/pkg/errors"
)

// BookingPayload is the body of POST /service/bookings.
type BookingPayload struct {
	Service         uint      `json:"service" validate:"required"`
	Package         uint      `json:"package" validate:"required"`
	AddonIDs        []uint    `json:"addon_ids"`
	CustomerName    string    `json:"customer_name" validate:"required,max=100"`
	CustomerEmail   string    `json:"customer_email" validate:"required,email,max=254"`
	CustomerPhone   string    `json:"customer_phone" validate:"required,max=20"`
	Address         string    `json:"address" validate:"required"`
	BookingDate     time.Time `json:"booking_date" validate:"required"`
	SpecialRequests string    `json:"special_requests"`
}

// BookingStatusPayload is the body of PATCH /admin/bookings/{id}.
type BookingStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// BookingView is the read representation of a booking.
type BookingView struct {
	ID              uint                 `json:"id"`
	Service         uint                 `json:"service"`
	ServiceName     string               `json:"service_name"`
	ServiceType     domain.ServiceType   `json:"service_type"`
	Package         uint                 `json:"package"`
	PackageName     string               `json:"package_name"`
	PackagePrice    string               `json:"package_price"`
	Addons          []uint               `json:"addons"`
	AddonsDetails   []AddonView          `json:"addons_details"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone"`
	Address         string               `json:"address"`
	BookingDate     time.Time            `json:"booking_date"`
	SpecialRequests string               `json:"special_requests"`
	TotalPrice      string               `json:"total_price"`
	Status          domain.BookingStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

// BookingService implements booking creation and listing.
type BookingService struct {
	db     *gorm.DB
	mailer email.Sender
	events events.Publisher
	log    zerolog.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(db *gorm.DB, mailer email.Sender, pub events.Publisher, log zerolog.Logger) *BookingService {
	return &BookingService{db: db, mailer: mailer, events: pub, log: log}
}

// Create stores a booking priced from its package and active addons.
func (s *BookingService) Create(ctx context.Context, p *BookingPayload, locale i18n.Locale) (*BookingView, error) {
	p.CustomerName = strings.TrimSpace(p.CustomerName)
	p.CustomerEmail = strings.TrimSpace(p.CustomerEmail)
	p.CustomerPhone = strings.TrimSpace(p.CustomerPhone)
	p.Address = strings.TrimSpace(p.Address)

	db := s.db.WithContext(ctx)
	fields := apperrors.FieldErrors{}

	var svc domain.Service
	if p.Service != 0 {
		if err := db.First(&svc, p.Service).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Internal("failed to load service", err)
			}
			fields.Add("service", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", p.Service))
		}
	}
	var pkg domain.Package
	if p.Package != 0 {
		if err := db.First(&pkg, p.Package).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Internal("failed to load package", err)
			}
			fields.Add("package", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", p.Package))
		} else if svc.ID != 0 && pkg.ServiceID != svc.ID {
			fields.Add("package", "Package does not belong to the selected service.")
		}
	}
	if err := validation.Merge(validation.Struct(p), fields); err != nil {
		return nil, err
	}

	booking := domain.Booking{
		ServiceID:       svc.ID,
		PackageID:       pkg.ID,
		CustomerName:    p.CustomerName,
		CustomerEmail:   p.CustomerEmail,
		CustomerPhone:   p.CustomerPhone,
		Address:         p.Address,
		BookingDate:     p.BookingDate.UTC(),
		SpecialRequests: p.SpecialRequests,
		Status:          domain.BookingPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var addons []domain.Addon
		if len(p.AddonIDs) > 0 {
			if err := tx.Where("id IN ? AND is_active = ?", p.AddonIDs, true).Find(&addons).Error; err != nil {
				return err
			}
		}

		total := pkg.Price
		for _, a := range addons {
			total = total.Add(a.Price)
		}
		booking.TotalPrice = total

		if err := tx.Omit(clause.Associations).Create(&booking).Error; err != nil {
			return err
		}
		if len(addons) > 0 {
			if err := tx.Model(&booking).Association("Addons").Append(addons); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Internal("failed to create booking", err)
	}

	view, err := s.load(ctx, booking.ID, locale)
	if err != nil {
		return nil, err
	}

	total, _ := booking.TotalPrice.Float64()
	metrics.RecordBooking(string(svc.ServiceType), total)
	s.log.Info().Uint("id", booking.ID).Str("total", view.TotalPrice).Msg("booking created")
	if err := s.events.Publish(ctx, events.BookingCreated, view); err != nil {
		s.log.Error().Err(err).Msg("failed to publish booking event")
	}
	s.confirm(ctx, view)

	return view, nil
}

func (s *BookingService) confirm(ctx context.Context, view *BookingView) {
	msg, err := email.BookingConfirmation(view.CustomerEmail, email.BookingConfirmationData{
		ID:           view.ID,
		CustomerName: view.CustomerName,
		ServiceName:  view.ServiceName,
		PackageName:  view.PackageName,
		BookingDate:  view.BookingDate.Format("Monday, January 2, 2006 15:04"),
		Total:        view.TotalPrice,
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Error().Err(err).Uint("id", view.ID).Msg("failed to send booking confirmation")
	}
}

// List returns bookings newest first. A non-empty email filters by
// case-insensitive substring.
func (s *BookingService) List(ctx context.Context, emailFilter string, locale i18n.Locale) ([]BookingView, error) {
	q := s.preload(s.db.WithContext(ctx)).Order("created_at DESC, id DESC")
	if e := strings.TrimSpace(emailFilter); e != "" {
		q = q.Where(`LOWER(customer_email) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(e))+"%")
	}

	var bookings []domain.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, apperrors.Internal("failed to list bookings", err)
	}
	views := make([]BookingView, len(bookings))
	for i := range bookings {
		views[i] = bookingView(&bookings[i], locale)
	}
	return views, nil
}

// UpdateStatus moves a booking to a new status.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint, p *BookingStatusPayload, locale i18n.Locale) (*BookingView, error) {
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	status := domain.BookingStatus(p.Status)
	if !status.Valid() {
		return nil, apperrors.Field("status", fmt.Sprintf("\"%s\" is not a valid choice.", p.Status))
	}

	var booking domain.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, notFoundOr(err, "Booking")
	}
	previous := booking.Status
	if err := s.db.WithContext(ctx).Model(&booking).Update("status", status).Error; err != nil {
		return nil, apperrors.Internal("failed to update booking", err)
	}

	view, err := s.load(ctx, id, locale)
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint("id", id).Str("from", string(previous)).Str("to", string(status)).Msg("booking status changed")
	if err := s.events.Publish(ctx, events.BookingUpdated, map[string]any{
		"id": id, "from": previous, "to": status,
	}); err != nil {
		s.log.Error().Err(err).Msg("failed to publish booking event")
	}
	return view, nil
}

func (s *BookingService) load(ctx context.Context, id uint, locale i18n.Locale) (*BookingView, error) {
	var booking domain.Booking
	if err := s.preload(s.db.WithContext(ctx)).First(&booking, id).Error; err != nil {
		return nil, notFoundOr(err, "Booking")
	}
	v := bookingView(&booking, locale)
	return &v, nil
}

func (s *BookingService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Service").Preload("Package").Preload("Addons", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order, id")
	}).Preload("Addons.Category")
}

func bookingView(b *domain.Booking, locale i18n.Locale) BookingView {
	v := BookingView{
		ID:              b.ID,
		Service:         b.ServiceID,
		ServiceName:     locale.Pick(b.Service.Name, b.Service.NameAr),
		ServiceType:     b.Service.ServiceType,
		Package:         b.PackageID,
		PackageName:     locale.Pick(b.Package.Name, b.Package.NameAr),
		PackagePrice:    money(b.Package.Price),
		Addons:          make([]uint, len(b.Addons)),
		AddonsDetails:   make([]AddonView, len(b.Addons)),
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		Address:         b.Address,
		BookingDate:     b.BookingDate,
		SpecialRequests: b.SpecialRequests,
		TotalPrice:      money(b.TotalPrice),
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
	}
	for i, a := range b.Addons {
		v.Addons[i] = a.ID
		v.AddonsDetails[i] = addonView(a, locale)
	}
	return v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
