package httpapi

import (
	"context"
	"net/http"

	"brightscope/internal/services"
)

func (s *Server) contactRoutes() []route {
	contact := s.svc.Contact
	return []route{
		{
			name: "contact_submit", method: http.MethodPost, path: "/contact/submit",
			decode: s.decoder(newBody[services.ContactSubmitPayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return contact.Submit(ctx, v.(*request).body.(*services.ContactSubmitPayload))
			},
			encode: respond(http.StatusCreated),
		},
		{
			name: "contact_info", method: http.MethodGet, path: "/contact/info",
			decode: s.decoder(nil),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return contact.Info(ctx, v.(*request).locale)
			},
			encode: respond(http.StatusOK),
		},
	}
}

func (s *Server) catalogRoutes() []route {
	catalog, features := s.svc.Catalog, s.svc.Features
	return []route{
		{
			name: "service_list", method: http.MethodGet, path: "/service/services",
			decode: s.decoder(nil),
			endpoint: func(ctx context.Context, v any) (any, error) {
				req := v.(*request)
				return catalog.List(ctx, req.query.Get("service_type"), req.locale)
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "service_detail", method: http.MethodGet, path: "/service/services/{id}",
			decode: s.decoder(nil),
			endpoint: func(ctx context.Context, v any) (any, error) {
				req := v.(*request)
				id, err := req.id("id")
				if err != nil {
					return nil, err
				}
				return catalog.Get(ctx, id, req.locale)
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "feature_list", method: http.MethodGet, path: "/features",
			decode: s.decoder(nil),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return features.List(ctx, v.(*request).locale)
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "feature_detail", method: http.MethodGet, path: "/features/{id}",
			decode: s.decoder(nil),
			endpoint: func(ctx context.Context, v any) (any, error) {
				req := v.(*request)
				id, err := req.id("id")
				if err != nil {
					return nil, err
				}
				return features.Get(ctx, id, req.locale)
			},
			encode: respond(http.StatusOK),
		},
	}
}

func (s *Server) bookingRoutes() []route {
	bookings := s.svc.Bookings
	list := func(ctx context.Context, v any) (any, error) {
		req := v.(*request)
		return bookings.List(ctx, req.query.Get("email"), req.locale)
	}
	if s.cfg.Booking.ListRequiresAuth {
		list = s.secure(list)
	}
	return []route{
		{
			name: "booking_create", method: http.MethodPost, path: "/service/bookings",
			decode: s.decoder(newBody[services.BookingPayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				req := v.(*request)
				return bookings.Create(ctx, req.body.(*services.BookingPayload), req.locale)
			},
			encode: respond(http.StatusCreated),
		},
		{
			name: "booking_list", method: http.MethodGet, path: "/service/bookings",
			decode: s.decoder(nil), endpoint: list, encode: respond(http.StatusOK),
		},
	}
}

func (s *Server) settingsRoutes() []route {
	settings := s.svc.Settings
	return []route{
		{
			name: "contact_info_settings", method: http.MethodGet, path: "/settings/contact-info",
			decode: s.decoder(nil),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return settings.ContactInfo(ctx, v.(*request).locale)
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "newsletter_subscribe", method: http.MethodPost, path: "/settings/contact-info/subscribe",
			decode: s.decoder(newBody[services.SubscribePayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return settings.Subscribe(ctx, v.(*request).body.(*services.SubscribePayload))
			},
			encode: respond(http.StatusCreated),
		},
	}
}

// healthOutcome carries the check result and whether the service is fit to
// take traffic.
type healthOutcome struct {
	result  *services.HealthResult
	healthy bool
}

func (s *Server) healthRoutes() []route {
	health := s.svc.Health
	return []route{
		{
			name: "health", method: http.MethodGet, path: "/health",
			decode: s.decoder(nil),
			endpoint: func(ctx context.Context, _ any) (any, error) {
				res, ok := health.Check(ctx)
				return healthOutcome{result: res, healthy: ok}, nil
			},
			encode: func(ctx context.Context, w http.ResponseWriter, v any) error {
				out := v.(healthOutcome)
				status := http.StatusOK
				if !out.healthy {
					status = http.StatusServiceUnavailable
				}
				return respond(status)(ctx, w, out.result)
			},
		},
	}
}
