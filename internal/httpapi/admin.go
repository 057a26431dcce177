package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"brightscope/internal/services"
	apperrors "brightscope/pkg/errors"
)

func (s *Server) adminRoutes() []route {
	admin, bookings, pay, settings, features := s.svc.Admin, s.svc.Bookings, s.svc.Payments, s.svc.Settings, s.svc.Features
	staff := func(ep func(context.Context, any) (any, error)) func(context.Context, any) (any, error) {
		return s.secure(ep, services.ScopeStaff)
	}
	return []route{
		{
			name: "admin_submissions", method: http.MethodGet, path: "/admin/contact/submissions",
			decode: s.decoder(nil),
			endpoint: staff(func(ctx context.Context, v any) (any, error) {
				var resolved *bool
				if raw := v.(*request).query.Get("resolved"); raw != "" {
					b, err := strconv.ParseBool(raw)
					if err != nil {
						return nil, apperrors.Field("resolved", "Must be a valid boolean.")
					}
					resolved = &b
				}
				return admin.ListSubmissions(ctx, resolved)
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "admin_resolve_submission", method: http.MethodPatch, path: "/admin/contact/submissions/{id}",
			decode: s.decoder(newBody[services.ResolvePayload]()),
			endpoint: staff(func(ctx context.Context, v any) (any, error) {
				req := v.(*request)
				id, err := req.id("id")
				if err != nil {
					return nil, err
				}
				return admin.ResolveSubmission(ctx, id, req.body.(*services.ResolvePayload))
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "admin_booking_status", method: http.MethodPatch, path: "/admin/bookings/{id}",
			decode: s.decoder(newBody[services.BookingStatusPayload]()),
			endpoint: staff(func(ctx context.Context, v any) (any, error) {
				req := v.(*request)
				id, err := req.id("id")
				if err != nil {
					return nil, err
				}
				return bookings.UpdateStatus(ctx, id, req.body.(*services.BookingStatusPayload), req.locale)
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "admin_payments", method: http.MethodGet, path: "/admin/payments",
			decode: s.decoder(nil),
			endpoint: staff(func(ctx context.Context, v any) (any, error) {
				return pay.List(ctx, v.(*request).query.Get("status"))
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "admin_contact_info", method: http.MethodPut, path: "/admin/settings/contact-info",
			decode: s.decoder(newBody[services.ContactInfoPayload]()),
			endpoint: staff(func(ctx context.Context, v any) (any, error) {
				return settings.UpdateContactInfo(ctx, v.(*request).body.(*services.ContactInfoPayload))
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "admin_subscribers", method: http.MethodGet, path: "/admin/newsletter/subscribers",
			decode: s.decoder(nil),
			endpoint: staff(func(ctx context.Context, _ any) (any, error) {
				return settings.ListSubscribers(ctx)
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "admin_feature_create", method: http.MethodPost, path: "/admin/features",
			decode: s.decoder(newBody[services.FeaturePayload]()),
			endpoint: staff(func(ctx context.Context, v any) (any, error) {
				return features.Create(ctx, v.(*request).body.(*services.FeaturePayload))
			}),
			encode: respond(http.StatusCreated),
		},
	}
}
