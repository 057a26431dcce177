package httpapi

import (
	"context"
	"net/http"

	"brightscope/internal/services"
)

func (s *Server) accountRoutes() []route {
	auth := s.svc.Auth
	return []route{
		{
			name: "register", method: http.MethodPost, path: "/account/register",
			decode: s.decoder(newBody[services.RegisterPayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return auth.Register(ctx, v.(*request).body.(*services.RegisterPayload))
			},
			encode: respond(http.StatusCreated),
		},
		{
			name: "login", method: http.MethodPost, path: "/account/login",
			decode: s.decoder(newBody[services.LoginPayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return auth.Login(ctx, v.(*request).body.(*services.LoginPayload))
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "token_refresh", method: http.MethodPost, path: "/account/token/refresh",
			decode: s.decoder(newBody[services.RefreshPayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return auth.Refresh(ctx, v.(*request).body.(*services.RefreshPayload))
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "logout", method: http.MethodPost, path: "/account/logout",
			decode: s.decoder(newBody[services.RefreshPayload]()),
			endpoint: s.secure(func(ctx context.Context, v any) (any, error) {
				return auth.Logout(ctx, v.(*request).body.(*services.RefreshPayload))
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "me", method: http.MethodGet, path: "/account/me",
			decode: s.decoder(nil),
			endpoint: s.secure(func(ctx context.Context, _ any) (any, error) {
				return auth.Me(ctx)
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "change_password", method: http.MethodPost, path: "/account/change-password",
			decode: s.decoder(newBody[services.ChangePasswordPayload]()),
			endpoint: s.secure(func(ctx context.Context, v any) (any, error) {
				return auth.ChangePassword(ctx, v.(*request).body.(*services.ChangePasswordPayload))
			}),
			encode: respond(http.StatusOK),
		},
		{
			name: "reset_password_email", method: http.MethodPost, path: "/account/reset-password-email",
			decode: s.decoder(newBody[services.ResetRequestPayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return auth.RequestPasswordReset(ctx, v.(*request).body.(*services.ResetRequestPayload))
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "reset_password", method: http.MethodPost, path: "/account/reset-password/{uid}/{token}",
			decode: s.decoder(newBody[services.ResetPasswordPayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				req := v.(*request)
				return auth.ResetPassword(ctx, req.vars["uid"], req.vars["token"], req.body.(*services.ResetPasswordPayload))
			},
			encode: respond(http.StatusOK),
		},
	}
}
