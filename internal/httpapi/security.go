package httpapi

import (
	"context"
	"net/http"
	"strings"

	"goa.design/goa/v3/security"
	goa "goa.design/goa/v3/pkg"

	"brightscope/internal/services"
	apperrors "brightscope/pkg/errors"
)

type bearerKey struct{}

func withBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// secure runs the JWT scheme before ep. The caller needs any one of
// scopes; none means any active account.
func (s *Server) secure(ep goa.Endpoint, scopes ...string) goa.Endpoint {
	scheme := &security.JWTScheme{
		Name:           "jwt",
		Scopes:         []string{services.ScopeStaff, services.ScopeAdmin},
		RequiredScopes: scopes,
	}
	return func(ctx context.Context, req any) (any, error) {
		token, _ := ctx.Value(bearerKey{}).(string)
		if token == "" {
			return nil, apperrors.Unauthorized("Authentication credentials were not provided.")
		}
		ctx, err := s.svc.Auth.JWTAuth(ctx, token, scheme)
		if err != nil {
			return nil, err
		}
		return ep(ctx, req)
	}
}
