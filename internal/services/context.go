package services

import (
	"context"

	"brightscope/internal/domain"
	"brightscope/internal/util"
)

type ctxKey int

const (
	userKey ctxKey = iota
	claimsKey
)

// WithUser stores the authenticated user and the claims of its access token.
func WithUser(ctx context.Context, user *domain.User, claims *util.Claims) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, claimsKey, claims)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

// ClaimsFromContext returns the claims of the bearer token, if any.
func ClaimsFromContext(ctx context.Context) (*util.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*util.Claims)
	return claims, ok && claims != nil
}
