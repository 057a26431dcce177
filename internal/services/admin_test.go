package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightscope/internal/database/dbtest"
	"brightscope/internal/domain"
	apperrors "brightscope/pkg/errors"
)

func TestAdminSubmissions(t *testing.T) {
	db := dbtest.OpenTest(t)
	svc := NewAdminService(db, zerolog.Nop())
	ctx := context.Background()

	for _, name := range []string{"Amal Haddad", "Karim Nasser"} {
		require.NoError(t, db.Create(&domain.ContactSubmission{
			FullName: name, Email: "x@example.com", PhoneNumber: "+971501234567",
			ServiceType: domain.ContactOther, Message: "Need a quote please", IsResolved: false,
		}).Error)
	}

	all, err := svc.ListSubmissions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Karim Nasser", all[0].FullName)

	resolved := true
	sub, err := svc.ResolveSubmission(ctx, all[0].ID, &ResolvePayload{IsResolved: &resolved})
	require.NoError(t, err)
	assert.True(t, sub.IsResolved)

	open := false
	pending, err := svc.ListSubmissions(ctx, &open)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Amal Haddad", pending[0].FullName)

	done, err := svc.ListSubmissions(ctx, &resolved)
	require.NoError(t, err)
	assert.Len(t, done, 1)

	_, err = svc.ResolveSubmission(ctx, all[0].ID, &ResolvePayload{})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.ResolveSubmission(ctx, 999, &ResolvePayload{IsResolved: &resolved})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHealthCheck(t *testing.T) {
	db := dbtest.OpenTest(t)
	svc := NewHealthService(db, "brightscope", "1.2.0", zerolog.Nop())

	res, ok := svc.Check(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "ok", res.Database)
	assert.Equal(t, "1.2.0", res.Version)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	res, ok = svc.Check(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "unhealthy", res.Status)
}
