package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightscope/internal/database/dbtest"
	"brightscope/internal/domain"
	"brightscope/internal/i18n"
	apperrors "brightscope/pkg/errors"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestFeatureCreateAssignsNextOrder(t *testing.T) {
	svc := NewFeatureService(dbtest.OpenTest(t), zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Create(ctx, &FeaturePayload{Title: "Trained staff", Alias: "staff"})
	require.NoError(t, err)
	require.NotNil(t, first.Order)
	assert.Equal(t, 1, *first.Order)
	require.NotNil(t, first.Icon)
	assert.Equal(t, domain.DefaultFeatureIcon, *first.Icon)

	pinned, err := svc.Create(ctx, &FeaturePayload{Title: "Eco products", Alias: "eco", Order: intPtr(10), Icon: strPtr("fa-leaf")})
	require.NoError(t, err)
	assert.Equal(t, 10, *pinned.Order)

	next, err := svc.Create(ctx, &FeaturePayload{Title: "Insured", Alias: "insured"})
	require.NoError(t, err)
	assert.Equal(t, 11, *next.Order)

	_, err = svc.Create(ctx, &FeaturePayload{Title: "  ", Alias: "blank"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestFeatureListAndGet(t *testing.T) {
	svc := NewFeatureService(dbtest.OpenTest(t), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, &FeaturePayload{Title: "Later", Alias: "later", Order: intPtr(5)})
	require.NoError(t, err)
	early, err := svc.Create(ctx, &FeaturePayload{
		Title: "Early", TitleAr: "مبكر", Alias: "early", Order: intPtr(1),
		Subtitle: strPtr("Sub"), SubtitleAr: strPtr("فرعي"),
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, i18n.English)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Early", list[0].Title)
	assert.Equal(t, "Later", list[1].Title)
	assert.Nil(t, list[1].Subtitle)

	ar, err := svc.Get(ctx, early.ID, i18n.Arabic)
	require.NoError(t, err)
	assert.Equal(t, "مبكر", ar.Title)
	require.NotNil(t, ar.Subtitle)
	assert.Equal(t, "فرعي", *ar.Subtitle)
	assert.Equal(t, "early", ar.Alias)

	_, err = svc.Get(ctx, 999, i18n.English)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "No Feature matches the given query.", appErr.Message)
}
