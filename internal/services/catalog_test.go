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

func TestCatalogList(t *testing.T) {
	db := dbtest.OpenTest(t)
	fx := seedCatalog(t, db)
	svc := NewCatalogService(db, zerolog.Nop())
	ctx := context.Background()

	all, err := svc.List(ctx, "", i18n.English)
	require.NoError(t, err)
	require.Len(t, all, 2, "inactive services are hidden")
	assert.Equal(t, fx.service.ID, all[0].ID)
	require.NotNil(t, all[0].StartPrice)
	assert.Equal(t, 199, *all[0].StartPrice)

	pest, err := svc.List(ctx, string(domain.ServicePestControl), i18n.English)
	require.NoError(t, err)
	require.Len(t, pest, 1)
	assert.Equal(t, fx.other.ID, pest[0].ID)

	ar, err := svc.List(ctx, string(domain.ServiceHomeCleaning), i18n.Arabic)
	require.NoError(t, err)
	require.Len(t, ar, 1)
	assert.Equal(t, "تنظيف المنازل", ar[0].Name)
	assert.Equal(t, "Regular home cleaning", ar[0].Description, "untranslated fields fall back to English")
}

func TestCatalogGet(t *testing.T) {
	db := dbtest.OpenTest(t)
	fx := seedCatalog(t, db)
	svc := NewCatalogService(db, zerolog.Nop())
	ctx := context.Background()

	detail, err := svc.Get(ctx, fx.service.ID, i18n.English)
	require.NoError(t, err)
	assert.Equal(t, "Sparkling homes", detail.HeroTitle)

	require.Len(t, detail.Features, 2)
	assert.Equal(t, "First", detail.Features[0].Name)
	assert.Equal(t, "Second", detail.Features[1].Name)
	assert.Len(t, detail.Contents, 1)
	assert.Len(t, detail.Ratings, 1)

	require.Len(t, detail.Packages, 1, "inactive packages are hidden")
	assert.Equal(t, "100.50", detail.Packages[0].Price)

	require.Len(t, detail.Addons, 2)
	assert.Equal(t, "Fridge", detail.Addons[0].Name)
	assert.Equal(t, "20.00", detail.Addons[0].Price)
	assert.Equal(t, "Extras", detail.Addons[0].CategoryName)
	require.NotNil(t, detail.Addons[0].Category)
	assert.Equal(t, fx.category.ID, *detail.Addons[0].Category)

	ar, err := svc.Get(ctx, fx.service.ID, i18n.Arabic)
	require.NoError(t, err)
	assert.Equal(t, "الأول", ar.Features[0].Name)
	assert.Equal(t, "Second", ar.Features[1].Name)
	assert.Equal(t, "إضافات", ar.Addons[0].CategoryName)
}

func TestCatalogGetMissingOrInactive(t *testing.T) {
	db := dbtest.OpenTest(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db, zerolog.Nop())

	var hidden domain.Service
	require.NoError(t, db.Where("is_active = ?", false).First(&hidden).Error)

	for _, id := range []uint{hidden.ID, 9999} {
		_, err := svc.Get(context.Background(), id, i18n.English)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
		assert.Equal(t, "No Service matches the given query.", appErr.Message)
	}
}
