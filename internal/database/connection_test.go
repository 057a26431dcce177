package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightscope/internal/database"
	"brightscope/internal/database/dbtest"
	"brightscope/internal/domain"
)

func TestMigrateCreatesTables(t *testing.T) {
	db := dbtest.OpenTest(t)

	for _, table := range []string{"users", "token_blacklist", "contact_submissions", "bookings", "booking_addons", "payments", "contact_info", "newsletter_subscribers"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	require.NoError(t, database.Ping(context.Background(), db))
}

func TestFeatureOrderAutoIncrements(t *testing.T) {
	db := dbtest.OpenTest(t)

	first := domain.Feature{Title: "Eco friendly", Alias: "eco"}
	require.NoError(t, db.Create(&first).Error)
	require.NotNil(t, first.Order)
	assert.Equal(t, 1, *first.Order)
	assert.Equal(t, domain.DefaultFeatureIcon, *first.Icon)

	ten := 10
	pinned := domain.Feature{Title: "Insured", Alias: "insured", Order: &ten}
	require.NoError(t, db.Create(&pinned).Error)
	assert.Equal(t, 10, *pinned.Order)

	next := domain.Feature{Title: "Vetted staff", Alias: "staff"}
	require.NoError(t, db.Create(&next).Error)
	assert.Equal(t, 11, *next.Order)
}

func TestStats(t *testing.T) {
	db := dbtest.OpenTest(t)
	stats, err := database.Stats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}
