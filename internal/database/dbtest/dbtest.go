// Package dbtest opens throwaway databases for package tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"brightscope/internal/config"
	"brightscope/internal/database"
)

var memCounter atomic.Int64

// OpenTest returns a migrated, isolated in-memory SQLite database.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:brightscope_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", memCounter.Add(1))
	db, err := database.Open(config.DatabaseConfig{URL: name}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
