// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"budget/internal/domain"
	"budget/internal/store"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated sqlite database living in the test's temp dir.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "budget.db") + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open sqlite")

	require.NoError(t, db.AutoMigrate(domain.Models()...), "automigrate")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// OpenStore wraps OpenDB in a store.Store.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(OpenDB(t))
}

// SeedUser inserts a live user.
func SeedUser(t *testing.T, st *store.Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Name: email}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return u
}
