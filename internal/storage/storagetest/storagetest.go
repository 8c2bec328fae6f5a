// Package storagetest provides an in-memory sqlite backend for tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technocare/internal/storage"
	"github.com/Skotchmaster/technocare/pkg/db"
)

func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func NewBackend(t testing.TB) *storage.Backend {
	t.Helper()
	b, err := storage.NewGorm(OpenDB(t))
	require.NoError(t, err)
	return b
}
