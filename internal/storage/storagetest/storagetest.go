// Package storagetest opens migrated throwaway databases for tests.
package storagetest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-ledger/internal/config"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

// New returns a Storage over a fresh, migrated database in t's temp dir.
func New(t testing.TB) *storage.Storage {
	t.Helper()

	store, err := storage.NewStorage(&config.Config{
		DBPath:        filepath.Join(t.TempDir(), "ledger.db"),
		BusyTimeoutMs: 1000,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Migrate()
	require.NoError(t, err)
	return store
}
