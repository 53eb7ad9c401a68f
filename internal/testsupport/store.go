package testsupport

import (
	"testing"

	"scenecache/internal/config"
	"scenecache/internal/namecache/sqlitestore"
)

// MustOpenStore opens the configured SQLite scene name table and registers
// cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *sqlitestore.Store {
	t.Helper()

	store, err := sqlitestore.Open(cfg.Cache.DatabasePath)
	if err != nil {
		t.Fatalf("sqlitestore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
