// Package testutil provides shared helpers for tests that need a real
// migrated category database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/qi-principal/Package-machine/internal/storage"
)

// SetupTestDB creates a migrated SQLite store in a per-test temp
// directory, seeds the given category names, and registers cleanup.
func SetupTestDB(t *testing.T, categories ...string) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, name := range categories {
		if _, err := store.AddCategory(ctx, name); err != nil {
			_ = store.Close()
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
	}

	t.Cleanup(func() { _ = store.Close() })
	return store
}
