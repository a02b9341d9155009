package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qi-principal/Package-machine/internal/common"
	"github.com/qi-principal/Package-machine/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	created, err := store.AddCategory(ctx, "Documents")
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if !created {
		t.Error("Expected first AddCategory to insert a row")
	}

	created, err = store.AddCategory(ctx, "Documents")
	if err != nil {
		t.Fatalf("AddCategory failed on duplicate: %v", err)
	}
	if created {
		t.Error("Expected duplicate AddCategory to be a no-op")
	}

	if _, err := store.AddCategory(ctx, ""); err == nil {
		t.Error("Expected error for empty category name")
	}
}

func TestListCategoriesOrder(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, name := range []string{"Videos", "Documents", "Images"} {
		if _, err := store.AddCategory(ctx, name); err != nil {
			t.Fatalf("AddCategory(%q) failed: %v", name, err)
		}
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}

	want := []string{"Documents", "Images", "Videos"}
	if len(categories) != len(want) {
		t.Fatalf("Expected %d categories, got %d", len(want), len(categories))
	}
	for i, cat := range categories {
		if cat.Name != want[i] {
			t.Errorf("Category %d: expected %q, got %q", i, want[i], cat.Name)
		}
		if cat.CreatedAt.IsZero() || cat.UpdatedAt.IsZero() {
			t.Errorf("Category %q has zero timestamps", cat.Name)
		}
	}
}

func TestAssignFileCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.AssignFileCategory(ctx, "/files/a.txt", "Notes", 0.8); err != nil {
		t.Fatalf("AssignFileCategory failed: %v", err)
	}

	// The category is created implicitly.
	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Notes" {
		t.Fatalf("Expected implicit category Notes, got %+v", categories)
	}

	assignments, err := store.ListCategoriesForFile(ctx, "/files/a.txt")
	if err != nil {
		t.Fatalf("ListCategoriesForFile failed: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("Expected 1 assignment, got %d", len(assignments))
	}
	if assignments[0].Category != "Notes" || assignments[0].Confidence != 0.8 {
		t.Errorf("Unexpected assignment: %+v", assignments[0])
	}
}

func TestAssignFileCategoryOverwritesConfidence(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.AssignFileCategory(ctx, "/files/a.txt", "Notes", 0.5); err != nil {
		t.Fatalf("First assignment failed: %v", err)
	}
	if err := store.AssignFileCategory(ctx, "/files/a.txt", "Notes", 0.9); err != nil {
		t.Fatalf("Second assignment failed: %v", err)
	}

	assignments, err := store.ListCategoriesForFile(ctx, "/files/a.txt")
	if err != nil {
		t.Fatalf("ListCategoriesForFile failed: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("Expected 1 assignment after overwrite, got %d", len(assignments))
	}
	if assignments[0].Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9 after overwrite, got %f", assignments[0].Confidence)
	}
}

func TestFileMayBelongToMultipleCategories(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.AssignFileCategory(ctx, "/files/a.txt", "Notes", 0.4); err != nil {
		t.Fatalf("First assignment failed: %v", err)
	}
	if err := store.AssignFileCategory(ctx, "/files/a.txt", "Work", 0.9); err != nil {
		t.Fatalf("Second assignment failed: %v", err)
	}

	assignments, err := store.ListCategoriesForFile(ctx, "/files/a.txt")
	if err != nil {
		t.Fatalf("ListCategoriesForFile failed: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(assignments))
	}
	// Descending confidence order.
	if assignments[0].Category != "Work" || assignments[1].Category != "Notes" {
		t.Errorf("Expected confidence-descending order, got %+v", assignments)
	}
}

func TestAssignRejectsOutOfRangeConfidence(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, confidence := range []float64{-0.1, 1.1} {
		if err := store.AssignFileCategory(ctx, "/files/a.txt", "Notes", confidence); err == nil {
			t.Errorf("Expected error for confidence %f", confidence)
		}
	}
}

func TestRemoveFileCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.AssignFileCategory(ctx, "/files/a.txt", "Notes", 0.8); err != nil {
		t.Fatalf("AssignFileCategory failed: %v", err)
	}

	removed, err := store.RemoveFileCategory(ctx, "/files/a.txt", "Notes")
	if err != nil {
		t.Fatalf("RemoveFileCategory failed: %v", err)
	}
	if !removed {
		t.Error("Expected removal of existing assignment to report true")
	}

	paths, err := store.ListFilesForCategory(ctx, "Notes")
	if err != nil {
		t.Fatalf("ListFilesForCategory failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected no files after removal, got %v", paths)
	}

	// The category row survives the removal.
	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 1 {
		t.Errorf("Expected category to survive assignment removal, got %+v", categories)
	}
}

func TestRemoveFileCategoryNoOp(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	removed, err := store.RemoveFileCategory(ctx, "/files/a.txt", "Ghost")
	if err != nil {
		t.Fatalf("RemoveFileCategory failed: %v", err)
	}
	if removed {
		t.Error("Expected no-op removal to report false")
	}

	// No history row for a removal that never deleted anything.
	entries, err := store.ListHistory(ctx, "")
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty history, got %+v", entries)
	}
}

func TestHistoryTrail(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.AssignFileCategory(ctx, "/files/a.txt", "Notes", 0.8); err != nil {
		t.Fatalf("AssignFileCategory failed: %v", err)
	}
	if _, err := store.RemoveFileCategory(ctx, "/files/a.txt", "Notes"); err != nil {
		t.Fatalf("RemoveFileCategory failed: %v", err)
	}

	entries, err := store.ListHistory(ctx, "/files/a.txt")
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(entries))
	}

	// Descending order: the remove comes first.
	if entries[0].Action != model.ActionRemove {
		t.Errorf("Expected most recent entry to be remove, got %q", entries[0].Action)
	}
	if entries[1].Action != model.ActionAdd {
		t.Errorf("Expected older entry to be add, got %q", entries[1].Action)
	}
	if entries[0].CreatedAt.Before(entries[1].CreatedAt) {
		t.Error("Remove timestamp must not precede the add timestamp")
	}
}

func TestHistoryFilterByPath(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.AssignFileCategory(ctx, "/files/a.txt", "Notes", 0.8); err != nil {
		t.Fatalf("AssignFileCategory failed: %v", err)
	}
	if err := store.AssignFileCategory(ctx, "/files/b.txt", "Notes", 0.7); err != nil {
		t.Fatalf("AssignFileCategory failed: %v", err)
	}

	entries, err := store.ListHistory(ctx, "/files/b.txt")
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 1 || entries[0].FilePath != "/files/b.txt" {
		t.Errorf("Expected only /files/b.txt entries, got %+v", entries)
	}
}

func TestPruneMissingFiles(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	// One file that exists on disk, one that does not.
	dir := t.TempDir()
	existing := filepath.Join(dir, "kept.txt")
	if err := os.WriteFile(existing, []byte("kept"), 0600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	missing := filepath.Join(dir, "gone.txt")

	if err := store.AssignFileCategory(ctx, existing, "Notes", 0.8); err != nil {
		t.Fatalf("AssignFileCategory failed: %v", err)
	}
	if err := store.AssignFileCategory(ctx, missing, "Notes", 0.6); err != nil {
		t.Fatalf("AssignFileCategory failed: %v", err)
	}

	pruned, err := store.PruneMissingFiles(ctx)
	if err != nil {
		t.Fatalf("PruneMissingFiles failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 pruned assignment, got %d", pruned)
	}

	paths, err := store.ListFilesForCategory(ctx, "Notes")
	if err != nil {
		t.Fatalf("ListFilesForCategory failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != existing {
		t.Errorf("Expected only the existing file to remain, got %v", paths)
	}

	// History is untouched by pruning.
	entries, err := store.ListHistory(ctx, "")
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected history to survive pruning, got %d entries", len(entries))
	}

	// Idempotence: a second prune removes nothing.
	pruned, err = store.PruneMissingFiles(ctx)
	if err != nil {
		t.Fatalf("Second PruneMissingFiles failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("Expected second prune to remove 0 rows, got %d", pruned)
	}
}

func TestStorageErrorsAreTagged(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	// Force a database fault by closing the handle.
	_ = store.Close()

	_, err := store.ListCategories(ctx)
	if err == nil {
		t.Fatal("Expected error from closed database")
	}
	if !errors.Is(err, common.ErrStorage) {
		t.Errorf("Expected error to wrap common.ErrStorage, got %v", err)
	}
}
