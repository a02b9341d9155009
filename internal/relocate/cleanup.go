package relocate

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// RemoveEmptyDirs deletes empty directories beneath root, deepest
// first so freshly emptied parents are collected in the same pass.
// The root itself is left in place. Returns how many directories were
// removed; per-directory failures are logged and skipped.
func RemoveEmptyDirs(root string) int {
	var dirs []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable directory", "path", path, "error", err)
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to walk for empty directories", "root", root, "error", err)
		return 0
	}

	// Deepest paths first.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	removed := 0
	for _, dir := range dirs {
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			slog.Warn("failed to read directory", "dir", dir, "error", readErr)
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if rmErr := os.Remove(dir); rmErr != nil {
			slog.Warn("failed to remove empty directory", "dir", dir, "error", rmErr)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("removed empty directories", "root", root, "count", removed)
	}
	return removed
}
