// Package inventory walks a source tree and produces per-file metadata
// records for the classification pipeline.
package inventory

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/qi-principal/Package-machine/internal/common"
	"github.com/qi-principal/Package-machine/internal/model"
)

// Collect recursively enumerates every regular file beneath root and
// returns one FileRecord per file. The root must exist; per-file stat
// failures are logged and skipped so a single bad entry never aborts
// the scan. WalkDir visits entries in lexical order, so the result is
// stable for a given filesystem state.
func Collect(root string) ([]model.FileRecord, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: source directory %s", common.ErrNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrNotFound, root)
	}

	var records []model.FileRecord

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		fi, statErr := d.Info()
		if statErr != nil {
			slog.Warn("Skipping file with failed stat", "path", path, "error", statErr)
			return nil
		}

		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			abs = path
		}

		records = append(records, model.FileRecord{
			Path:       abs,
			Name:       d.Name(),
			Extension:  strings.ToLower(filepath.Ext(d.Name())),
			Size:       fi.Size(),
			ModifiedAt: fi.ModTime(),
			CreatedAt:  createdTime(fi),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	slog.Debug("inventory scan complete", "root", root, "files", len(records))
	return records, nil
}
