package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/qi-principal/Package-machine/internal/model"
)

// AssignFileCategory records that a file belongs to a category with
// the given confidence. The category is created if absent, the
// assignment is upserted (same pair overwrites confidence only), and
// an "add" history row is appended — all in one transaction.
func (s *SQLiteStorage) AssignFileCategory(ctx context.Context, filePath, category string, confidence float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(filePath, "filePath"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}
	if err := validateConfidence(confidence); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin assignment transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	categoryID, err := ensureCategoryTx(ctx, tx, category)
	if err != nil {
		return storageErr("ensure category", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO file_categories (file_path, category_id, confidence, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (file_path, category_id) DO UPDATE SET confidence = excluded.confidence`,
		filePath, categoryID, confidence, time.Now()); err != nil {
		return storageErr("upsert assignment", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO category_history (file_path, category_id, action, created_at) VALUES (?, ?, ?, ?)`,
		filePath, categoryID, string(model.ActionAdd), time.Now()); err != nil {
		return storageErr("append history", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit assignment", err)
	}

	slog.Debug("assigned file category",
		"file", filePath,
		"category", category,
		"confidence", confidence)
	return nil
}

// RemoveFileCategory deletes the assignment if present and reports
// whether one existed. A "remove" history row is appended only when an
// assignment was actually deleted.
func (s *SQLiteStorage) RemoveFileCategory(ctx context.Context, filePath, category string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(filePath, "filePath"); err != nil {
		return false, err
	}
	if err := validateString(category, "category"); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storageErr("begin removal transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var categoryID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE name = ?`, category).Scan(&categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("lookup category", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM file_categories WHERE file_path = ? AND category_id = ?`,
		filePath, categoryID)
	if err != nil {
		return false, storageErr("delete assignment", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, storageErr("delete assignment", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO category_history (file_path, category_id, action, created_at) VALUES (?, ?, ?, ?)`,
		filePath, categoryID, string(model.ActionRemove), time.Now()); err != nil {
		return false, storageErr("append history", err)
	}

	if err := tx.Commit(); err != nil {
		return false, storageErr("commit removal", err)
	}

	slog.Debug("removed file category", "file", filePath, "category", category)
	return true, nil
}

// ListFilesForCategory returns the file paths assigned to a category,
// ordered by path.
func (s *SQLiteStorage) ListFilesForCategory(ctx context.Context, category string) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fc.file_path
		FROM file_categories fc
		JOIN categories c ON fc.category_id = c.id
		WHERE c.name = ?
		ORDER BY fc.file_path`, category)
	if err != nil {
		return nil, storageErr("query files for category", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, storageErr("scan file path", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate files for category", err)
	}
	return paths, nil
}

// ListCategoriesForFile returns a file's assignments ordered by
// descending confidence.
func (s *SQLiteStorage) ListCategoriesForFile(ctx context.Context, filePath string) ([]model.CategoryAssignment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(filePath, "filePath"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, fc.confidence, fc.created_at
		FROM file_categories fc
		JOIN categories c ON fc.category_id = c.id
		WHERE fc.file_path = ?
		ORDER BY fc.confidence DESC`, filePath)
	if err != nil {
		return nil, storageErr("query categories for file", err)
	}
	defer func() { _ = rows.Close() }()

	var assignments []model.CategoryAssignment
	for rows.Next() {
		assignment := model.CategoryAssignment{FilePath: filePath}
		if err := rows.Scan(&assignment.Category, &assignment.Confidence, &assignment.AssignedAt); err != nil {
			return nil, storageErr("scan assignment", err)
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate categories for file", err)
	}
	return assignments, nil
}

// PruneMissingFiles deletes assignments whose file path no longer
// exists on disk and returns how many rows were removed. History rows
// are untouched. Running it twice in a row removes nothing the second
// time.
func (s *SQLiteStorage) PruneMissingFiles(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT file_path FROM file_categories`)
	if err != nil {
		return 0, storageErr("query assignment paths", err)
	}

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			_ = rows.Close()
			return 0, storageErr("scan assignment path", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, storageErr("iterate assignment paths", err)
	}
	_ = rows.Close()

	pruned := 0
	for _, path := range paths {
		if _, statErr := os.Stat(path); statErr == nil || !os.IsNotExist(statErr) {
			continue
		}
		result, delErr := s.db.ExecContext(ctx,
			`DELETE FROM file_categories WHERE file_path = ?`, path)
		if delErr != nil {
			return pruned, storageErr("delete stale assignment", delErr)
		}
		if affected, raErr := result.RowsAffected(); raErr == nil {
			pruned += int(affected)
		}
	}

	if pruned > 0 {
		slog.Info("pruned stale assignments", "count", pruned)
	}
	return pruned, nil
}
