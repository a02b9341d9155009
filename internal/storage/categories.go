package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/qi-principal/Package-machine/internal/common"
	"github.com/qi-principal/Package-machine/internal/model"
)

// storageErr tags a database fault so callers can match it with
// errors.Is(err, common.ErrStorage).
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrStorage, op, err)
}

// AddCategory creates a category if it does not exist and reports
// whether a new row was inserted. Adding an existing category is a
// no-op.
func (s *SQLiteStorage) AddCategory(ctx context.Context, name string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (name, created_at, updated_at) VALUES (?, ?, ?)`,
		name, time.Now(), time.Now())
	if err != nil {
		return false, storageErr("add category", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, storageErr("add category", err)
	}

	if affected > 0 {
		slog.Info("created new category", "name", name)
	}
	return affected > 0, nil
}

// ListCategories returns all categories in lexicographic order.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, storageErr("query categories", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, storageErr("scan category", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate categories", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// CategoryNames returns the category names in lexicographic order.
func (s *SQLiteStorage) CategoryNames(ctx context.Context) ([]string, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}
	return names, nil
}

// ensureCategoryTx creates the category inside an open transaction if
// needed and returns its id. Reusing an existing category bumps its
// updated_at timestamp.
func ensureCategoryTx(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	now := time.Now()

	result, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (name, created_at, updated_at) VALUES (?, ?, ?)`,
		name, now, now)
	if err != nil {
		return 0, err
	}

	if affected, raErr := result.RowsAffected(); raErr == nil && affected > 0 {
		id, idErr := result.LastInsertId()
		if idErr != nil {
			return 0, idErr
		}
		return id, nil
	}

	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE categories SET updated_at = ? WHERE id = ?`, now, id); err != nil {
		return 0, err
	}
	return id, nil
}
