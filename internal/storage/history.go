package storage

import (
	"context"

	"github.com/qi-principal/Package-machine/internal/model"
)

// ListHistory returns the audit trail ordered by descending timestamp
// (insertion order breaks ties). An empty filePath returns the full
// trail; otherwise only entries for that path.
func (s *SQLiteStorage) ListHistory(ctx context.Context, filePath string) ([]model.HistoryEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ch.file_path, c.name, ch.action, ch.created_at
		FROM category_history ch
		JOIN categories c ON ch.category_id = c.id`
	args := []any{}
	if filePath != "" {
		query += ` WHERE ch.file_path = ?`
		args = append(args, filePath)
	}
	query += ` ORDER BY ch.created_at DESC, ch.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query history", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var action string
		if err := rows.Scan(&entry.FilePath, &entry.Category, &action, &entry.CreatedAt); err != nil {
			return nil, storageErr("scan history entry", err)
		}
		entry.Action = model.HistoryAction(action)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate history", err)
	}
	return entries, nil
}
