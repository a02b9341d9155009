package model

import "time"

// Category is a named destination grouping for classified files.
// Categories accumulate; they are never deleted automatically.
type Category struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	ID        int
}

// CategoryAssignment links a file path to a category with the
// confidence recorded at assignment time. A file may carry several
// assignments, one per category.
type CategoryAssignment struct {
	AssignedAt time.Time
	FilePath   string
	Category   string
	Confidence float64
}

// HistoryAction identifies the kind of audit record.
type HistoryAction string

const (
	// ActionAdd records a category assignment.
	ActionAdd HistoryAction = "add"
	// ActionRemove records a category removal.
	ActionRemove HistoryAction = "remove"
)

// HistoryEntry is an immutable audit record of an assignment or
// removal. Entries are append-only.
type HistoryEntry struct {
	CreatedAt time.Time
	FilePath  string
	Category  string
	Action    HistoryAction
}
