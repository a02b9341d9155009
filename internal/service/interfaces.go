// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/qi-principal/Package-machine/internal/model"
)

// Storage defines the contract for the category persistence layer.
// It is the only component permitted to mutate persisted entities.
type Storage interface {
	// Category operations
	AddCategory(ctx context.Context, name string) (bool, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	// Assignment operations
	AssignFileCategory(ctx context.Context, filePath, category string, confidence float64) error
	RemoveFileCategory(ctx context.Context, filePath, category string) (bool, error)
	ListFilesForCategory(ctx context.Context, category string) ([]string, error)
	ListCategoriesForFile(ctx context.Context, filePath string) ([]model.CategoryAssignment, error)

	// History operations
	ListHistory(ctx context.Context, filePath string) ([]model.HistoryEntry, error)

	// Maintenance operations
	PruneMissingFiles(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Classifier sends a batch of file records to the classification
// service and returns one result per file path. Implementations must
// not retry internally; retry policy belongs to the caller.
type Classifier interface {
	Classify(ctx context.Context, batch []model.FileRecord, categories []string) (map[string]model.ClassificationResult, error)
}

// Mover relocates files into category directories. Implementations
// report failure through the return values and never panic past this
// boundary. The Place variants return the collision-resolved path the
// file landed at, which the orchestrator persists.
type Mover interface {
	Move(source, targetDir, newName string) bool
	Copy(source, targetDir, newName string) bool
	Place(source, targetDir, newName string) (string, bool)
	PlaceCopy(source, targetDir, newName string) (string, bool)
}
