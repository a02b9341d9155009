// Package engine drives classification runs: it batches the file set,
// invokes the classifier per batch, persists and relocates each
// result, and reports progress through ordered events.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/qi-principal/Package-machine/internal/model"
	"github.com/qi-principal/Package-machine/internal/service"
)

// DefaultBatchSize is the number of files submitted per classifier call.
const DefaultBatchSize = 10

// Config holds configuration options for the orchestrator.
type Config struct {
	TargetDir string
	BatchSize int
	CopyFiles bool
}

// Orchestrator partitions a file set into batches and runs the
// classify → persist → relocate pipeline over them sequentially.
type Orchestrator struct {
	classifier service.Classifier
	store      service.Storage
	mover      service.Mover
	targetDir  string
	batchSize  int
	copyFiles  bool
}

// New creates an orchestrator with the given collaborators.
func New(classifier service.Classifier, store service.Storage, mover service.Mover, cfg Config) *Orchestrator {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Orchestrator{
		classifier: classifier,
		store:      store,
		mover:      mover,
		targetDir:  cfg.TargetDir,
		batchSize:  batchSize,
		copyFiles:  cfg.CopyFiles,
	}
}

// Run executes one classification run in a background goroutine and
// returns the event stream. Batches are processed one at a time; the
// remote call is the bottleneck, so there is nothing to parallelize.
// The channel is closed after the terminal event.
func (o *Orchestrator) Run(ctx context.Context, records []model.FileRecord) <-chan Event {
	events := make(chan Event, 16)
	go o.run(ctx, records, events)
	return events
}

func (o *Orchestrator) run(ctx context.Context, records []model.FileRecord, events chan<- Event) {
	defer close(events)

	runID := uuid.NewString()
	logger := slog.With("run_id", runID)
	logger.Info("starting classification run", "files", len(records))

	total := len(records)
	aggregate := make(map[string]model.ClassificationResult, total)
	if total == 0 {
		events <- Event{Kind: EventStatus, Status: "No files to classify"}
		events <- Event{Kind: EventProgress, Progress: 100}
		events <- Event{Kind: EventDone, Results: aggregate}
		return
	}

	events <- Event{Kind: EventStatus, Status: "Collecting existing categories..."}

	// The category snapshot is taken once, before the first batch.
	// Categories created by earlier batches in this run are not
	// visible to later ones.
	categories := o.existingCategories(ctx, logger)
	if len(categories) > 0 {
		events <- Event{Kind: EventStatus, Status: fmt.Sprintf("Found %d existing categories", len(categories))}
	} else {
		events <- Event{Kind: EventStatus, Status: "No existing categories found"}
	}

	for start := 0; start < total; start += o.batchSize {
		select {
		case <-ctx.Done():
			events <- Event{Kind: EventError, Err: ctx.Err()}
			return
		default:
		}

		end := start + o.batchSize
		if end > total {
			end = total
		}
		batch := records[start:end]

		events <- Event{
			Kind:   EventStatus,
			Status: fmt.Sprintf("Processing files %d-%d of %d...", start+1, end, total),
		}

		results, err := o.classifier.Classify(ctx, batch, categories)
		if err != nil {
			logger.Error("classifier call failed", "batch_start", start, "error", err)
			events <- Event{Kind: EventError, Err: err}
			return
		}

		for _, record := range batch {
			result, ok := results[record.Path]
			if !ok {
				result = model.Unclassified()
			}
			if handleErr := o.handleResult(ctx, record, result); handleErr != nil {
				// One file's failure never aborts the run.
				logger.Error("per-file processing failed",
					"file", record.Path,
					"error", handleErr)
				result = model.ClassificationResult{
					Folder:     model.FolderUnclassified,
					Reason:     fmt.Sprintf("processing error: %v", handleErr),
					Confidence: 0.0,
				}
			}
			aggregate[record.Path] = result
		}

		events <- Event{Kind: EventProgress, Progress: end * 100 / total}
	}

	logger.Info("classification run complete", "files", len(aggregate))
	events <- Event{Kind: EventStatus, Status: "Classification complete"}
	events <- Event{Kind: EventDone, Results: aggregate}
}

// handleResult persists and relocates one classified file. The stored
// path is the file's final location so the category store stays
// accurate after the move; relocation failures leave the source path
// on record instead.
func (o *Orchestrator) handleResult(ctx context.Context, record model.FileRecord, result model.ClassificationResult) error {
	targetDir := filepath.Join(o.targetDir, result.Folder)

	var finalPath string
	var moved bool
	if o.copyFiles {
		finalPath, moved = o.mover.PlaceCopy(record.Path, targetDir, "")
	} else {
		finalPath, moved = o.mover.Place(record.Path, targetDir, "")
	}
	if !moved {
		slog.Warn("file relocation failed, keeping source path",
			"file", record.Path,
			"target_dir", targetDir)
		finalPath = record.Path
	}

	if err := o.store.AssignFileCategory(ctx, finalPath, result.Folder, result.Confidence); err != nil {
		return err
	}
	return nil
}

// existingCategories merges the stored category names with the target
// directory's subdirectories. Either source failing narrows the
// snapshot but does not abort the run.
func (o *Orchestrator) existingCategories(ctx context.Context, logger *slog.Logger) []string {
	seen := make(map[string]struct{})

	names, err := o.store.ListCategories(ctx)
	if err != nil {
		logger.Warn("failed to load stored categories", "error", err)
	}
	for _, cat := range names {
		seen[cat.Name] = struct{}{}
	}

	entries, err := os.ReadDir(o.targetDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to scan target directory", "error", err)
		}
	} else {
		for _, entry := range entries {
			if entry.IsDir() {
				seen[entry.Name()] = struct{}{}
			}
		}
	}

	categories := make([]string, 0, len(seen))
	for name := range seen {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	return categories
}
