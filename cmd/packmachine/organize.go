package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qi-principal/Package-machine/internal/classify"
	"github.com/qi-principal/Package-machine/internal/cli"
	"github.com/qi-principal/Package-machine/internal/common"
	"github.com/qi-principal/Package-machine/internal/config"
	"github.com/qi-principal/Package-machine/internal/engine"
	"github.com/qi-principal/Package-machine/internal/inventory"
	"github.com/qi-principal/Package-machine/internal/model"
	"github.com/qi-principal/Package-machine/internal/preview"
	"github.com/qi-principal/Package-machine/internal/relocate"
	"github.com/qi-principal/Package-machine/internal/service"
	"github.com/qi-principal/Package-machine/internal/storage"
)

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize <source-dir>",
		Short: "Classify the files in a directory and move them into category folders",
		Args:  cobra.ExactArgs(1),
		RunE:  runOrganize,
	}

	cmd.Flags().String("target", "", "target base directory for category folders")
	cmd.Flags().Int("batch-size", 0, "files per classification request")
	cmd.Flags().Int("retry-attempts", 1, "classifier attempts per batch (1 = no retry)")
	cmd.Flags().Bool("copy", false, "copy files instead of moving them")
	cmd.Flags().Bool("clean-empty", false, "remove empty directories left in the source tree")

	_ = viper.BindPFlag("organize.target_dir", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("organize.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sourceDir := config.ExpandPath(args[0])

	cfg := config.FromViper()
	if err := cfg.Validate(); err != nil {
		return common.NewUserError("organize requires an API key and a target directory", err)
	}

	copyFiles, _ := cmd.Flags().GetBool("copy")
	cleanEmpty, _ := cmd.Flags().GetBool("clean-empty")
	retryAttempts, _ := cmd.Flags().GetInt("retry-attempts")

	// Inventory and enrichment happen up front; the orchestrator only
	// sees the filtered, preview-enriched records.
	records, err := inventory.Collect(sourceDir)
	if err != nil {
		return err
	}
	records = inventory.NewFilter(cfg.AllowedExtensions).Apply(records)
	records = preview.Enrich(records)

	if len(records) == 0 {
		fmt.Println(cli.WarningStyle.Render("No matching files found; nothing to do."))
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Organizing %d files from %s", len(records), sourceDir)))

	classifier, err := newClassifier(cfg, retryAttempts)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open category database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate category database: %w", err)
	}

	orchestrator := engine.New(classifier, store, relocate.NewMover(), engine.Config{
		TargetDir: cfg.TargetDir,
		BatchSize: cfg.BatchSize,
		CopyFiles: copyFiles,
	})

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying files..."),
	)

	var results map[string]model.ClassificationResult
	for event := range orchestrator.Run(ctx, records) {
		switch event.Kind {
		case engine.EventStatus:
			fmt.Println(cli.SubtleStyle.Render(event.Status))
		case engine.EventProgress:
			_ = bar.Set(event.Progress)
		case engine.EventDone:
			results = event.Results
		case engine.EventError:
			fmt.Println()
			return common.NewUserError("classification run aborted", event.Err)
		}
	}
	fmt.Println()

	if cleanEmpty {
		removed := relocate.RemoveEmptyDirs(sourceDir)
		if removed > 0 {
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Removed %d empty directories", removed)))
		}
	}

	printSummary(results)
	return nil
}

// newClassifier builds the remote client, wrapped with caller-side
// retry when the user asked for more than one attempt.
func newClassifier(cfg config.Config, retryAttempts int) (service.Classifier, error) {
	client, err := classify.NewClient(classify.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}
	if retryAttempts > 1 {
		return classify.WithRetry(client, common.RetryOptions{MaxAttempts: retryAttempts}), nil
	}
	return client, nil
}

func printSummary(results map[string]model.ClassificationResult) {
	if len(results) == 0 {
		return
	}

	counts := make(map[string]int)
	for _, result := range results {
		counts[result.Folder]++
	}

	folders := make([]string, 0, len(counts))
	for folder := range counts {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Classified %d files into %d folders:", len(results), len(folders))))
	for _, folder := range folders {
		fmt.Printf("  %s: %d\n", folder, counts[folder])
	}
}
