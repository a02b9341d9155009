package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/qi-principal/Package-machine/internal/cli"
	"github.com/qi-principal/Package-machine/internal/common"
	"github.com/qi-principal/Package-machine/internal/config"
	"github.com/qi-principal/Package-machine/internal/storage"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List known categories",
		RunE:  runCategoriesList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "files <category>",
		Short: "List the files assigned to a category",
		Args:  cobra.ExactArgs(1),
		RunE:  runCategoryFiles,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "for <file-path>",
		Short: "List the categories a file belongs to",
		Args:  cobra.ExactArgs(1),
		RunE:  runCategoriesForFile,
	})

	return cmd
}

// openStore opens and migrates the category database for read commands.
func openStore(ctx context.Context) (*storage.SQLiteStorage, error) {
	cfg := config.FromViper()
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open category database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate category database: %w", err)
	}
	return store, nil
}

func runCategoriesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categories, err := store.ListCategories(ctx)
	if err != nil {
		// Read queries degrade to empty output rather than failing the UI.
		common.LogError(err, "failed to list categories", nil)
		fmt.Println(cli.WarningStyle.Render("No categories available."))
		return nil
	}
	if len(categories) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No categories recorded yet."))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Created", "Updated"})
	for _, cat := range categories {
		table.Append([]string{
			cat.Name,
			cat.CreatedAt.Format("2006-01-02 15:04"),
			cat.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
	return nil
}

func runCategoryFiles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	paths, err := store.ListFilesForCategory(ctx, args[0])
	if err != nil {
		common.LogError(err, "failed to list files for category", common.Fields{"category": args[0]})
		fmt.Println(cli.WarningStyle.Render("No files available."))
		return nil
	}
	if len(paths) == 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("No files assigned to %q.", args[0])))
		return nil
	}

	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}

func runCategoriesForFile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	assignments, err := store.ListCategoriesForFile(ctx, args[0])
	if err != nil {
		common.LogError(err, "failed to list categories for file", common.Fields{"file": args[0]})
		fmt.Println(cli.WarningStyle.Render("No categories available."))
		return nil
	}
	if len(assignments) == 0 {
		fmt.Println(cli.SubtleStyle.Render("File has no recorded categories."))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Category", "Confidence"})
	for _, assignment := range assignments {
		table.Append([]string{
			assignment.Category,
			strconv.FormatFloat(assignment.Confidence, 'f', 2, 64),
		})
	}
	table.Render()
	return nil
}
