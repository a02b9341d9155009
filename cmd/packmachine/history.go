package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/qi-principal/Package-machine/internal/cli"
	"github.com/qi-principal/Package-machine/internal/common"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the category assignment audit trail",
		RunE:  runHistory,
	}

	cmd.Flags().String("file", "", "only show history for this file path")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	filePath, _ := cmd.Flags().GetString("file")

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.ListHistory(ctx, filePath)
	if err != nil {
		common.LogError(err, "failed to list history", nil)
		fmt.Println(cli.WarningStyle.Render("No history available."))
		return nil
	}
	if len(entries) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No history recorded yet."))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Action", "Category", "File"})
	for _, entry := range entries {
		table.Append([]string{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			string(entry.Action),
			entry.Category,
			entry.FilePath,
		})
	}
	table.Render()
	return nil
}
