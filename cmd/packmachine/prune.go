package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qi-principal/Package-machine/internal/cli"
)

func pruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove assignments whose files no longer exist on disk",
		Long: `prune walks the recorded file-category assignments and deletes the ones
whose file path is gone from disk. The audit history is never touched.`,
		RunE: runPrune,
	}
}

func runPrune(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	count, err := store.PruneMissingFiles(ctx)
	if err != nil {
		return err
	}

	if count == 0 {
		fmt.Println(cli.SubtleStyle.Render("Nothing to prune."))
		return nil
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Pruned %d stale assignments.", count)))
	return nil
}
