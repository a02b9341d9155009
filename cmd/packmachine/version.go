package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the packmachine version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("packmachine %s\n", version)
		},
	}
}
