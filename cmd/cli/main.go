package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "sheetgen",
		Short:         "Normalize, inspect and generate spreadsheet snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newNormalizeCmd(),
		newSummaryCmd(),
		newCellsCmd(),
		newTableCmd(),
		newStatsCmd(),
		newExportCmd(),
		newGenerateCmd(),
		newViewCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
