package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/awindex/awindex/internal/export"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Full-text search over the exported SQLite database",
	Long: `Search runs an FTS5 full-text query against the awindex.db written by a
previous index run and prints the matching record titles.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("output", "", "output directory holding awindex.db (default: output)")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to print")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	out := pipelineConfig().Export.OutputDir
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		out = v
	}
	limit, _ := cmd.Flags().GetInt("max-results")

	store, err := export.NewStore(filepath.Join(out, "awindex.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	titles, err := store.SearchTitles(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	if len(titles) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, t := range titles {
		fmt.Printf("%-4d %s\n", i+1, t)
	}
	return nil
}
