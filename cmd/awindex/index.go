// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/awindex/awindex/internal/export"
	"github.com/awindex/awindex/internal/fetch"
	"github.com/awindex/awindex/internal/pagefind"
	"github.com/awindex/awindex/internal/pipeline"
	"github.com/awindex/awindex/internal/sources"
	"github.com/awindex/awindex/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Harvest all configured sources and write every export",
	Long: `Index harvests each source listed in the sources file, normalizes the
results into one record set, and writes the exports into the output
directory: pagefind.jsonl (search-index records), records.jsonl (canonical
records, re-ingestable), awindex.db (SQLite with full-text search),
records.csv, index.html, and summary.yaml.

Sources are harvested one at a time. A failed source is reported and
skipped; with --strict the first failure aborts the run.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("sources", "", "sources file (default: sources.yaml)")
	indexCmd.Flags().String("output", "", "output directory (default: output)")
	indexCmd.Flags().Bool("strict", false, "abort the run on the first failed source")
	indexCmd.Flags().Bool("no-cache", false, "bypass the fetch cache")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if v, _ := cmd.Flags().GetString("sources"); v != "" {
		cfg.SourcesFile = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Export.OutputDir = v
	}
	if v, _ := cmd.Flags().GetBool("strict"); v {
		cfg.Strict = true
	}
	if v, _ := cmd.Flags().GetBool("no-cache"); v {
		cfg.Fetch.CachePath = ""
	}

	srcs, err := sources.Load(cfg.SourcesFile)
	if err != nil {
		return err
	}
	for i := range srcs {
		if srcs[i].Type == types.SourceZotero {
			srcs[i].APIKey = secretDefault("zotero-api-key", srcs[i].APIKey)
		}
	}

	fetcher, closeFetcher, err := buildFetcher(cfg.Fetch)
	if err != nil {
		return err
	}
	defer closeFetcher()

	ctx := context.Background()
	results, err := pipeline.Run(ctx, cfg, srcs, fetcher, os.Stdout)
	if err != nil {
		return err
	}

	records := pipeline.Records(results)
	if err := writeExports(ctx, cfg, results, records); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	fmt.Printf("\n%d records from %d sources (%d failed)\n", len(records), len(results), failed)
	if failed == len(results) && len(results) > 0 {
		return fmt.Errorf("all %d sources failed", failed)
	}
	return nil
}

// buildFetcher assembles the HTTP fetcher, wrapped in the SQLite cache
// unless caching is disabled.
func buildFetcher(cfg types.FetchConfig) (fetch.Fetcher, func(), error) {
	base := &fetch.HTTPFetcher{
		Client:     &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.CachePath == "" {
		return base, func() {}, nil
	}
	cache, err := fetch.NewCache(base, cfg.CachePath, cfg.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	return cache, func() { cache.Close() }, nil
}

// writeExports writes every export artifact into the output directory.
func writeExports(ctx context.Context, cfg types.PipelineConfig, results []pipeline.SourceResult, records []*types.IndexRecord) error {
	out := cfg.Export.OutputDir

	if err := export.WriteFile(filepath.Join(out, "pagefind.jsonl"), func(w io.Writer) error {
		return pagefind.WriteRecords(w, records)
	}); err != nil {
		return err
	}

	if err := export.WriteFile(filepath.Join(out, "records.jsonl"), func(w io.Writer) error {
		return export.WriteJSONL(w, records)
	}); err != nil {
		return err
	}

	if err := export.WriteFile(filepath.Join(out, "records.csv"), func(w io.Writer) error {
		return export.WriteCSV(w, records)
	}); err != nil {
		return err
	}

	if err := export.WriteFile(filepath.Join(out, "index.html"), func(w io.Writer) error {
		return export.WriteHTML(w, cfg.Export.SiteTitle, records)
	}); err != nil {
		return err
	}

	if err := export.WriteSummary(filepath.Join(out, "summary.yaml"), results); err != nil {
		return err
	}

	store, err := export.NewStore(filepath.Join(out, "awindex.db"))
	if err != nil {
		return err
	}
	defer store.Close()
	for _, r := range results {
		if r.Summary == nil {
			continue
		}
		if err := store.StoreSource(ctx, r.Source, r.Summary); err != nil {
			return err
		}
	}
	return nil
}
