// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one indexing run: it selects the adapter for
// each configured source, harvests sources sequentially, and hands the
// collected records to the export sinks.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/awindex/awindex/internal/fetch"
	"github.com/awindex/awindex/internal/sources"
	"github.com/awindex/awindex/pkg/types"
)

// SourceResult pairs a source with the summary of harvesting it. Err is
// set when the source failed and yielded nothing.
type SourceResult struct {
	Source  types.Source
	Summary *sources.Summary
	Err     error
}

// Run harvests every source in order, one source completing fully before
// the next begins. Each source owns its own summary; no state is shared
// across sources. A source with an unknown type, or whose harvest fails,
// is reported and skipped. In strict mode a harvest failure instead
// aborts the run with an error naming the source.
func Run(ctx context.Context, cfg types.PipelineConfig, srcs []types.Source, fetcher fetch.Fetcher, w io.Writer) ([]SourceResult, error) {
	results := make([]SourceResult, 0, len(srcs))

	for _, src := range srcs {
		adapter, err := sources.ForSource(src, fetcher)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping source %q: %v\n", src.Name, err)
			results = append(results, SourceResult{Source: src, Err: err})
			continue
		}

		fmt.Fprintf(w, "harvesting %s (%s)\n", src.Name, adapter.Name())
		sum := &sources.Summary{}
		if err := adapter.Harvest(ctx, src, sum, w); err != nil {
			if cfg.Strict {
				return results, fmt.Errorf("harvesting source %q: %w", src.Name, err)
			}
			fmt.Fprintf(w, "warning: source %q failed: %v\n", src.Name, err)
			results = append(results, SourceResult{Source: src, Err: err})
			continue
		}

		results = append(results, SourceResult{Source: src, Summary: sum})
	}

	return results, nil
}

// Records flattens the harvested record sets in source order.
func Records(results []SourceResult) []*types.IndexRecord {
	var all []*types.IndexRecord
	for _, r := range results {
		if r.Summary != nil {
			all = append(all, r.Summary.Records...)
		}
	}
	return all
}
