// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the collected record set out in its delivery
// forms: line-delimited canonical records, a run summary, a relational
// SQLite database with full-text search, a columnar CSV table, and a
// static HTML page.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/awindex/awindex/internal/pipeline"
	"github.com/awindex/awindex/pkg/types"
)

// WriteJSONL writes one canonical record per line. The output is
// re-ingestable through a jsonl source.
func WriteJSONL(w io.Writer, records []*types.IndexRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.URL, err)
		}
	}
	return nil
}

// SourceSummary is the per-source section of the run summary artifact.
type SourceSummary struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	NumRecords int      `yaml:"num_records"`
	NumIgnored int      `yaml:"num_ignored"`
	NumErrors  int      `yaml:"num_errors"`
	Warnings   []string `yaml:"warnings,omitempty"`
	Error      string   `yaml:"error,omitempty"`
}

// WriteSummary writes the per-source harvest statistics as YAML.
func WriteSummary(path string, results []pipeline.SourceResult) error {
	summaries := make([]SourceSummary, 0, len(results))
	for _, r := range results {
		s := SourceSummary{
			Name: r.Source.Name,
			Type: string(r.Source.Type),
		}
		if r.Summary != nil {
			s.NumRecords = r.Summary.NumRecords
			s.NumIgnored = r.Summary.NumIgnored
			s.NumErrors = r.Summary.NumErrors
			s.Warnings = r.Summary.Warnings
		}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		summaries = append(summaries, s)
	}

	data, err := yaml.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteFile creates path's directory if needed and streams fn's output
// into it.
func WriteFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
