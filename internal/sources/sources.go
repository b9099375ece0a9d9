// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources harvests normalized IndexRecords from configured
// metadata sources. Each source format (awesome-list markdown, Zotero
// library, Zenodo community, pre-serialized JSONL) has one Adapter; a
// dispatch table selects the adapter by the source's type tag.
package sources

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/awindex/awindex/internal/fetch"
	"github.com/awindex/awindex/pkg/types"
)

// Adapter harvests one source format into IndexRecords. Harvest appends
// yielded records and warnings to sum and writes progress to w. It returns
// an error only for failures fatal to the whole source (a failed fetch,
// corrupt persisted data); malformed items are counted and skipped.
type Adapter interface {
	Name() string
	Harvest(ctx context.Context, src types.Source, sum *Summary, w io.Writer) error
}

// Summary aggregates the outcome of harvesting one source.
type Summary struct {
	// Records holds the yielded records, in source order.
	Records []*types.IndexRecord

	// NumRecords counts yielded records.
	NumRecords int

	// NumIgnored counts structurally irrelevant items (attachments,
	// sub-lists, linkless bullets) that were passed over.
	NumIgnored int

	// NumErrors counts relevant but malformed items (missing URL) that
	// were skipped with a warning.
	NumErrors int

	// Warnings collects the warning messages emitted while harvesting.
	Warnings []string
}

// Add appends a record and counts it. Records failing the required-field
// invariant are counted as errors instead of being yielded.
func (s *Summary) Add(rec *types.IndexRecord) {
	if !rec.Valid() {
		s.NumErrors++
		return
	}
	if rec.Language == "" {
		rec.Language = "en"
	}
	s.Records = append(s.Records, rec)
	s.NumRecords++
}

// Warn records a warning message and writes it to w.
func (s *Summary) Warn(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.Warnings = append(s.Warnings, msg)
	fmt.Fprintf(w, "warning: %s\n", msg)
}

// Total returns the number of items considered.
func (s *Summary) Total() int {
	return s.NumRecords + s.NumIgnored + s.NumErrors
}

// ForSource returns the adapter for src's type tag.
func ForSource(src types.Source, fetcher fetch.Fetcher) (Adapter, error) {
	switch src.Type {
	case types.SourceAwesomeList:
		return &AwesomeListAdapter{Fetcher: fetcher}, nil
	case types.SourceZotero:
		return &ZoteroAdapter{Fetcher: fetcher}, nil
	case types.SourceZenodo:
		return &ZenodoAdapter{Fetcher: fetcher}, nil
	case types.SourceJSONL:
		return &JSONLAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown source type %q for source %q", src.Type, src.Name)
	}
}

// sourcesFile is the on-disk shape of the sources configuration.
type sourcesFile struct {
	Sources []types.Source `yaml:"sources"`
}

// Load reads the source descriptors from a YAML file. Each source must
// carry a type, name, and homepage; a source missing any of these is
// rejected so a misconfiguration surfaces before any fetching starts.
func Load(path string) ([]types.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var sf sourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing sources file %s: %w", path, err)
	}

	for i, src := range sf.Sources {
		if src.Type == "" || src.Name == "" || src.Homepage == "" {
			return nil, fmt.Errorf("source %d in %s: type, name, and homepage are required", i+1, path)
		}
	}
	return sf.Sources, nil
}
