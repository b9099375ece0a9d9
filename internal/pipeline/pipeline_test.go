// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awindex/awindex/pkg/types"
)

func jsonlSource(t *testing.T, name string, lines ...string) types.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	return types.Source{
		Type:     types.SourceJSONL,
		Name:     name,
		Homepage: "https://example.org/" + name,
		Path:     path,
	}
}

func brokenSource(t *testing.T, name string) types.Source {
	t.Helper()
	return types.Source{
		Type:     types.SourceJSONL,
		Name:     name,
		Homepage: "https://example.org/" + name,
		Path:     filepath.Join(t.TempDir(), "missing.jsonl"),
	}
}

const recordLine = `{"title":"T","url":"http://x","source":"old","source_url":"http://old"}`

func TestRunCollectsInSourceOrder(t *testing.T) {
	srcs := []types.Source{
		jsonlSource(t, "first", recordLine),
		jsonlSource(t, "second", recordLine, recordLine),
	}

	var out bytes.Buffer
	results, err := Run(context.Background(), types.PipelineConfig{}, srcs, nil, &out)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	records := Records(results)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Source != "first" || records[1].Source != "second" {
		t.Errorf("records out of source order: %q, %q", records[0].Source, records[1].Source)
	}
}

func TestRunSkipsUnknownSourceType(t *testing.T) {
	srcs := []types.Source{
		{Type: "gopher", Name: "mystery", Homepage: "https://example.org/mystery"},
		jsonlSource(t, "good", recordLine),
	}

	var out bytes.Buffer
	results, err := Run(context.Background(), types.PipelineConfig{}, srcs, nil, &out)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Err == nil {
		t.Error("unknown source type did not produce a per-source error")
	}
	if !strings.Contains(out.String(), "mystery") {
		t.Error("skip warning does not name the source")
	}
	if len(Records(results)) != 1 {
		t.Errorf("got %d records, want 1 from the remaining source", len(Records(results)))
	}
}

func TestRunLenientSkipsFailedSource(t *testing.T) {
	srcs := []types.Source{
		brokenSource(t, "broken"),
		jsonlSource(t, "good", recordLine),
	}

	var out bytes.Buffer
	results, err := Run(context.Background(), types.PipelineConfig{}, srcs, nil, &out)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err == nil {
		t.Error("failed source's error not recorded")
	}
	if len(Records(results)) != 1 {
		t.Errorf("got %d records, want 1", len(Records(results)))
	}
}

func TestRunStrictAbortsOnFailedSource(t *testing.T) {
	srcs := []types.Source{
		brokenSource(t, "broken"),
		jsonlSource(t, "good", recordLine),
	}

	cfg := types.PipelineConfig{Strict: true}
	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, srcs, nil, &out)
	if err == nil {
		t.Fatal("expected strict mode to abort on the failed source")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("err = %v, want it to name the source", err)
	}
}
