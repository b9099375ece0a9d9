// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagefind

import (
	"bufio"
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/awindex/awindex/pkg/types"
)

func fullRecord() *types.IndexRecord {
	date := time.Date(2020, 5, 14, 0, 0, 0, 0, time.UTC)
	return &types.IndexRecord{
		Title:         "A Fine Tool",
		URL:           "http://example.com/tool",
		Creators:      []string{"Jane Doe", "John Smith"},
		Abstract:      "Preserves things.",
		FullText:      "Full text of the page.",
		Type:          "Software",
		Categories:    []string{"Tools > Storage"},
		Keywords:      []string{"preservation", "storage"},
		Date:          &date,
		DatePrecision: types.PrecisionDay,
		Metadata:      map[string]string{"publisher": "Acme"},
		Language:      "en",
		Source:        "Awesome List",
		SourceURL:     "https://example.org/awesome",
	}
}

func TestProject(t *testing.T) {
	sr := Project(fullRecord())

	if sr.URL != "http://example.com/tool" {
		t.Errorf("URL = %q", sr.URL)
	}
	wantContent := "A Fine Tool Preserves things. Full text of the page. " +
		"Jane Doe, John Smith preservation, storage Acme"
	if sr.Content != wantContent {
		t.Errorf("Content = %q, want %q", sr.Content, wantContent)
	}

	if sr.Meta["title"] != "A Fine Tool" || sr.Sort["title"] != "A Fine Tool" {
		t.Errorf("title meta/sort = %q/%q", sr.Meta["title"], sr.Sort["title"])
	}
	if sr.Meta["creators"] != "Jane Doe, John Smith" {
		t.Errorf("meta.creators = %q", sr.Meta["creators"])
	}
	if !reflect.DeepEqual(sr.Filters["creators"], []string{"Jane Doe", "John Smith"}) {
		t.Errorf("filters.creators = %v", sr.Filters["creators"])
	}
	if !reflect.DeepEqual(sr.Filters["keywords"], []string{"preservation", "storage"}) {
		t.Errorf("filters.keywords = %v", sr.Filters["keywords"])
	}
	if !reflect.DeepEqual(sr.Filters["categories"], []string{"Tools > Storage"}) {
		t.Errorf("filters.categories = %v", sr.Filters["categories"])
	}
	if sr.Meta["categories"] != "Tools > Storage" {
		t.Errorf("meta.categories = %q", sr.Meta["categories"])
	}
	if !reflect.DeepEqual(sr.Filters["type"], []string{"Software"}) {
		t.Errorf("filters.type = %v", sr.Filters["type"])
	}
	if !reflect.DeepEqual(sr.Filters["source"], []string{"Awesome List"}) {
		t.Errorf("filters.source = %v", sr.Filters["source"])
	}
	if !reflect.DeepEqual(sr.Filters["year"], []string{"2020"}) {
		t.Errorf("filters.year = %v", sr.Filters["year"])
	}
	if sr.Meta["date"] != "2020-05-14T00:00:00Z" || sr.Sort["date"] != "2020-05-14T00:00:00Z" {
		t.Errorf("date meta/sort = %q/%q", sr.Meta["date"], sr.Sort["date"])
	}
	if sr.Language != "en" {
		t.Errorf("Language = %q", sr.Language)
	}
}

func TestProjectMinimalRecord(t *testing.T) {
	sr := Project(&types.IndexRecord{
		Title:     "Bare",
		URL:       "http://x",
		Source:    "S",
		SourceURL: "http://s",
	})

	if sr.Content != "Bare" {
		t.Errorf("Content = %q, want the title alone", sr.Content)
	}
	if _, ok := sr.Filters["creators"]; ok {
		t.Error("filters.creators set for a record with no creators")
	}
	if _, ok := sr.Meta["date"]; ok {
		t.Error("meta.date set for a record with no date")
	}
	// The default language applies when the record carries none.
	if sr.Language != "en" {
		t.Errorf("Language = %q, want en", sr.Language)
	}
}

func TestProjectLanguageOverride(t *testing.T) {
	rec := fullRecord()
	rec.Language = "de"
	if got := Project(rec).Language; got != "de" {
		t.Errorf("Language = %q, want de", got)
	}
}

func TestProjectIdempotent(t *testing.T) {
	rec := fullRecord()
	first := Project(rec)
	second := Project(rec)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("projections differ:\n%+v\n%+v", first, second)
	}
}

func TestProjectMetadataArrayExpansion(t *testing.T) {
	rec := fullRecord()
	rec.Metadata = map[string]string{"tags": `["a", "b"]`}

	sr := Project(rec)
	if sr.Meta["tags"] != "a, b" {
		t.Errorf("meta.tags = %q, want %q", sr.Meta["tags"], "a, b")
	}
	if !strings.Contains(sr.Content, "a, b") {
		t.Errorf("Content = %q, want the expanded summary appended", sr.Content)
	}
}

func TestExpandArrayValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain value", "Acme", "Acme"},
		{"array value", `["a", "b"]`, "a, b"},
		{"single element", `["only"]`, "only"},
		{"looks like an array but is not", `["broken`, `["broken`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandArrayValue(tt.in); got != tt.want {
				t.Errorf("expandArrayValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProjectMetadataDeterministicOrder(t *testing.T) {
	rec := fullRecord()
	rec.Metadata = map[string]string{"z": "last", "a": "first", "m": "middle"}

	sr := Project(rec)
	if !strings.HasSuffix(sr.Content, "first middle last") {
		t.Errorf("Content = %q, want metadata values in key order", sr.Content)
	}
}

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	records := []*types.IndexRecord{
		fullRecord(),
		{Title: "Second", URL: "http://x/2", Source: "S", SourceURL: "http://s", Language: "en"},
	}
	if err := WriteRecords(&buf, records); err != nil {
		t.Fatal(err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		lines++
		var sr types.SearchRecord
		if err := json.Unmarshal(scanner.Bytes(), &sr); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		if sr.URL == "" || sr.Content == "" {
			t.Errorf("line %d missing url or content: %+v", lines, sr)
		}
	}
	if lines != 2 {
		t.Errorf("got %d lines, want 2", lines)
	}
}
