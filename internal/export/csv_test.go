// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}
	if rows[0][0] != "title" || rows[0][1] != "url" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	first := rows[1]
	if first[0] != "A Fine Tool" || first[1] != "http://example.com/tool" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[4] != "Tools > Storage" {
		t.Errorf("categories column = %q", first[4])
	}
	if first[7] != "2020-05-14T00:00:00Z" {
		t.Errorf("date column = %q", first[7])
	}

	// Optional fields stay empty, keeping the columns aligned.
	second := rows[2]
	if second[0] != "Second Entry" || second[7] != "" {
		t.Errorf("unexpected second row: %v", second)
	}
}

func TestWriteCSVMultiValuedFields(t *testing.T) {
	records := sampleRecords()
	records[0].Creators = []string{"Jane Doe", "John Smith"}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if got := rows[1][2]; got != "Jane Doe; John Smith" {
		t.Errorf("creators column = %q, want joined with semicolons", got)
	}
}
