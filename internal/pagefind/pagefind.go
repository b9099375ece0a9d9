// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagefind derives search-index records from normalized records
// and writes them in the newline-delimited form the external pagefind
// index builder ingests as custom records.
package pagefind

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/awindex/awindex/pkg/types"
)

// Project derives the search record for rec. It is a pure function: the
// same record always projects to the same result, and rec is not
// modified. Free text is assembled by space-joining the title, abstract,
// full text, creator and keyword summaries, and metadata values; facet
// filters and sortable keys are filled from the structured fields.
func Project(rec *types.IndexRecord) types.SearchRecord {
	sr := types.SearchRecord{
		URL:      rec.URL,
		Language: "en",
		Meta:     map[string]string{},
		Filters:  map[string][]string{},
		Sort:     map[string]string{},
	}

	content := []string{rec.Title}
	sr.Meta["title"] = rec.Title
	sr.Sort["title"] = rec.Title

	if rec.Abstract != "" {
		content = append(content, rec.Abstract)
	}
	if rec.FullText != "" {
		content = append(content, rec.FullText)
	}

	if len(rec.Creators) > 0 {
		summary := strings.Join(rec.Creators, ", ")
		content = append(content, summary)
		sr.Meta["creators"] = summary
		sr.Filters["creators"] = append([]string(nil), rec.Creators...)
	}

	if len(rec.Keywords) > 0 {
		summary := strings.Join(rec.Keywords, ", ")
		content = append(content, summary)
		sr.Meta["keywords"] = summary
		sr.Filters["keywords"] = append([]string(nil), rec.Keywords...)
	}

	if len(rec.Categories) > 0 {
		sr.Filters["categories"] = append([]string(nil), rec.Categories...)
		sr.Meta["categories"] = strings.Join(rec.Categories, ", ")
	}

	if rec.Type != "" {
		sr.Filters["type"] = []string{rec.Type}
		sr.Meta["type"] = rec.Type
	}

	if rec.Language != "" {
		sr.Language = rec.Language
	}

	if rec.Source != "" {
		sr.Filters["source"] = []string{rec.Source}
		sr.Meta["source"] = rec.Source
	}

	if rec.Date != nil {
		iso := rec.Date.UTC().Format(time.RFC3339)
		sr.Filters["year"] = []string{rec.Date.Format("2006")}
		sr.Meta["date"] = iso
		sr.Sort["date"] = iso
	}

	if len(rec.Metadata) > 0 {
		// Map iteration order is randomized; sort the keys so repeated
		// runs produce identical output.
		keys := make([]string, 0, len(rec.Metadata))
		for k := range rec.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			value := expandArrayValue(rec.Metadata[k])
			content = append(content, value)
			sr.Meta[k] = value
		}
	}

	sr.Content = strings.Join(content, " ")
	return sr
}

// expandArrayValue rewrites a JSON-array-encoded metadata value (the
// `["..."]` sub-convention) as a comma-joined summary. Anything else,
// including a value that merely looks like an array but does not parse,
// is returned unchanged.
func expandArrayValue(value string) string {
	if !strings.HasPrefix(value, `["`) {
		return value
	}
	var items []string
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return value
	}
	return strings.Join(items, ", ")
}

// WriteRecords projects every record and writes the results to w as
// newline-delimited JSON, the form the index builder consumes.
func WriteRecords(w io.Writer, records []*types.IndexRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(Project(rec)); err != nil {
			return fmt.Errorf("encoding search record for %s: %w", rec.URL, err)
		}
	}
	return nil
}
