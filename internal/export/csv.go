// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/awindex/awindex/pkg/types"
)

// csvHeader lists the exported columns, one row per record.
var csvHeader = []string{
	"title", "url", "creators", "type", "categories", "keywords",
	"license", "date", "language", "source", "source_url",
}

// WriteCSV writes the columnar export. Multi-valued fields are joined
// with "; " so each record stays on one row.
func WriteCSV(w io.Writer, records []*types.IndexRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, rec := range records {
		date := ""
		if rec.Date != nil {
			date = rec.Date.UTC().Format(time.RFC3339)
		}
		row := []string{
			rec.Title,
			rec.URL,
			strings.Join(rec.Creators, "; "),
			rec.Type,
			strings.Join(rec.Categories, "; "),
			strings.Join(rec.Keywords, "; "),
			rec.License,
			date,
			rec.Language,
			rec.Source,
			rec.SourceURL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", rec.URL, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
