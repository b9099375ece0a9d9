// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awindex/awindex/pkg/types"
)

// JSONLAdapter re-hydrates previously-serialized records from a file of
// newline-delimited JSON, one record per line.
type JSONLAdapter struct{}

// Name returns the adapter identifier.
func (a *JSONLAdapter) Name() string { return "jsonl" }

// Harvest reads src.Path and yields one record per non-blank line. Each
// record's source and source_url are overwritten with the descriptor's
// values: stored provenance is always superseded by the current
// configuration, so a file can be re-indexed under a different display
// name. A line that does not parse aborts the source: a corrupt
// persisted record is a data-integrity problem, not a per-item skip.
func (a *JSONLAdapter) Harvest(ctx context.Context, src types.Source, sum *Summary, w io.Writer) error {
	f, err := os.Open(src.Path)
	if err != nil {
		return fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec types.IndexRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return fmt.Errorf("parsing %s line %d: %w", src.Path, line, err)
		}

		rec.Source = src.Name
		rec.SourceURL = src.Homepage
		sum.Add(&rec)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", src.Path, err)
	}

	fmt.Fprintf(w, "%s: %d records re-hydrated\n", src.Name, sum.NumRecords)
	return nil
}
