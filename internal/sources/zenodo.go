// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/awindex/awindex/internal/fetch"
	"github.com/awindex/awindex/pkg/types"
)

// zenodoBase is the Zenodo API root. Declared as a var so tests can
// substitute it.
var zenodoBase = "https://zenodo.org/api"

// ZenodoAdapter harvests the records of a Zenodo community by paging
// through the community records API.
type ZenodoAdapter struct {
	Fetcher fetch.Fetcher
}

// Name returns the adapter identifier.
func (a *ZenodoAdapter) Name() string { return "zenodo" }

// Harvest follows the next-link pagination cursor from the community's
// first records page until a page carries no next link, yielding one
// record per hit. An unparseable publication date is logged and leaves the
// record's date unset; the record is still yielded.
func (a *ZenodoAdapter) Harvest(ctx context.Context, src types.Source, sum *Summary, w io.Writer) error {
	nextURL := fmt.Sprintf("%s/communities/%s/records", zenodoBase, src.Community)

	for nextURL != "" {
		body, err := a.Fetcher.Fetch(ctx, nextURL)
		if err != nil {
			return err
		}

		var page zenodoPage
		if err := json.Unmarshal([]byte(body), &page); err != nil {
			return fmt.Errorf("parsing Zenodo page %s: %w", nextURL, err)
		}

		for _, hit := range page.Hits.Hits {
			md := hit.Metadata
			rec := &types.IndexRecord{
				Title:     md.Title,
				URL:       hit.DOIURL,
				Abstract:  md.Description,
				Keywords:  md.Keywords,
				Type:      md.ResourceType.Title,
				Source:    src.Name,
				SourceURL: src.Homepage,
			}
			for _, c := range md.Creators {
				rec.Creators = append(rec.Creators, uncommaName(c.Name))
			}

			if md.PublicationDate != "" {
				date, precision, err := parsePublicationDate(md.PublicationDate)
				if err != nil {
					sum.Warn(w, "could not parse publication_date %q from record %q",
						md.PublicationDate, md.Title)
				} else {
					rec.Date = &date
					rec.DatePrecision = precision
				}
			}

			sum.Add(rec)
		}

		nextURL = page.Links.Next
	}

	fmt.Fprintf(w, "%s: %d records\n", src.Name, sum.NumRecords)
	return nil
}

// parsePublicationDate parses a Zenodo publication date with precision
// fallback: a 10-character value is a full date, a 7-character value is a
// year-month, anything else is tried as a bare year.
func parsePublicationDate(pd string) (time.Time, types.DatePrecision, error) {
	switch len(pd) {
	case 10:
		t, err := time.Parse("2006-01-02", pd)
		return t, types.PrecisionDay, err
	case 7:
		t, err := time.Parse("2006-01", pd)
		return t, types.PrecisionMonth, err
	default:
		t, err := time.Parse("2006", pd)
		return t, types.PrecisionYear, err
	}
}

// uncommaName rewrites "Surname, Given Names" as "Given Names Surname".
// A name without a comma is passed through trimmed; a name with several
// commas is split only on the first.
func uncommaName(name string) string {
	surname, given, found := strings.Cut(name, ",")
	if !found {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(given) + " " + strings.TrimSpace(surname)
}

// Zenodo API JSON structures.
type zenodoPage struct {
	Hits  zenodoHits  `json:"hits"`
	Links zenodoLinks `json:"links"`
}

type zenodoHits struct {
	Hits []zenodoHit `json:"hits"`
}

type zenodoLinks struct {
	Next string `json:"next"`
}

type zenodoHit struct {
	DOIURL   string         `json:"doi_url"`
	Metadata zenodoMetadata `json:"metadata"`
}

type zenodoMetadata struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Keywords        []string           `json:"keywords"`
	ResourceType    zenodoResourceType `json:"resource_type"`
	Creators        []zenodoCreator    `json:"creators"`
	PublicationDate string             `json:"publication_date"`
}

type zenodoResourceType struct {
	Title string `json:"title"`
}

type zenodoCreator struct {
	Name string `json:"name"`
}
