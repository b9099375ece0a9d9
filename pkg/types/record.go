// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the awindex pipeline:
// the normalized IndexRecord produced by every source adapter, the derived
// SearchRecord consumed by the pagefind index builder, source descriptors,
// and stage configuration.
package types

import "time"

// DatePrecision records how much of an IndexRecord date is meaningful.
// Sources report dates at day, month, or year granularity and the
// projection keeps only the meaningful part.
type DatePrecision string

const (
	PrecisionDay   DatePrecision = "day"
	PrecisionMonth DatePrecision = "month"
	PrecisionYear  DatePrecision = "year"
)

// IndexRecord is the normalized representation of one indexed item,
// produced by every source adapter regardless of input format.
type IndexRecord struct {
	// Title is the display title. Never empty on a yielded record.
	Title string `json:"title" yaml:"title"`

	// URL is the link target, absolute or relative. Never empty on a
	// yielded record.
	URL string `json:"url" yaml:"url"`

	// Creators lists author or contributor display names in source order.
	Creators []string `json:"creators,omitempty" yaml:"creators,omitempty"`

	// Abstract is a summary or description of the item.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// FullText is the item's full free text, when the source provides it.
	FullText string `json:"full_text,omitempty" yaml:"full_text,omitempty"`

	// Type is a resource-type label in the source's own vocabulary
	// (e.g. "Dataset", "Presentation").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Categories lists hierarchical section paths locating the item in the
	// source's taxonomy, rendered as "Section > Subsection".
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Keywords lists tags in source order.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// License is the item's license, as text.
	License string `json:"license,omitempty" yaml:"license,omitempty"`

	// Date is the publication date; nil when the source gave none or the
	// value could not be parsed.
	Date *time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// DatePrecision says how much of Date is meaningful.
	DatePrecision DatePrecision `json:"date_precision,omitempty" yaml:"date_precision,omitempty"`

	// Weight is an integer ranking hint. Unused by the default projection.
	Weight int `json:"weight,omitempty" yaml:"weight,omitempty"`

	// Metadata carries source-specific extra fields. A value starting with
	// `["` is, by convention, a JSON-encoded array of strings.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Links maps link-relation names to URLs. Reserved.
	Links map[string]string `json:"links,omitempty" yaml:"links,omitempty"`

	// Language is the item's language code. Defaults to "en".
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Source is the configured display name of the source that produced
	// this record. Always set by the adapter, never by the content.
	Source string `json:"source" yaml:"source"`

	// SourceURL is the homepage of the source that produced this record.
	SourceURL string `json:"source_url" yaml:"source_url"`
}

// Valid reports whether the record satisfies the required-field invariant
// every adapter must uphold before yielding.
func (r *IndexRecord) Valid() bool {
	return r.Title != "" && r.URL != "" && r.Source != "" && r.SourceURL != ""
}

// Year returns the record's publication year as a string, or "" when no
// date is set.
func (r *IndexRecord) Year() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format("2006")
}
