// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchRecord is the search-index representation derived from one
// IndexRecord. It matches the custom-record shape the pagefind index
// builder accepts: assembled free-text content plus display metadata,
// faceted filters, and sortable keys. A SearchRecord is never persisted
// as a source of truth; it is always regenerable from its IndexRecord.
type SearchRecord struct {
	// URL is the record's link target.
	URL string `json:"url"`

	// Content is the assembled free text the index builder tokenizes.
	Content string `json:"content"`

	// Language is the record's language code.
	Language string `json:"language"`

	// Meta maps display keys to single string values (title, creators...).
	Meta map[string]string `json:"meta,omitempty"`

	// Filters maps facet names to ordered value lists (categories, year...).
	Filters map[string][]string `json:"filters,omitempty"`

	// Sort maps sort keys to sortable strings (ISO dates, titles).
	Sort map[string]string `json:"sort,omitempty"`
}
