// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceType tags a Source with the adapter that harvests it.
type SourceType string

const (
	SourceAwesomeList SourceType = "awesome-list"
	SourceZotero      SourceType = "zotero"
	SourceZenodo      SourceType = "zenodo"
	SourceJSONL       SourceType = "jsonl"
)

// Source describes one configured metadata source. It is a tagged union:
// Type selects the adapter, and each adapter reads only the fields its
// variant defines. Sources are immutable once loaded; adapters treat them
// as read-only.
type Source struct {
	// Type selects the adapter: awesome-list, zotero, zenodo, or jsonl.
	Type SourceType `json:"type" yaml:"type"`

	// Name is the display name recorded as every record's provenance.
	Name string `json:"name" yaml:"name"`

	// Homepage is the human-facing URL recorded as every record's
	// provenance source_url.
	Homepage string `json:"homepage" yaml:"homepage"`

	// Description is a short human-facing summary of the source.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// URL is the location of the markdown document (awesome-list).
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// LibraryID identifies the Zotero library (zotero).
	LibraryID string `json:"library_id,omitempty" yaml:"library_id,omitempty"`

	// LibraryType is "group" or "user" (zotero).
	LibraryType string `json:"library_type,omitempty" yaml:"library_type,omitempty"`

	// APIKey authenticates Zotero reads; empty for public libraries (zotero).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Collection restricts harvesting to one collection subtree (zotero).
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`

	// Community is the community identifier to page through (zenodo).
	Community string `json:"community,omitempty" yaml:"community,omitempty"`

	// Path is the file of newline-delimited records to re-hydrate (jsonl).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}
