package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "awindex/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the cached fetch layer.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// CachePath is the SQLite file memoizing fetched bodies
	// (default ".cache/fetch.db"). Empty disables caching.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// CacheTTL is how long a cached body stays fresh (default 24h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExportConfig holds settings for the export sinks.
type ExportConfig struct {
	// OutputDir is the base directory for all export artifacts
	// (records.jsonl, pagefind.jsonl, awindex.db, records.csv, index.html,
	// summary.yaml).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// SiteTitle is the page title of the static HTML export.
	SiteTitle string `json:"site_title" yaml:"site_title"`
}

// PipelineConfig groups all stage configurations for one indexing run.
type PipelineConfig struct {
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Export ExportConfig `json:"export" yaml:"export"`

	// SourcesFile is the YAML file listing configured sources
	// (default "sources.yaml").
	SourcesFile string `json:"sources_file" yaml:"sources_file"`

	// Strict aborts the whole run on the first source whose fetch fails.
	// When false a failed source is reported and skipped.
	Strict bool `json:"strict" yaml:"strict"`
}
