// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// InputFormat selects which reader parses an input file.
type InputFormat string

const (
	FormatAuto   InputFormat = "auto"
	FormatRIS    InputFormat = "ris"
	FormatBibTeX InputFormat = "bibtex"
)

// DefaultEncodings is the candidate encoding list tried when none is configured.
var DefaultEncodings = []string{"utf-8", "windows-1252", "iso-8859-1"}

// DefaultWrapThreshold is the previous-line length above which an untagged
// line is treated as a wrapped continuation.
const DefaultWrapThreshold = 70

// IngestConfig holds settings for parsing input files.
type IngestConfig struct {
	// Encodings is the ordered list of candidate text encodings.
	Encodings []string `json:"encodings" yaml:"encodings"`

	// Workers bounds how many files are parsed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// WrapThreshold is the long-line continuation threshold in characters.
	WrapThreshold int `json:"wrap_threshold" yaml:"wrap_threshold"`

	// Format forces a reader; auto sniffs extension and content.
	Format InputFormat `json:"format" yaml:"format"`

	// Dialect forces a line-format dialect (ris, ris-loose, wok). Empty detects.
	Dialect string `json:"dialect,omitempty" yaml:"dialect,omitempty"`
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c IngestConfig) WithDefaults() IngestConfig {
	if len(c.Encodings) == 0 {
		c.Encodings = DefaultEncodings
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.WrapThreshold <= 0 {
		c.WrapThreshold = DefaultWrapThreshold
	}
	if c.Format == "" {
		c.Format = FormatAuto
	}
	return c
}

// StoreConfig holds settings for the citation store.
type StoreConfig struct {
	// DBDir is the directory holding the store database (contains citations.db).
	DBDir string `json:"db_dir" yaml:"db_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all settings read from the configuration file.
type Config struct {
	Ingest IngestConfig `json:"ingest" yaml:"ingest"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
