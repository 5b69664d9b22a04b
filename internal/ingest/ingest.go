// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest opens citation export files and routes them to the right
// reader. It resolves compression, text encoding and input format, and
// parses batches of independent files concurrently.
package ingest

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/reference-ingest/internal/bibtex"
	"github.com/pdiddy/reference-ingest/internal/normalize"
	"github.com/pdiddy/reference-ingest/internal/ris"
	"github.com/pdiddy/reference-ingest/internal/textenc"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// extensionFormats maps file extensions to the reader that handles them.
var extensionFormats = map[string]types.InputFormat{
	".ris":    types.FormatRIS,
	".ciw":    types.FormatRIS,
	".enw":    types.FormatRIS,
	".bib":    types.FormatBibTeX,
	".bibtex": types.FormatBibTeX,
}

// RecordReader is the contract shared by every opened input.
type RecordReader interface {
	Next() (types.Record, error)
	All() iter.Seq2[types.Record, error]
	Diagnostics() []types.Diagnostic
	Format() types.InputFormat
	Dialect() string
}

// records is the part of the contract implemented by the format readers.
type records interface {
	Next() (types.Record, error)
	All() iter.Seq2[types.Record, error]
	Diagnostics() []types.Diagnostic
}

// Reader is an opened input file.
type Reader struct {
	records

	path     string
	format   types.InputFormat
	encoding string
	parser   *ris.Parser
}

var _ RecordReader = (*Reader)(nil)

// Path returns the file the reader was opened on.
func (r *Reader) Path() string { return r.path }

// Format returns the reader selected for the file.
func (r *Reader) Format() types.InputFormat { return r.format }

// Encoding returns the text encoding that decoded the file.
func (r *Reader) Encoding() string { return r.encoding }

// Dialect returns the line-format dialect, once known. It is empty for
// BibTeX input and before the first tagged line has been read.
func (r *Reader) Dialect() string {
	if r.parser == nil {
		return ""
	}
	if d := r.parser.Dialect(); d != nil {
		return d.Name
	}
	return ""
}

// Sniff picks a reader for a file, first by extension and then by content:
// input whose first non-blank character is '@' is BibTeX.
func Sniff(path, text string) types.InputFormat {
	ext := strings.ToLower(filepath.Ext(textenc.StripCompression(path)))
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	trimmed := strings.TrimLeft(strings.TrimPrefix(text, "\ufeff"), " \t\r\n")
	if strings.HasPrefix(trimmed, "@") {
		return types.FormatBibTeX
	}
	return types.FormatRIS
}

// Open reads, decompresses and decodes the file at path and returns a lazy
// reader over its records.
func Open(path string, cfg types.IngestConfig, logger *zap.Logger) (*Reader, error) {
	data, err := textenc.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return OpenBytes(path, data, cfg, logger)
}

// OpenBytes is Open for content already in memory. name is used for format
// sniffing, error messages and record provenance.
func OpenBytes(name string, data []byte, cfg types.IngestConfig, logger *zap.Logger) (*Reader, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	text, used, err := textenc.Decode(data, cfg.Encodings)
	if err != nil {
		return nil, &types.ParseError{File: name, Err: err}
	}

	format := cfg.Format
	if format == types.FormatAuto {
		format = Sniff(name, text)
	}
	normalizer := normalize.New(logger)
	r := &Reader{path: name, format: format, encoding: used}

	switch format {
	case types.FormatRIS:
		opts := []ris.Option{
			ris.WithFile(name),
			ris.WithLogger(logger),
			ris.WithWrapThreshold(cfg.WrapThreshold),
			ris.WithNormalizer(normalizer),
		}
		if cfg.Dialect != "" {
			d, ok := ris.Lookup(cfg.Dialect)
			if !ok {
				return nil, fmt.Errorf("unknown dialect %q: use one of %s", cfg.Dialect, strings.Join(ris.Names(), ", "))
			}
			opts = append(opts, ris.WithDialect(d))
		}
		r.parser = ris.NewParser(strings.NewReader(text), opts...)
		r.records = r.parser

	case types.FormatBibTeX:
		r.records = bibtex.NewReader(text,
			bibtex.WithFile(name),
			bibtex.WithLogger(logger),
			bibtex.WithNormalizer(normalizer),
		)

	default:
		return nil, fmt.Errorf("unsupported format %q: use auto, ris or bibtex", format)
	}

	logger.Debug("opened input",
		zap.String("file", name),
		zap.String("format", string(format)),
		zap.String("encoding", used),
	)
	return r, nil
}
