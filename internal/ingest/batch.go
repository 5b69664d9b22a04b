// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

// FileResult is the outcome of parsing one file. Records read before a
// fatal error are kept; Err holds that error.
type FileResult struct {
	Path        string             `json:"path" yaml:"path"`
	Format      types.InputFormat  `json:"format" yaml:"format"`
	Dialect     string             `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Encoding    string             `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Records     []types.Record     `json:"records" yaml:"records"`
	Diagnostics []types.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Err         error              `json:"-" yaml:"-"`
}

// Failed reports whether the file stopped on a fatal error.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// ParseFile reads every record of the file at path. The context is checked
// between records.
func ParseFile(ctx context.Context, path string, cfg types.IngestConfig, logger *zap.Logger) FileResult {
	result := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	r, err := Open(path, cfg, logger)
	if err != nil {
		result.Err = err
		return result
	}
	result.Format = r.Format()
	result.Encoding = r.Encoding()

	for rec, err := range r.All() {
		if err != nil {
			result.Err = err
			break
		}
		result.Records = append(result.Records, rec)
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}
	}
	result.Dialect = r.Dialect()
	result.Diagnostics = r.Diagnostics()
	return result
}

// ParseFiles parses independent files concurrently, at most cfg.Workers at
// a time. Each file gets its own reader, and a fatal error in one file is
// recorded in its result without stopping the others. Results are in the
// order of paths. The returned error is non-nil only when ctx is cancelled.
func ParseFiles(ctx context.Context, paths []string, cfg types.IngestConfig, logger *zap.Logger) ([]FileResult, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = ParseFile(gctx, path, cfg, logger)
			if results[i].Failed() {
				logger.Warn("file failed",
					zap.String("file", path),
					zap.Error(results[i].Err),
				)
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("parsing files: %w", err)
	}
	return results, nil
}

// Summary holds counts from a batch parse.
type Summary struct {
	Parsed      int
	Failed      int
	Records     int
	Diagnostics int
}

// Total returns the number of files processed.
func (s Summary) Total() int {
	return s.Parsed + s.Failed
}

// HasFailures reports whether any file stopped on a fatal error.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Summarize counts files, records and diagnostics across results.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		if r.Failed() {
			s.Failed++
		} else {
			s.Parsed++
		}
		s.Records += len(r.Records)
		s.Diagnostics += len(r.Diagnostics)
	}
	return s
}

// Report prints a status line per file and a batch summary to w.
func Report(w io.Writer, results []FileResult) Summary {
	for _, r := range results {
		base := filepath.Base(r.Path)
		if r.Failed() {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, r.Err)
			continue
		}
		label := string(r.Format)
		if r.Dialect != "" && r.Dialect != label {
			label += "/" + r.Dialect
		}
		fmt.Fprintf(w, "parsed:  %s (%s, %s, %d records, %d diagnostics)\n",
			base, label, r.Encoding, len(r.Records), len(r.Diagnostics))
	}
	s := Summarize(results)
	fmt.Fprintf(w, "\nBatch summary: %d parsed, %d failed, %d records, %d diagnostics (total files: %d)\n",
		s.Parsed, s.Failed, s.Records, s.Diagnostics, s.Total())
	return s
}
