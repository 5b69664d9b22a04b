// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

// ExportEntry holds a stored record with its import id for export.
type ExportEntry struct {
	ImportID string                 `json:"import_id" yaml:"import_id"`
	Fields   map[string]types.Value `json:"fields" yaml:"fields"`
	Other    map[string][]string    `json:"other_fields,omitempty" yaml:"other_fields,omitempty"`
	Source   types.Source           `json:"source" yaml:"source"`
}

const exportLimit = 100000

// ExportYAML writes the store (or the subset matching opts) to export.yaml
// in the store directory and returns the file path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the store (or the subset matching opts) to export.json
// in the store directory and returns the file path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ImportID: r.ImportID,
			Fields:   r.Record.Fields,
			Source:   r.Record.Source,
		}
		if len(r.Record.Other) > 0 {
			entries[i].Other = r.Record.Other
		}
	}
	return entries, nil
}
