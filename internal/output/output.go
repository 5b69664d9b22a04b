// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes normalized records as JSON Lines, YAML or CSL-YAML.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

// Format names a record output encoding.
type Format string

const (
	JSONL Format = "jsonl"
	YAML  Format = "yaml"
	CSL   Format = "csl"
)

// ParseFormat validates a format name from a flag or config file.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case JSONL, YAML, CSL:
		return f, nil
	case "":
		return JSONL, nil
	}
	return "", fmt.Errorf("unsupported output format %q: use jsonl, yaml or csl", s)
}

// Write encodes records to w in format f.
func Write(w io.Writer, f Format, records []types.Record) error {
	switch f {
	case JSONL, "":
		return WriteJSONL(w, records)
	case YAML:
		return WriteYAML(w, records)
	case CSL:
		return FormatCSL(w, records)
	}
	return fmt.Errorf("unsupported output format %q", f)
}

// WriteJSONL writes one JSON object per record, one per line.
func WriteJSONL(w io.Writer, records []types.Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

// ReadJSONL decodes records written by WriteJSONL.
func ReadJSONL(r io.Reader) ([]types.Record, error) {
	dec := json.NewDecoder(r)
	var records []types.Record
	for {
		var rec types.Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("decoding record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
}

// WriteYAML writes the records as a single YAML sequence.
func WriteYAML(w io.Writer, records []types.Record) error {
	if records == nil {
		records = []types.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		enc.Close()
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// WriteDiagnostics prints one diagnostic per line.
func WriteDiagnostics(w io.Writer, diags []types.Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
