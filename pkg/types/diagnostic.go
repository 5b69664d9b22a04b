// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// DiagnosticKind classifies a recoverable problem found while parsing.
type DiagnosticKind string

const (
	DiagUnknownTag      DiagnosticKind = "unknown-tag"
	DiagDuplicateTag    DiagnosticKind = "duplicate-tag"
	DiagUnparseableLine DiagnosticKind = "unparseable-line"
	DiagSanitizeFailed  DiagnosticKind = "sanitize-failed"
	DiagUnusualPages    DiagnosticKind = "unusual-pages"
	DiagContinuation    DiagnosticKind = "continuation"
	DiagSkippedEntry    DiagnosticKind = "skipped-entry"
)

// Diagnostic describes a recoverable issue. Diagnostics never stop ingestion
// of the remaining records.
type Diagnostic struct {
	File    string         `json:"file,omitempty" yaml:"file,omitempty"`
	Line    int            `json:"line,omitempty" yaml:"line,omitempty"`
	Tag     string         `json:"tag,omitempty" yaml:"tag,omitempty"`
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Message string         `json:"message" yaml:"message"`
}

// String renders the diagnostic as "file:line: kind: message".
func (d Diagnostic) String() string {
	loc := d.File
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.File, d.Line)
	}
	if d.Tag != "" {
		return fmt.Sprintf("%s: %s [%s]: %s", loc, d.Kind, d.Tag, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Kind, d.Message)
}
