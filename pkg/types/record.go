// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the reference-ingest
// pipeline: raw tagged records, canonical citation records, the canonical
// field schema, diagnostics, fatal parse errors, and configuration.
package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind identifies which member of a Value is populated.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindDate
	KindList
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DateLayout is the layout used when a date value is rendered as text.
const DateLayout = "2006-01-02"

// Value is a typed canonical field value. Exactly one member is meaningful,
// selected by Kind.
type Value struct {
	Kind Kind
	Text string
	Int  int
	Date time.Time
	List []string
}

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// IntValue returns an integer Value.
func IntValue(n int) Value { return Value{Kind: KindInt, Int: n} }

// DateValue returns a date Value truncated to the calendar day.
func DateValue(t time.Time) Value {
	y, m, d := t.Date()
	return Value{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ListValue returns a list Value. The slice is not copied.
func ListValue(items []string) Value { return Value{Kind: KindList, List: items} }

// String renders the value as plain text. Lists are joined with "; ".
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindList:
		return strings.Join(v.List, "; ")
	}
	return v.Text
}

// scalar returns the natural Go representation used by the encoders.
func (v Value) scalar() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindList:
		if v.List == nil {
			return []string{}
		}
		return v.List
	}
	return v.Text
}

// MarshalJSON encodes the value as a JSON string, number, or array.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.scalar())
}

// MarshalYAML encodes the value as a YAML scalar or sequence.
func (v Value) MarshalYAML() (any, error) {
	return v.scalar(), nil
}

// decodeValue decodes a JSON field value whose kind is known from the schema.
func decodeValue(kind Kind, data []byte) (Value, error) {
	switch kind {
	case KindInt:
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return Value{}, err
		}
		return IntValue(n), nil
	case KindDate:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Value{}, err
		}
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return Value{}, err
		}
		return DateValue(t), nil
	case KindList:
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return Value{}, err
		}
		return ListValue(items), nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return Value{}, err
	}
	return TextValue(s), nil
}

// Source records where a Record came from. It is provenance, not part of the
// canonical field set.
type Source struct {
	// File is the input path or name the record was read from.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Format is the input format: "ris" or "bibtex".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Dialect is the line-format dialect, empty for BibTeX.
	Dialect string `json:"dialect,omitempty" yaml:"dialect,omitempty"`

	// Line is the 1-based line on which the record started.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
}

// Record is a normalized citation. Fields are keyed by canonical field name;
// a field that has no value is absent, never stored as an empty placeholder.
// Tags the dictionary does not know are kept in Other under their native name.
type Record struct {
	Fields map[string]Value    `json:"fields" yaml:"fields"`
	Other  map[string][]string `json:"other_fields,omitempty" yaml:"other_fields,omitempty"`
	Source Source              `json:"source" yaml:"source"`
}

// NewRecord returns an empty Record with initialized maps.
func NewRecord() Record {
	return Record{
		Fields: make(map[string]Value),
		Other:  make(map[string][]string),
	}
}

// Has reports whether the canonical field is present.
func (r Record) Has(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// Get returns the value of a canonical field.
func (r Record) Get(name string) (Value, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Text returns the text form of a field, or "" when absent.
func (r Record) Text(name string) string {
	v, ok := r.Fields[name]
	if !ok {
		return ""
	}
	return v.String()
}

// Int returns an integer field and whether it was present as an integer.
func (r Record) Int(name string) (int, bool) {
	v, ok := r.Fields[name]
	if !ok || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// List returns a list field, or nil when absent.
func (r Record) List(name string) []string {
	v, ok := r.Fields[name]
	if !ok || v.Kind != KindList {
		return nil
	}
	return v.List
}

// Names returns the present canonical field names in sorted order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnmarshalJSON decodes a record, using the canonical schema to recover the
// kind of every field.
func (r *Record) UnmarshalJSON(data []byte) error {
	var aux struct {
		Fields map[string]json.RawMessage `json:"fields"`
		Other  map[string][]string        `json:"other_fields"`
		Source Source                     `json:"source"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	rec := NewRecord()
	for name, raw := range aux.Fields {
		v, err := decodeValue(KindOf(name), raw)
		if err != nil {
			return fmt.Errorf("decoding field %s: %w", name, err)
		}
		rec.Fields[name] = v
	}
	for tag, values := range aux.Other {
		rec.Other[tag] = values
	}
	rec.Source = aux.Source
	*r = rec
	return nil
}
