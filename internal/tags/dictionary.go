// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tags holds the static tag dictionaries that map format-native tags
// to canonical field names. Dictionaries are read-only after package
// initialization and are shared by every concurrent parser.
package tags

import (
	"strings"

	"github.com/pdiddy/reference-ingest/internal/sanitize"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// Alternate names the fields searched, in priority order, when Field is
// absent from a normalized record.
type Alternate struct {
	Field string
	From  []string

	// Types restricts the fallback to records of these reference types.
	// Empty applies it to every record.
	Types []string

	// Derive converts the adopted value. Nil copies it unchanged.
	Derive func(types.Value) (types.Value, bool)
}

// Applies reports whether the fallback applies to a record of typeLabel.
func (a Alternate) Applies(typeLabel string) bool {
	if len(a.Types) == 0 {
		return true
	}
	for _, t := range a.Types {
		if t == typeLabel {
			return true
		}
	}
	return false
}

// Dictionary describes one tag vocabulary.
type Dictionary struct {
	// Name identifies the vocabulary ("ris", "wok", "bibtex").
	Name string

	// Fields maps a native tag to its canonical field name.
	Fields map[string]string

	// Multi marks tags that may repeat within one record.
	Multi map[string]bool

	// Ignore marks tags that carry no data, such as file headers.
	Ignore map[string]bool

	// Start marks record-start tags.
	Start map[string]bool

	// End is the record-end tag. Empty for vocabularies without one.
	End string

	// TypeTag is the tag that carries the reference type code.
	TypeTag string

	// TypeCodes maps type codes to reference type labels. Nil falls back to
	// the line-format type table.
	TypeCodes map[string]string

	// Overrides maps a reference type label to tags whose canonical field
	// differs for that type.
	Overrides map[string]map[string]string

	// Alternates lists field fallbacks in the order they are applied.
	Alternates []Alternate

	// NamesSplit is set when the reader already splits name lists, so each
	// value holds exactly one name. Corporate names may then contain "and".
	NamesSplit bool
}

// Field returns the canonical field for tag.
func (d *Dictionary) Field(tag string) (string, bool) {
	f, ok := d.Fields[tag]
	return f, ok
}

// FieldFor returns the canonical field for tag in a record of typeLabel,
// consulting the type overrides first.
func (d *Dictionary) FieldFor(typeLabel, tag string) (string, bool) {
	if o, ok := d.Overrides[typeLabel]; ok {
		if f, ok := o[tag]; ok {
			return f, true
		}
	}
	return d.Field(tag)
}

// Known reports whether tag belongs to the vocabulary, including tags that
// are ignored or delimit records.
func (d *Dictionary) Known(tag string) bool {
	if _, ok := d.Fields[tag]; ok {
		return true
	}
	return d.Ignore[tag] || d.Start[tag] || tag == d.End
}

// IsMulti reports whether tag may repeat within a record.
func (d *Dictionary) IsMulti(tag string) bool { return d.Multi[tag] }

// IsIgnored reports whether tag carries no data.
func (d *Dictionary) IsIgnored(tag string) bool { return d.Ignore[tag] }

// IsStart reports whether tag opens a record.
func (d *Dictionary) IsStart(tag string) bool { return d.Start[tag] }

// IsEnd reports whether tag closes a record.
func (d *Dictionary) IsEnd(tag string) bool { return d.End != "" && tag == d.End }

// TypeLabel maps a raw type code to its reference type label.
func (d *Dictionary) TypeLabel(code string) string {
	if d.TypeCodes != nil {
		if label, ok := d.TypeCodes[strings.ToLower(sanitize.Text(code))]; ok {
			return label
		}
	}
	return sanitize.ReferenceType(code)
}

// set builds a membership set.
func set(tags ...string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[t] = true
	}
	return m
}

// Reference type groups used by overrides and alternates.
var (
	JournalTypes = []string{
		sanitize.TypeJournal,
		sanitize.TypeElectronicArticle,
		sanitize.TypeMagazine,
		sanitize.TypeNewspaper,
		sanitize.TypeJournalFull,
		sanitize.TypeInPress,
	}
	BookTypes = []string{
		sanitize.TypeBook,
		sanitize.TypeEditedBook,
		sanitize.TypeElectronicBook,
	}
	ChapterTypes = []string{
		sanitize.TypeChapter,
		sanitize.TypeElectronicChapter,
	}
	ConferenceTypes = []string{
		sanitize.TypeConference,
		sanitize.TypeConferencePaper,
	}
)

// overrides builds a type override table from groups of type labels that
// share one tag remapping.
func overrides(groups ...typeOverride) map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, g := range groups {
		for _, label := range g.types {
			m, ok := out[label]
			if !ok {
				m = make(map[string]string)
				out[label] = m
			}
			for tag, field := range g.fields {
				m[tag] = field
			}
		}
	}
	return out
}

type typeOverride struct {
	types  []string
	fields map[string]string
}

// yearOf derives a publication year from a date value.
func yearOf(v types.Value) (types.Value, bool) {
	if v.Kind != types.KindDate || v.Date.Year() < 1 {
		return types.Value{}, false
	}
	return types.IntValue(v.Date.Year()), true
}

// commonAlternates are the fallbacks shared by every vocabulary.
var commonAlternates = []Alternate{
	{Field: types.FieldTitle, From: []string{types.FieldPrimaryTitle, types.FieldShortTitle, types.FieldTranslatedTitle}},
	{
		Field: types.FieldJournalName,
		From: []string{
			types.FieldAlternateTitle3,
			types.FieldAlternateTitle2,
			types.FieldAlternateTitle1,
			types.FieldSecondaryTitle,
		},
		Types: JournalTypes,
	},
	{Field: types.FieldAuthors, From: []string{types.FieldFirstAuthors}},
	{Field: types.FieldAbstract, From: []string{types.FieldNotesAbstract}},
	{Field: types.FieldPubYear, From: []string{types.FieldPublicationDate, types.FieldDate}, Derive: yearOf},
}
