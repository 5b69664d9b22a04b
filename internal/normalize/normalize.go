// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a raw tagged record into a canonical record. It
// resolves the reference type, renames tags through a dictionary (with
// per-type overrides), sanitizes every value by field category and fills
// absent fields from their alternates.
package normalize

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/reference-ingest/internal/sanitize"
	"github.com/pdiddy/reference-ingest/internal/tags"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// category selects the sanitizer applied to a canonical field.
type category int

const (
	catText category = iota
	catMarkup
	catInt
	catYear
	catMonth
	catDate
	catNames
	catKeywords
	catList
	catPages
	catDOI
)

// categories overrides the kind-derived category for specific fields.
var categories = map[string]category{
	types.FieldTitle:           catMarkup,
	types.FieldPrimaryTitle:    catMarkup,
	types.FieldSecondaryTitle:  catMarkup,
	types.FieldTertiaryTitle:   catMarkup,
	types.FieldShortTitle:      catMarkup,
	types.FieldTranslatedTitle: catMarkup,
	types.FieldAlternateTitle1: catMarkup,
	types.FieldAlternateTitle2: catMarkup,
	types.FieldAlternateTitle3: catMarkup,
	types.FieldJournalName:     catMarkup,
	types.FieldBookTitle:       catMarkup,
	types.FieldAbstract:        catMarkup,
	types.FieldNotesAbstract:   catMarkup,

	types.FieldPubYear:  catYear,
	types.FieldPubMonth: catMonth,

	types.FieldAuthors:           catNames,
	types.FieldFirstAuthors:      catNames,
	types.FieldSecondaryAuthors:  catNames,
	types.FieldTertiaryAuthors:   catNames,
	types.FieldSubsidiaryAuthors: catNames,
	types.FieldTranslatedAuthors: catNames,
	types.FieldEditors:           catNames,

	types.FieldKeywords: catKeywords,

	types.FieldStartPage: catPages,
	types.FieldDOI:       catDOI,
}

func categoryOf(field string) category {
	if c, ok := categories[field]; ok {
		return c
	}
	switch types.KindOf(field) {
	case types.KindInt:
		return catInt
	case types.KindDate:
		return catDate
	case types.KindList:
		return catList
	}
	return catText
}

// Normalizer converts raw records to canonical records. It holds no
// per-record state and may be shared across goroutines.
type Normalizer struct {
	logger *zap.Logger
}

// New creates a Normalizer. A nil logger discards log output.
func New(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// fieldValues accumulates raw values per canonical field, remembering the
// first tag that produced each field for diagnostics.
type fieldValues struct {
	order  []string
	values map[string][]string
	tag    map[string]string
}

func (f *fieldValues) add(field, tag string, vals []string) {
	if _, ok := f.values[field]; !ok {
		f.order = append(f.order, field)
		f.tag[field] = tag
	}
	f.values[field] = append(f.values[field], vals...)
}

// Normalize builds the canonical record for raw using dict. Problems with
// individual values are returned as diagnostics; the offending field is
// omitted or kept as plain text, and the record is always produced.
func (n *Normalizer) Normalize(raw *types.RawRecord, dict *tags.Dictionary, src types.Source) (types.Record, []types.Diagnostic) {
	rec := types.NewRecord()
	rec.Source = src
	var diags []types.Diagnostic
	report := func(kind types.DiagnosticKind, tag, format string, args ...any) {
		d := types.Diagnostic{
			File:    src.File,
			Line:    src.Line,
			Tag:     tag,
			Kind:    kind,
			Message: fmt.Sprintf(format, args...),
		}
		diags = append(diags, d)
		n.logger.Warn(d.Message,
			zap.String("file", d.File),
			zap.Int("line", d.Line),
			zap.String("tag", d.Tag),
			zap.String("kind", string(d.Kind)),
		)
	}

	// The type decides which overrides apply, so it is resolved first.
	typeLabel := ""
	if code, ok := raw.Get(dict.TypeTag); ok {
		typeLabel = dict.TypeLabel(code)
	}
	if typeLabel != "" {
		rec.Fields[types.FieldTypeOfReference] = types.TextValue(typeLabel)
	}

	fv := &fieldValues{values: make(map[string][]string), tag: make(map[string]string)}
	for _, tag := range raw.Tags() {
		if tag == dict.TypeTag {
			continue
		}
		field, ok := dict.FieldFor(typeLabel, tag)
		if !ok {
			rec.Other[tag] = append(rec.Other[tag], raw.Values(tag)...)
			continue
		}
		fv.add(field, tag, raw.Values(tag))
	}

	for _, field := range fv.order {
		n.sanitizeField(&rec, dict, field, fv.tag[field], fv.values[field], fv, report)
	}

	for _, alt := range dict.Alternates {
		if rec.Has(alt.Field) || !alt.Applies(typeLabel) {
			continue
		}
		for _, from := range alt.From {
			v, ok := rec.Fields[from]
			if !ok {
				continue
			}
			if alt.Derive != nil {
				if v, ok = alt.Derive(v); !ok {
					continue
				}
			}
			rec.Fields[alt.Field] = v
			break
		}
	}

	return rec, diags
}

type reportFunc func(kind types.DiagnosticKind, tag, format string, args ...any)

// sanitizeField stores the sanitized form of vals under field, or nothing
// when no usable value remains.
func (n *Normalizer) sanitizeField(rec *types.Record, dict *tags.Dictionary, field, tag string, vals []string, fv *fieldValues, report reportFunc) {
	if allBlank(vals) {
		return
	}

	switch categoryOf(field) {
	case catText:
		rec.Fields[field] = types.TextValue(joinText(vals, sanitize.Text))

	case catMarkup:
		rec.Fields[field] = types.TextValue(joinText(vals, sanitize.Markup))

	case catInt:
		if v, ok := firstParsed(vals, sanitize.Integer); ok {
			rec.Fields[field] = types.IntValue(v)
			return
		}
		report(types.DiagSanitizeFailed, tag, "%s: not an integer: %q", field, vals[0])

	case catYear:
		if v, ok := firstParsed(vals, sanitize.Year); ok {
			rec.Fields[field] = types.IntValue(v)
			return
		}
		report(types.DiagSanitizeFailed, tag, "%s: no year in %q", field, vals[0])

	case catMonth:
		if v, ok := firstParsed(vals, sanitize.Month); ok {
			rec.Fields[field] = types.IntValue(v)
			return
		}
		report(types.DiagSanitizeFailed, tag, "%s: unknown month %q", field, vals[0])

	case catDate:
		if v, ok := firstParsed(vals, sanitize.Date); ok {
			rec.Fields[field] = types.DateValue(v)
			return
		}
		report(types.DiagSanitizeFailed, tag, "%s: unparseable date %q", field, vals[0])

	case catNames:
		split := sanitize.NameList
		if dict.NamesSplit {
			split = sanitize.TextList
		}
		if names := split(vals); len(names) > 0 {
			rec.Fields[field] = types.ListValue(names)
		}

	case catKeywords:
		if kws := sanitize.KeywordList(vals); len(kws) > 0 {
			rec.Fields[field] = types.ListValue(kws)
		}

	case catList:
		if items := sanitize.TextList(vals); len(items) > 0 {
			rec.Fields[field] = types.ListValue(items)
		}

	case catPages:
		p, ok := sanitize.PageRange(sanitize.Text(vals[0]))
		if !ok {
			return
		}
		if p.Unusual {
			report(types.DiagUnusualPages, tag, "%s: unusual page range %q", field, vals[0])
		}
		rec.Fields[field] = types.TextValue(p.Start)
		if p.End != "" {
			// An explicit end page takes precedence over the split range.
			if _, explicit := fv.values[types.FieldEndPage]; !explicit || allBlank(fv.values[types.FieldEndPage]) {
				rec.Fields[types.FieldEndPage] = types.TextValue(p.End)
			}
		}

	case catDOI:
		doi, ok := sanitize.DOI(vals[0])
		if !ok {
			report(types.DiagSanitizeFailed, tag, "%s: not a DOI: %q", field, vals[0])
		}
		if doi != "" {
			rec.Fields[field] = types.TextValue(doi)
		}

	default:
		n.logger.DPanic("unhandled field category", zap.String("field", field))
		rec.Fields[field] = types.TextValue(joinText(vals, sanitize.Text))
	}
}

// firstParsed returns the first value parse accepts.
func firstParsed[T any](vals []string, parse func(string) (T, bool)) (T, bool) {
	for _, v := range vals {
		if out, ok := parse(v); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

// joinText cleans each value and joins the distinct non-empty ones with "; ".
func joinText(vals []string, clean func(string) string) string {
	var parts []string
	seen := make(map[string]bool)
	for _, v := range vals {
		v = clean(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		parts = append(parts, v)
	}
	return strings.Join(parts, "; ")
}

func allBlank(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
