// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex reads BibTeX name/value citation files into canonical
// records. It shares the record shape, normalizer and diagnostics contract of
// the line-format parser, so both formats agree on field names and types.
package bibtex

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/reference-ingest/internal/normalize"
	"github.com/pdiddy/reference-ingest/internal/sanitize"
	"github.com/pdiddy/reference-ingest/internal/tags"
	"github.com/pdiddy/reference-ingest/internal/textenc"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// standardMacros are the month abbreviations every BibTeX style predefines.
var standardMacros = map[string]string{
	"jan": "January",
	"feb": "February",
	"mar": "March",
	"apr": "April",
	"may": "May",
	"jun": "June",
	"jul": "July",
	"aug": "August",
	"sep": "September",
	"oct": "October",
	"nov": "November",
	"dec": "December",
}

// thesisTypes supplies a thesis type when the entry type implies one.
var thesisTypes = map[string]string{
	"mastersthesis": "Master's thesis",
	"phdthesis":     "PhD thesis",
}

// Option configures a Reader.
type Option func(*Reader)

// WithFile sets the file name reported in errors, diagnostics and record
// provenance.
func WithFile(name string) Option {
	return func(r *Reader) { r.file = name }
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithNormalizer sets the normalizer applied to each entry.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(r *Reader) {
		if n != nil {
			r.normalizer = n
		}
	}
}

// field is one name/value assignment inside an entry.
type field struct {
	name  string
	value string
}

// syntaxError is a recoverable problem confined to one entry. The reader
// reports it and resumes at the next entry.
type syntaxError struct {
	msg string
}

func (e *syntaxError) Error() string { return e.msg }

// Reader parses BibTeX text entry by entry. It is not safe for use by
// multiple goroutines.
type Reader struct {
	src  string
	pos  int
	line int

	file       string
	logger     *zap.Logger
	normalizer *normalize.Normalizer

	macros map[string]string
	diags  []types.Diagnostic
	err    error
}

// NewReader returns a Reader over already decoded text.
func NewReader(text string, opts ...Option) *Reader {
	r := &Reader{
		src:    text,
		line:   1,
		logger: zap.NewNop(),
		macros: make(map[string]string, len(standardMacros)),
	}
	for k, v := range standardMacros {
		r.macros[k] = v
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.normalizer == nil {
		r.normalizer = normalize.New(r.logger)
	}
	return r
}

// NewReaderBytes decodes data with the first candidate encoding that works
// and returns a Reader over the text. When no candidate decodes the data it
// returns a *types.ParseError wrapping types.ErrNoEncoding.
func NewReaderBytes(data []byte, encodings []string, opts ...Option) (*Reader, error) {
	r := NewReader("", opts...)
	text, _, err := textenc.Decode(data, encodings)
	if err != nil {
		return nil, &types.ParseError{File: r.file, Err: err}
	}
	r.src = text
	return r, nil
}

// Diagnostics returns the recoverable problems found so far.
func (r *Reader) Diagnostics() []types.Diagnostic {
	return r.diags
}

// All returns the records as a lazy sequence. The sequence ends after the
// first error; callers may stop early at any point.
func (r *Reader) All() iter.Seq2[types.Record, error] {
	return func(yield func(types.Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(types.Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Next returns the next bibliographic entry as a canonical record. It
// returns io.EOF after the last entry. Entries with unbalanced braces or
// quotes are fatal and returned as *types.ParseError; other malformed
// entries are skipped with a diagnostic.
func (r *Reader) Next() (types.Record, error) {
	if r.err != nil {
		return types.Record{}, r.err
	}
	for {
		at := strings.IndexByte(r.src[r.pos:], '@')
		if at < 0 {
			r.err = io.EOF
			return types.Record{}, io.EOF
		}
		r.advanceTo(r.pos + at)
		entryLine, entryStart := r.line, r.pos
		r.advance()

		// Text between entries is ignored: an entry starts with "@" at the
		// start of a line or after whitespace, followed by its delimiter.
		if entryStart > 0 && !isSpace(r.src[entryStart-1]) {
			continue
		}
		kind := strings.ToLower(r.readIdent())
		r.skipBlanks()

		if kind == "comment" && !r.atDelimiter() {
			r.skipLine()
			continue
		}
		if kind == "" || !r.atDelimiter() {
			continue
		}
		closer := byte('}')
		if r.peek() == '(' {
			closer = ')'
		}

		switch kind {
		case "comment", "preamble":
			if err := r.skipBalanced(); err != nil {
				return r.fatal(entryLine, entryStart, err)
			}
			continue

		case "string":
			r.advance()
			fields, err := r.readFields(closer)
			if err != nil {
				if ferr := r.resync(entryLine, entryStart, err); ferr != nil {
					return types.Record{}, ferr
				}
				continue
			}
			for _, f := range fields {
				r.macros[strings.ToLower(f.name)] = f.value
			}
			continue
		}

		r.advance()
		key := r.readKey(closer)
		fields, err := r.readFields(closer)
		if err != nil {
			if ferr := r.resync(entryLine, entryStart, err); ferr != nil {
				return types.Record{}, ferr
			}
			continue
		}
		return r.buildRecord(kind, key, fields, entryLine), nil
	}
}

// resync reports a syntax error and resumes at the next line that starts
// an entry. Any other error is fatal and returned.
func (r *Reader) resync(line, start int, err error) error {
	var se *syntaxError
	if !errors.As(err, &se) {
		_, ferr := r.fatal(line, start, err)
		return ferr
	}
	r.report(types.DiagSkippedEntry, "", line, fmt.Sprintf("skipping malformed entry %q: %s", firstLine(r.src[start:]), se.msg))
	next := strings.Index(r.src[r.pos:], "\n@")
	if next < 0 {
		r.advanceTo(len(r.src))
	} else {
		r.advanceTo(r.pos + next + 1)
	}
	return nil
}

func (r *Reader) fatal(line, start int, err error) (types.Record, error) {
	r.err = &types.ParseError{File: r.file, Line: line, Content: firstLine(r.src[start:]), Err: err}
	return types.Record{}, r.err
}

// buildRecord maps the entry onto a raw record and normalizes it.
func (r *Reader) buildRecord(kind, key string, fields []field, line int) types.Record {
	dict := tags.BibTeX
	raw := types.NewRawRecord()
	raw.Set(tags.BibEntryType, kind)
	if key != "" {
		raw.Set(tags.BibKey, key)
	}

	for _, f := range fields {
		name := strings.ToLower(f.name)
		if !dict.Known(name) {
			r.report(types.DiagUnknownTag, name, line, fmt.Sprintf("unknown field %s kept verbatim", name))
		}

		switch name {
		case "author", "editor":
			for _, n := range splitNames(f.value) {
				raw.Append(name, toText(n, modeText))
			}
			continue
		case "keywords":
			for _, kw := range sanitize.KeywordList([]string{toText(f.value, modeText)}) {
				raw.Append(name, kw)
			}
			continue
		}

		value := toText(f.value, modeFor(name))
		if dict.IsMulti(name) {
			raw.Append(name, value)
			continue
		}
		if conflict := raw.Set(name, value); conflict {
			first, _ := raw.Get(name)
			r.report(types.DiagDuplicateTag, name, line, fmt.Sprintf("duplicate %s, keeping first value %q and dropping %q", name, first, value))
		}
	}

	if t, ok := thesisTypes[kind]; ok {
		if _, present := raw.Get("type"); !present {
			raw.Set("type", t)
		}
	}

	raw.SortMulti(dict.IsMulti)
	src := types.Source{File: r.file, Format: string(types.FormatBibTeX), Line: line}
	rec, diags := r.normalizer.Normalize(raw, dict, src)
	r.diags = append(r.diags, diags...)
	return rec
}

func modeFor(name string) textMode {
	switch name {
	case "url", "doi", "file", "eprint":
		return modeVerbatim
	case "pages":
		return modePages
	}
	return modeText
}

// readFields reads name = value assignments up to and including closer.
func (r *Reader) readFields(closer byte) ([]field, error) {
	var fields []field
	for {
		r.skipSpaceAndCommas()
		if r.eof() {
			return nil, fmt.Errorf("%w: unterminated entry", types.ErrBadEntry)
		}
		if r.peek() == closer {
			r.advance()
			return fields, nil
		}

		name := r.readIdent()
		if name == "" {
			return nil, &syntaxError{fmt.Sprintf("expected a field name at %q", firstLine(r.src[r.pos:]))}
		}
		r.skipSpace()
		if r.eof() || r.peek() != '=' {
			return nil, &syntaxError{fmt.Sprintf("expected '=' after field %s", name)}
		}
		r.advance()

		value, err := r.readValue()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field{name: name, value: value})
	}
}

// readValue reads a value made of braced, quoted, numeric or macro parts
// joined by '#'.
func (r *Reader) readValue() (string, error) {
	var b strings.Builder
	for {
		r.skipSpace()
		if r.eof() {
			return "", fmt.Errorf("%w: missing value", types.ErrBadEntry)
		}
		switch c := r.peek(); {
		case c == '{':
			s, err := r.readDelimited('{', '}')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case c == '"':
			s, err := r.readDelimited('"', '"')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case isIdentByte(c):
			ident := r.readIdent()
			if v, ok := r.macros[strings.ToLower(ident)]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(ident)
			}
		default:
			return "", &syntaxError{fmt.Sprintf("unexpected %q in value", c)}
		}

		r.skipSpace()
		if r.eof() || r.peek() != '#' {
			return b.String(), nil
		}
		r.advance()
	}
}

// readDelimited reads a braced or quoted value and returns its content
// without the outer delimiters. Nested braces are kept; a quote only closes
// the value outside braces.
func (r *Reader) readDelimited(open, closeDelim byte) (string, error) {
	startLine := r.line
	r.advance()
	start := r.pos
	depth := 0
	for !r.eof() {
		switch c := r.peek(); {
		case c == '\\':
			r.advance()
		case c == '{':
			depth++
		case c == '}' && (open == '"' || depth > 0):
			depth--
			if depth < 0 {
				return "", fmt.Errorf("%w: unbalanced braces in value starting on line %d", types.ErrBadEntry, startLine)
			}
		case c == closeDelim && depth == 0:
			s := r.src[start:r.pos]
			r.advance()
			return s, nil
		}
		if !r.eof() {
			r.advance()
		}
	}
	return "", fmt.Errorf("%w: unterminated value starting on line %d", types.ErrBadEntry, startLine)
}

// skipBalanced skips a delimited @comment or @preamble body.
func (r *Reader) skipBalanced() error {
	open := r.peek()
	closeDelim := byte('}')
	if open == '(' {
		closeDelim = ')'
	}
	depth := 0
	for !r.eof() {
		c := r.peek()
		r.advance()
		switch c {
		case open:
			depth++
		case closeDelim:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: unterminated block", types.ErrBadEntry)
}

// readKey reads the citation key and the comma after it.
func (r *Reader) readKey(closer byte) string {
	start := r.pos
	for !r.eof() && r.peek() != ',' && r.peek() != closer && r.peek() != '\n' {
		r.advance()
	}
	key := strings.TrimSpace(r.src[start:r.pos])
	if !r.eof() && r.peek() == ',' {
		r.advance()
	}
	return key
}

func (r *Reader) readIdent() string {
	start := r.pos
	for !r.eof() && isIdentByte(r.peek()) {
		r.advance()
	}
	return r.src[start:r.pos]
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-' || c == ':' || c == '.' || c == '+' || c == '/'
}

func (r *Reader) atDelimiter() bool {
	return !r.eof() && (r.peek() == '{' || r.peek() == '(')
}

func (r *Reader) eof() bool { return r.pos >= len(r.src) }

func (r *Reader) peek() byte { return r.src[r.pos] }

func (r *Reader) advance() {
	if r.src[r.pos] == '\n' {
		r.line++
	}
	r.pos++
}

func (r *Reader) advanceTo(pos int) {
	for r.pos < pos {
		r.advance()
	}
}

func (r *Reader) skipSpace() {
	for !r.eof() && isSpace(r.peek()) {
		r.advance()
	}
}

func (r *Reader) skipBlanks() {
	for !r.eof() && (r.peek() == ' ' || r.peek() == '\t') {
		r.advance()
	}
}

func (r *Reader) skipSpaceAndCommas() {
	for !r.eof() && (isSpace(r.peek()) || r.peek() == ',') {
		r.advance()
	}
}

func (r *Reader) skipLine() {
	for !r.eof() && r.peek() != '\n' {
		r.advance()
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func (r *Reader) report(kind types.DiagnosticKind, tag string, line int, msg string) {
	r.diags = append(r.diags, types.Diagnostic{File: r.file, Line: line, Tag: tag, Kind: kind, Message: msg})
	r.logger.Warn(msg,
		zap.String("file", r.file),
		zap.Int("line", line),
		zap.String("tag", tag),
		zap.String("kind", string(kind)),
	)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}
