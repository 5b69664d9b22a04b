// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ris parses tag-based line-format reference exports (RIS and its
// dialects, including the Web of Science field-tag format) into canonical
// records. A Parser reads one input sequentially and yields records lazily.
package ris

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/reference-ingest/internal/normalize"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// maxLineSize bounds a single physical line. Abstracts exported on one line
// can exceed bufio's default token size.
const maxLineSize = 4 * 1024 * 1024

type state int

const (
	outsideRecord state = iota
	insideRecord
)

// Option configures a Parser.
type Option func(*Parser)

// WithFile sets the file name reported in errors, diagnostics and record
// provenance.
func WithFile(name string) Option {
	return func(p *Parser) { p.file = name }
}

// WithDialect fixes the dialect instead of detecting it from the first line.
func WithDialect(d *Dialect) Option {
	return func(p *Parser) { p.dialect = d }
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithWrapThreshold sets the previous-line length above which an untagged
// line continues the previous value.
func WithWrapThreshold(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.wrapThreshold = n
		}
	}
}

// WithNormalizer sets the normalizer applied to each completed record.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(p *Parser) {
		if n != nil {
			p.normalizer = n
		}
	}
}

// Parser is the line-format record state machine. It owns all mutable parse
// state, so separate Parsers can run concurrently. A Parser is not safe for
// use by multiple goroutines.
type Parser struct {
	scanner       *bufio.Scanner
	file          string
	dialect       *Dialect
	logger        *zap.Logger
	normalizer    *normalize.Normalizer
	wrapThreshold int

	state     state
	raw       *types.RawRecord
	startLine int
	prevTag   string
	prevLen   int
	lineNo    int

	diags []types.Diagnostic
	err   error
}

// NewParser returns a Parser reading decoded text from r.
func NewParser(r io.Reader, opts ...Option) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	p := &Parser{
		scanner:       sc,
		logger:        zap.NewNop(),
		wrapThreshold: types.DefaultWrapThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.normalizer == nil {
		p.normalizer = normalize.New(p.logger)
	}
	return p
}

// Dialect returns the dialect in use, or nil before the first tagged line.
func (p *Parser) Dialect() *Dialect {
	return p.dialect
}

// Diagnostics returns the recoverable problems found so far.
func (p *Parser) Diagnostics() []types.Diagnostic {
	return p.diags
}

// Next returns the next completed record. It returns io.EOF when the input
// ends outside a record. Fatal format errors are returned as
// *types.ParseError; after any error, Next keeps returning that error.
func (p *Parser) Next() (types.Record, error) {
	if p.err != nil {
		return types.Record{}, p.err
	}

	for p.scanner.Scan() {
		p.lineNo++
		line := strings.TrimRight(p.scanner.Text(), "\r")
		if p.lineNo == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if p.dialect == nil {
			d, err := Detect(line, p.lineNo)
			if err != nil {
				var pe *types.ParseError
				if errors.As(err, &pe) {
					pe.File = p.file
				}
				return p.fail(err)
			}
			p.dialect = d
		}

		rec, done, err := p.processLine(line)
		p.prevLen = utf8.RuneCountInString(line)
		if err != nil {
			return p.fail(err)
		}
		if done {
			return rec, nil
		}
	}

	if err := p.scanner.Err(); err != nil {
		return p.fail(fmt.Errorf("reading %s: %w", p.file, err))
	}
	if p.state == insideRecord {
		return p.fail(&types.ParseError{File: p.file, Line: p.lineNo, Err: types.ErrTruncated})
	}
	p.err = io.EOF
	return types.Record{}, io.EOF
}

// All returns the records as a lazy sequence. The sequence ends after the
// first error; callers may stop early at any point.
func (p *Parser) All() iter.Seq2[types.Record, error] {
	return func(yield func(types.Record, error) bool) {
		for {
			rec, err := p.Next()
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

func (p *Parser) fail(err error) (types.Record, error) {
	p.err = err
	p.raw = nil
	return types.Record{}, err
}

func (p *Parser) fatal(line string, err error) error {
	return &types.ParseError{File: p.file, Line: p.lineNo, Content: line, Err: err}
}

// processLine applies one non-blank line to the state machine. It reports
// done when the line completed a record.
func (p *Parser) processLine(line string) (types.Record, bool, error) {
	dict := p.dialect.Dict
	tag, value, ok := p.dialect.Match(line)

	if ok {
		switch {
		case dict.IsIgnored(tag):
			p.prevTag = tag
			return types.Record{}, false, nil

		case dict.IsEnd(tag):
			if p.state != insideRecord {
				return types.Record{}, false, p.fatal(line, types.ErrNotInRecord)
			}
			rec := p.finishRecord()
			p.prevTag = tag
			return rec, true, nil

		case dict.IsStart(tag):
			if p.state == insideRecord {
				return types.Record{}, false, p.fatal(line, types.ErrAlreadyInRecord)
			}
			p.state = insideRecord
			p.raw = types.NewRawRecord()
			p.startLine = p.lineNo
			p.raw.Set(tag, value)
			p.prevTag = tag
			return types.Record{}, false, nil
		}

		if p.state != insideRecord {
			return types.Record{}, false, p.fatal(line, types.ErrNotInRecord)
		}

		switch {
		case dict.Known(tag):
			if dict.IsMulti(tag) {
				p.raw.Append(tag, value)
			} else if conflict := p.raw.Set(tag, value); conflict {
				first, _ := p.raw.Get(tag)
				p.report(types.DiagDuplicateTag, tag, fmt.Sprintf("duplicate %s, keeping first value %q and dropping %q", tag, first, value))
			}
			p.prevTag = tag

		case dict.IsMulti(p.prevTag):
			// A value that happens to look like a tag line.
			p.raw.Append(p.prevTag, strings.TrimSpace(line))
			p.report(types.DiagContinuation, tag, fmt.Sprintf("unknown tag %s read as a value of %s", tag, p.prevTag))

		default:
			p.raw.Append(tag, value)
			p.report(types.DiagUnknownTag, tag, fmt.Sprintf("unknown tag %s kept verbatim", tag))
			p.prevTag = tag
		}
		return types.Record{}, false, nil
	}

	text := strings.TrimSpace(line)
	switch {
	case p.state != insideRecord:
		p.report(types.DiagUnparseableLine, "", fmt.Sprintf("skipping line outside a record: %q", line))

	case p.dialect.Dict.IsMulti(p.prevTag):
		p.raw.Append(p.prevTag, text)

	case isIndented(line) || p.prevLen > p.wrapThreshold:
		if !p.raw.AppendToLast(p.prevTag, text) {
			p.report(types.DiagUnparseableLine, "", fmt.Sprintf("continuation without a previous value: %q", line))
		}

	default:
		p.report(types.DiagUnparseableLine, "", fmt.Sprintf("skipping unparseable line: %q", line))
	}
	return types.Record{}, false, nil
}

// finishRecord closes the open record and returns its canonical form.
func (p *Parser) finishRecord() types.Record {
	dict := p.dialect.Dict
	p.raw.SortMulti(dict.IsMulti)
	src := types.Source{
		File:    p.file,
		Format:  string(types.FormatRIS),
		Dialect: p.dialect.Name,
		Line:    p.startLine,
	}
	rec, diags := p.normalizer.Normalize(p.raw, dict, src)
	p.diags = append(p.diags, diags...)

	p.raw = nil
	p.state = outsideRecord
	return rec
}

func (p *Parser) report(kind types.DiagnosticKind, tag, msg string) {
	d := types.Diagnostic{File: p.file, Line: p.lineNo, Tag: tag, Kind: kind, Message: msg}
	p.diags = append(p.diags, d)
	p.logger.Warn(msg,
		zap.String("file", d.File),
		zap.Int("line", d.Line),
		zap.String("tag", tag),
		zap.String("kind", string(kind)),
	)
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
