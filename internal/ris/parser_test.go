// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ris

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

const twoRecords = `TY  - JOUR
AU  - Smith, J.
AU  - Doe, A.
TI  - Screening automation in systematic reviews
JO  - Journal of Reviews
PY  - 2020///
SP  - 123-145
KW  - screening
KW  - automation
ER  -

TY  - BOOK
AU  - Brown, K.
TI  - A book
M1  - 3
T2  - Series Name
PY  - 2018
ER  -
`

// collect drains a parser, failing the test on a fatal error.
func collect(t *testing.T, p *Parser) []types.Record {
	t.Helper()
	var out []types.Record
	for rec, err := range p.All() {
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestParser_TwoRecords(t *testing.T) {
	p := NewParser(strings.NewReader(twoRecords), WithFile("refs.ris"))
	recs := collect(t, p)
	require.Len(t, recs, 2)
	assert.Equal(t, "ris", p.Dialect().Name)
	assert.Empty(t, p.Diagnostics())

	first := recs[0]
	assert.Equal(t, "journal", first.Text(types.FieldTypeOfReference))
	assert.Equal(t, []string{"Doe, A.", "Smith, J."}, first.List(types.FieldAuthors))
	assert.Equal(t, "Screening automation in systematic reviews", first.Text(types.FieldTitle))
	assert.Equal(t, "123", first.Text(types.FieldStartPage))
	assert.Equal(t, "145", first.Text(types.FieldEndPage))
	assert.Equal(t, []string{"automation", "screening"}, first.List(types.FieldKeywords))
	assert.Equal(t, types.Source{File: "refs.ris", Format: "ris", Dialect: "ris", Line: 1}, first.Source)

	second := recs[1]
	assert.Equal(t, "whole book", second.Text(types.FieldTypeOfReference))
	assert.Equal(t, "3", second.Text(types.FieldSeriesVolume))
	assert.Equal(t, "Series Name", second.Text(types.FieldSeriesTitle))
	assert.Equal(t, 12, second.Source.Line)
}

func TestParser_RecordCountEqualsEndTags(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 25; i++ {
		b.WriteString("TY  - GEN\nTI  - Item\nER  -\n")
	}
	recs := collect(t, NewParser(strings.NewReader(b.String())))
	assert.Len(t, recs, strings.Count(b.String(), "ER  -"))
}

func TestParser_Next(t *testing.T) {
	p := NewParser(strings.NewReader("TY  - JOUR\nTI  - One\nER  -\n"))
	rec, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "One", rec.Text(types.FieldTitle))

	_, err = p.Next()
	assert.Equal(t, io.EOF, err)
	_, err = p.Next()
	assert.Equal(t, io.EOF, err)
}

func TestParser_EmptyInput(t *testing.T) {
	p := NewParser(strings.NewReader("\n\n  \n"))
	_, err := p.Next()
	assert.Equal(t, io.EOF, err)
	assert.Nil(t, p.Dialect())
}

func TestParser_FatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		line    int
		content string
	}{
		{
			name:    "end before start",
			input:   "TY  - JOUR\nER  -\nER  -\n",
			wantErr: types.ErrNotInRecord,
			line:    3,
			content: "ER  -",
		},
		{
			name:    "end as first tag",
			input:   "\nER  -\n",
			wantErr: types.ErrNotInRecord,
			line:    2,
			content: "ER  -",
		},
		{
			name:    "start inside record",
			input:   "TY  - JOUR\nTI  - A\nTY  - BOOK\n",
			wantErr: types.ErrAlreadyInRecord,
			line:    3,
			content: "TY  - BOOK",
		},
		{
			name:    "tag outside record",
			input:   "TY  - JOUR\nER  -\nTI  - stray\n",
			wantErr: types.ErrNotInRecord,
			line:    3,
			content: "TI  - stray",
		},
		{
			name:    "truncated",
			input:   "TY  - JOUR\nTI  - A\n",
			wantErr: types.ErrTruncated,
			line:    2,
		},
		{
			name:    "no dialect",
			input:   "Reference list\nTY  - JOUR\n",
			wantErr: types.ErrNoDialect,
			line:    1,
			content: "Reference list",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(strings.NewReader(tt.input), WithFile("bad.ris"))
			var err error
			for _, e := range p.All() {
				if e != nil {
					err = e
				}
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var pe *types.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "bad.ris", pe.File)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.content, pe.Content)

			// The error is sticky.
			_, again := p.Next()
			assert.Equal(t, err, again)
		})
	}
}

func TestParser_FatalErrorAfterRecords(t *testing.T) {
	p := NewParser(strings.NewReader("TY  - JOUR\nTI  - A\nER  -\nTY  - JOUR\nTI  - B\n"))
	rec, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "A", rec.Text(types.FieldTitle))

	_, err = p.Next()
	assert.ErrorIs(t, err, types.ErrTruncated)
}

func TestParser_UnknownTagPreserved(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewParser(strings.NewReader("TY  - JOUR\nTI  - A\nZZ  - some value\nER  -\n"), WithLogger(zap.New(core)))
	recs := collect(t, p)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"some value"}, recs[0].Other["ZZ"])

	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, types.DiagUnknownTag, diags[0].Kind)
	assert.Equal(t, "ZZ", diags[0].Tag)
	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, 1, logs.FilterField(zap.String("tag", "ZZ")).Len())
}

func TestParser_UnknownTagAfterMultiIsContinuation(t *testing.T) {
	input := "TY  - JOUR\nKW  - first\nZZ  - looks like a tag\nER  -\n"
	p := NewParser(strings.NewReader(input))
	recs := collect(t, p)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"ZZ - looks like a tag", "first"}, recs[0].List(types.FieldKeywords))
	assert.Empty(t, recs[0].Other)
	require.Len(t, p.Diagnostics(), 1)
	assert.Equal(t, types.DiagContinuation, p.Diagnostics()[0].Kind)
}

func TestParser_DuplicateKeepsFirst(t *testing.T) {
	p := NewParser(strings.NewReader("TY  - JOUR\nTI  - First\nTI  - Second\nER  -\n"))
	recs := collect(t, p)
	require.Len(t, recs, 1)
	assert.Equal(t, "First", recs[0].Text(types.FieldTitle))

	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, types.DiagDuplicateTag, diags[0].Kind)
	assert.Equal(t, 3, diags[0].Line)
}

func TestParser_Continuations(t *testing.T) {
	long := strings.Repeat("word ", 16) // 80 characters
	input := "TY  - JOUR\n" +
		"AU  - Smith, J.\n" +
		"Doe, A.\n" + // multi-valued previous tag
		"TI  - A title that\n" +
		"   wraps with indentation\n" +
		"AB  - " + long + "\n" +
		"continues after a long line\n" +
		"PB  - Short\n" +
		"orphan text\n" +
		"ER  -\n"
	p := NewParser(strings.NewReader(input))
	recs := collect(t, p)
	require.Len(t, recs, 1)
	rec := recs[0]

	assert.Equal(t, []string{"Doe, A.", "Smith, J."}, rec.List(types.FieldAuthors))
	assert.Equal(t, "A title that wraps with indentation", rec.Text(types.FieldTitle))
	assert.Equal(t, strings.TrimSpace(long)+" continues after a long line", rec.Text(types.FieldAbstract))
	assert.Equal(t, "Short", rec.Text(types.FieldPublisher))

	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, types.DiagUnparseableLine, diags[0].Kind)
	assert.Equal(t, 9, diags[0].Line)
}

func TestParser_WrapThreshold(t *testing.T) {
	input := "TY  - JOUR\nTI  - 0123456789 0123456789\nmore\nER  -\n"

	recs := collect(t, NewParser(strings.NewReader(input), WithWrapThreshold(20)))
	require.Len(t, recs, 1)
	assert.Equal(t, "0123456789 0123456789 more", recs[0].Text(types.FieldTitle))

	recs = collect(t, NewParser(strings.NewReader(input)))
	require.Len(t, recs, 1)
	assert.Equal(t, "0123456789 0123456789", recs[0].Text(types.FieldTitle))
}

// Multi-valued fields come out sorted whatever the physical line order.
func TestParser_MultiValueOrderIndependent(t *testing.T) {
	a := "TY  - JOUR\nAU  - Zed, Z.\nAU  - Adams, A.\nAU  - Moss, M.\nER  -\n"
	b := "TY  - JOUR\nAU  - Moss, M.\nAU  - Zed, Z.\nAU  - Adams, A.\nER  -\n"
	ra := collect(t, NewParser(strings.NewReader(a)))
	rb := collect(t, NewParser(strings.NewReader(b)))
	require.Len(t, ra, 1)
	require.Len(t, rb, 1)
	if diff := cmp.Diff(ra[0].Fields, rb[0].Fields); diff != "" {
		t.Errorf("fields differ (-a +b):\n%s", diff)
	}
}

func TestParser_WebOfScience(t *testing.T) {
	input := "FN Clarivate Analytics Web of Science\n" +
		"VR 1.0\n" +
		"PT J\n" +
		"AU Smith, J\n" +
		"   Doe, A\n" +
		"TI Screening automation in\n" +
		"   systematic reviews\n" +
		"SO JOURNAL OF REVIEWS\n" +
		"PD MAR\n" +
		"PY 2020\n" +
		"BP 123\n" +
		"EP 145\n" +
		"DI 10.1000/XYZ\n" +
		"ER\n" +
		"\n" +
		"EF\n"
	p := NewParser(strings.NewReader(input), WithFile("savedrecs.txt"))
	recs := collect(t, p)
	require.Len(t, recs, 1)
	assert.Equal(t, "wok", p.Dialect().Name)
	assert.Empty(t, p.Diagnostics())

	rec := recs[0]
	assert.Equal(t, "journal", rec.Text(types.FieldTypeOfReference))
	assert.Equal(t, []string{"Doe, A", "Smith, J"}, rec.List(types.FieldAuthors))
	assert.Equal(t, "Screening automation in systematic reviews", rec.Text(types.FieldTitle))
	assert.Equal(t, "JOURNAL OF REVIEWS", rec.Text(types.FieldJournalName))
	m, _ := rec.Int(types.FieldPubMonth)
	assert.Equal(t, 3, m)
	assert.Equal(t, "10.1000/xyz", rec.Text(types.FieldDOI))
	assert.Equal(t, 3, rec.Source.Line)
}

func TestParser_LooseDialectAndForcedDialect(t *testing.T) {
	input := "TY - JOUR\nTI -Loose title\nER -\n"
	p := NewParser(strings.NewReader(input))
	recs := collect(t, p)
	require.Len(t, recs, 1)
	assert.Equal(t, "ris-loose", p.Dialect().Name)
	assert.Equal(t, "Loose title", recs[0].Text(types.FieldTitle))

	forced := NewParser(strings.NewReader(input), WithDialect(DialectRISLoose))
	assert.Len(t, collect(t, forced), 1)
}

func TestParser_CRLFAndBOM(t *testing.T) {
	input := "\ufeffTY  - JOUR\r\nTI  - Windows\r\nER  - \r\n"
	recs := collect(t, NewParser(strings.NewReader(input)))
	require.Len(t, recs, 1)
	assert.Equal(t, "Windows", recs[0].Text(types.FieldTitle))
}

func TestParser_EarlyStop(t *testing.T) {
	p := NewParser(strings.NewReader(twoRecords))
	n := 0
	for _, err := range p.All() {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)

	// The remaining record is still available to a later pull.
	rec, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "A book", rec.Text(types.FieldTitle))
}
