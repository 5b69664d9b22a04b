// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

const sample = `% exported by a reference manager
@string{jrev = "Journal of Reviews"}

@preamble{"\newcommand{\noopsort}[1]{}"}

@Article{smith2020,
  author    = {Smith, J. and Doe,
               A.},
  title     = {Screening {Automation} in Systematic Reviews},
  journal   = jrev,
  year      = 2020,
  month     = mar,
  pages     = {123--145},
  doi       = {10.1000/XYZ},
  keywords  = {screening, automation; reviews},
}

@comment{ignored {nested} text}

@book(brown2018,
  author = "Brown, K{\"o}nig and {Barnes and Noble}",
  title = "A " # "book",
  series = {Series},
  year = {2018}
)
`

func collect(t *testing.T, r *Reader) []types.Record {
	t.Helper()
	var out []types.Record
	for rec, err := range r.All() {
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestReader_Sample(t *testing.T) {
	r := NewReader(sample, WithFile("refs.bib"))
	recs := collect(t, r)
	require.Len(t, recs, 2)
	assert.Empty(t, r.Diagnostics())

	art := recs[0]
	assert.Equal(t, "journal", art.Text(types.FieldTypeOfReference))
	assert.Equal(t, "smith2020", art.Text(types.FieldCitationKey))
	assert.Equal(t, []string{"Doe, A.", "Smith, J."}, art.List(types.FieldAuthors))
	assert.Equal(t, "Screening Automation in Systematic Reviews", art.Text(types.FieldTitle))
	assert.Equal(t, "Journal of Reviews", art.Text(types.FieldJournalName))
	y, _ := art.Int(types.FieldPubYear)
	assert.Equal(t, 2020, y)
	m, _ := art.Int(types.FieldPubMonth)
	assert.Equal(t, 3, m)
	assert.Equal(t, "123", art.Text(types.FieldStartPage))
	assert.Equal(t, "145", art.Text(types.FieldEndPage))
	assert.Equal(t, "10.1000/xyz", art.Text(types.FieldDOI))
	assert.Equal(t, []string{"automation", "reviews", "screening"}, art.List(types.FieldKeywords))
	assert.Equal(t, types.Source{File: "refs.bib", Format: "bibtex", Line: 6}, art.Source)

	book := recs[1]
	assert.Equal(t, "whole book", book.Text(types.FieldTypeOfReference))
	assert.Equal(t, []string{"Barnes and Noble", "Brown, König"}, book.List(types.FieldAuthors))
	assert.Equal(t, "A book", book.Text(types.FieldTitle))
	assert.Equal(t, "Series", book.Text(types.FieldSeries))
}

func TestReader_UnknownFieldPreserved(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewReader("@misc{k, title = {T}, mendeley-tags = {x}}", WithLogger(zap.New(core)))
	recs := collect(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"x"}, recs[0].Other["mendeley-tags"])
	require.Len(t, r.Diagnostics(), 1)
	assert.Equal(t, types.DiagUnknownTag, r.Diagnostics()[0].Kind)
	assert.Equal(t, 1, logs.Len())
}

func TestReader_DuplicateKeepsFirst(t *testing.T) {
	r := NewReader("@misc{k, title = {First}, title = {Second}}")
	recs := collect(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, "First", recs[0].Text(types.FieldTitle))
	require.Len(t, r.Diagnostics(), 1)
	assert.Equal(t, types.DiagDuplicateTag, r.Diagnostics()[0].Kind)
}

func TestReader_MalformedEntrySkipped(t *testing.T) {
	input := "@article{bad,\n  title {missing equals}\n}\n@article{good,\n  title = {Good}\n}\n"
	r := NewReader(input)
	recs := collect(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, "Good", recs[0].Text(types.FieldTitle))
	require.Len(t, r.Diagnostics(), 1)
	assert.Equal(t, types.DiagSkippedEntry, r.Diagnostics()[0].Kind)
	assert.Equal(t, 1, r.Diagnostics()[0].Line)
}

func TestReader_TextBetweenEntriesIgnored(t *testing.T) {
	input := `Exported for jane.doe@example.org on request.
% contact: refs@example.org, or ask @librarian
@article{first, title = {First}}
Notes between entries mention @misc without braces.
  @book{second, title = {Second}}
`
	r := NewReader(input)
	recs := collect(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "First", recs[0].Text(types.FieldTitle))
	assert.Equal(t, 3, recs[0].Source.Line)
	assert.Equal(t, "Second", recs[1].Text(types.FieldTitle))
	assert.Equal(t, 5, recs[1].Source.Line)
	assert.Empty(t, r.Diagnostics())
}

func TestReader_UnterminatedIsFatal(t *testing.T) {
	input := "@article{ok, title = {Fine}}\n\n@article{broken,\n  title = {Never closed\n"
	r := NewReader(input, WithFile("broken.bib"))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Fine", rec.Text(types.FieldTitle))

	_, err = r.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrBadEntry))
	var pe *types.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "broken.bib", pe.File)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, "@article{broken,", pe.Content)

	_, again := r.Next()
	assert.Equal(t, err, again)
}

func TestReader_Empty(t *testing.T) {
	r := NewReader("no entries here\n")
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_ThesisType(t *testing.T) {
	recs := collect(t, NewReader("@phdthesis{t, title = {T}, school = {MIT}, year = 2001}"))
	require.Len(t, recs, 1)
	assert.Equal(t, "thesis/dissertation", recs[0].Text(types.FieldTypeOfReference))
	assert.Equal(t, "PhD thesis", recs[0].Text(types.FieldThesisType))
	assert.Equal(t, "MIT", recs[0].Text(types.FieldInstitution))
}

func TestNewReaderBytes(t *testing.T) {
	data := []byte("@misc{k, author = {M\xfcller, K.}}")
	r, err := NewReaderBytes(data, []string{"utf-8", "windows-1252"})
	require.NoError(t, err)
	recs := collect(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"Müller, K."}, recs[0].List(types.FieldAuthors))

	_, err = NewReaderBytes(data, []string{"utf-8"}, WithFile("latin.bib"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNoEncoding)
	var pe *types.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "latin.bib", pe.File)
}
