// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/reference-ingest/pkg/types"
)

func TestFieldFor(t *testing.T) {
	tests := []struct {
		name  string
		dict  *Dictionary
		label string
		tag   string
		want  string
	}{
		{"journal M1", RIS, "journal", "M1", types.FieldArticleNumber},
		{"book M1", RIS, "whole book", "M1", types.FieldSeriesVolume},
		{"book T2", RIS, "whole book", "T2", types.FieldSeriesTitle},
		{"chapter T2", RIS, "book chapter", "T2", types.FieldBookTitle},
		{"chapter SE", RIS, "book chapter", "SE", types.FieldChapter},
		{"conference T2", RIS, "conference paper", "T2", types.FieldConferenceName},
		{"thesis PB", RIS, "thesis/dissertation", "PB", types.FieldInstitution},
		{"report IS", RIS, "report", "IS", types.FieldReportNumber},
		{"patent IS", RIS, "patent", "IS", types.FieldPatentNumber},
		{"generic M1", RIS, "generic", "M1", types.FieldNote},
		{"no override", RIS, "journal", "TI", types.FieldTitle},
		{"bibtex report number", BibTeX, "report", "number", types.FieldReportNumber},
		{"bibtex number", BibTeX, "journal", "number", types.FieldIssueNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.dict.FieldFor(tt.label, tt.tag)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := RIS.FieldFor("journal", "ZZ")
	assert.False(t, ok)
}

func TestClassification(t *testing.T) {
	assert.True(t, RIS.IsStart("TY"))
	assert.True(t, RIS.IsEnd("ER"))
	assert.True(t, RIS.IsMulti("AU"))
	assert.False(t, RIS.IsMulti("TI"))
	assert.True(t, RIS.Known("ER"))
	assert.False(t, RIS.Known("ZZ"))

	assert.True(t, WOK.IsStart("PT"))
	assert.True(t, WOK.IsIgnored("FN"))
	assert.True(t, WOK.IsIgnored("EF"))
	assert.True(t, WOK.Known("VR"))

	assert.False(t, BibTeX.IsEnd(""))
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "journal", RIS.TypeLabel("JOUR"))
	assert.Equal(t, "journal", WOK.TypeLabel("J"))
	assert.Equal(t, "whole book", WOK.TypeLabel("B"))
	assert.Equal(t, "conference paper", BibTeX.TypeLabel("InProceedings"))
	assert.Equal(t, "thesis/dissertation", BibTeX.TypeLabel("phdthesis"))
	// Labels map to themselves.
	assert.Equal(t, "journal", BibTeX.TypeLabel(BibTeX.TypeLabel("article")))
}

// Every dictionary target must be a canonical field with a sane kind, and
// every multi tag must be mapped.
func TestDictionariesConsistent(t *testing.T) {
	for _, d := range []*Dictionary{RIS, WOK, BibTeX} {
		for tag := range d.Multi {
			_, ok := d.Fields[tag]
			assert.True(t, ok, "%s: multi tag %s has no field", d.Name, tag)
		}
		for tag := range d.Ignore {
			_, ok := d.Fields[tag]
			assert.False(t, ok, "%s: ignored tag %s is also mapped", d.Name, tag)
		}
		for _, a := range d.Alternates {
			assert.NotEmpty(t, a.From, "%s: alternate %s has no sources", d.Name, a.Field)
		}
	}
}

func TestAlternateApplies(t *testing.T) {
	var journal Alternate
	for _, a := range commonAlternates {
		if a.Field == types.FieldJournalName {
			journal = a
		}
	}
	assert.True(t, journal.Applies("journal"))
	assert.False(t, journal.Applies("whole book"))
	assert.True(t, Alternate{Field: "x"}.Applies("anything"))
}

func TestYearOf(t *testing.T) {
	v, ok := yearOf(types.DateValue(time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ok)
	assert.Equal(t, types.IntValue(2019), v)

	_, ok = yearOf(types.TextValue("2019"))
	assert.False(t, ok)

	_, ok = yearOf(types.DateValue(time.Date(0, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ok, "year 0 is not a publication year")
}
