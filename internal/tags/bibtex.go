// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tags

import (
	"github.com/pdiddy/reference-ingest/internal/sanitize"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// BibTeX entry pseudo-fields set by the reader.
const (
	BibEntryType = "ENTRYTYPE"
	BibKey       = "ID"
)

// BibTeX is the name/value citation vocabulary. Field names are matched in
// lowercase; the reader folds them before lookup.
var BibTeX = &Dictionary{
	Name: "bibtex",
	Fields: map[string]string{
		BibEntryType:   types.FieldTypeOfReference,
		BibKey:         types.FieldCitationKey,
		"author":       types.FieldAuthors,
		"editor":       types.FieldEditors,
		"title":        types.FieldTitle,
		"shorttitle":   types.FieldShortTitle,
		"journal":      types.FieldJournalName,
		"journaltitle": types.FieldJournalName,
		"booktitle":    types.FieldBookTitle,
		"year":         types.FieldPubYear,
		"month":        types.FieldPubMonth,
		"date":         types.FieldDate,
		"urldate":      types.FieldAccessDate,
		"volume":       types.FieldVolume,
		"number":       types.FieldIssueNumber,
		"issue":        types.FieldIssueNumber,
		"pages":        types.FieldStartPage,
		"doi":          types.FieldDOI,
		"issn":         types.FieldISSN,
		"isbn":         types.FieldISBN,
		"publisher":    types.FieldPublisher,
		"address":      types.FieldPlacePublished,
		"location":     types.FieldPlacePublished,
		"abstract":     types.FieldAbstract,
		"keywords":     types.FieldKeywords,
		"url":          types.FieldURLs,
		"note":         types.FieldNotes,
		"annote":       types.FieldResearchNotes,
		"language":     types.FieldLanguage,
		"edition":      types.FieldEdition,
		"series":       types.FieldSeries,
		"school":       types.FieldInstitution,
		"institution":  types.FieldInstitution,
		"organization": types.FieldOrganization,
		"howpublished": types.FieldHowPublished,
		"chapter":      types.FieldChapter,
		"type":         types.FieldTypeOfWork,
		"file":         types.FieldFileAttachments1,
	},
	Multi:   set("author", "editor", "keywords", "url", "file"),
	Ignore:  set(),
	Start:   set(),
	TypeTag: BibEntryType,
	TypeCodes: map[string]string{
		"article":       sanitize.TypeJournal,
		"periodical":    sanitize.TypeJournalFull,
		"book":          sanitize.TypeBook,
		"mvbook":        sanitize.TypeBook,
		"booklet":       "pamphlet",
		"inbook":        sanitize.TypeChapter,
		"incollection":  sanitize.TypeChapter,
		"inproceedings": sanitize.TypeConferencePaper,
		"conference":    sanitize.TypeConferencePaper,
		"proceedings":   sanitize.TypeConference,
		"mastersthesis": sanitize.TypeThesis,
		"phdthesis":     sanitize.TypeThesis,
		"thesis":        sanitize.TypeThesis,
		"techreport":    sanitize.TypeReport,
		"report":        sanitize.TypeReport,
		"manual":        sanitize.TypeGeneric,
		"misc":          sanitize.TypeGeneric,
		"unpublished":   sanitize.TypeUnpublished,
		"online":        sanitize.TypeWebPage,
		"electronic":    sanitize.TypeWebPage,
		"www":           sanitize.TypeWebPage,
		"patent":        sanitize.TypePatent,
	},
	Overrides: overrides(
		typeOverride{[]string{sanitize.TypeReport}, map[string]string{"number": types.FieldReportNumber}},
		typeOverride{[]string{sanitize.TypePatent}, map[string]string{"number": types.FieldPatentNumber}},
		typeOverride{[]string{sanitize.TypeThesis}, map[string]string{"type": types.FieldThesisType}},
	),
	Alternates: commonAlternates,
	NamesSplit: true,
}
