// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tags

import (
	"github.com/pdiddy/reference-ingest/internal/sanitize"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// WOK is the Web of Science field-tag vocabulary. Files open with FN and VR
// header lines and close with EF; records run from PT to ER.
var WOK = &Dictionary{
	Name: "wok",
	Fields: map[string]string{
		"PT": types.FieldTypeOfReference,
		"AU": types.FieldAuthors,
		"AF": types.FieldFirstAuthors,
		"BE": types.FieldEditors,
		"TI": types.FieldTitle,
		"SO": types.FieldJournalName,
		"SE": types.FieldSeriesTitle,
		"LA": types.FieldLanguage,
		"DT": types.FieldDocumentType,
		"CT": types.FieldConferenceName,
		"DE": types.FieldKeywords,
		"ID": types.FieldKeywords,
		"AB": types.FieldAbstract,
		"C1": types.FieldAuthorAddress,
		"EM": types.FieldAuthorEmails,
		"CR": types.FieldCitedReferences,
		"TC": types.FieldTimesCited,
		"PU": types.FieldPublisher,
		"PI": types.FieldPlacePublished,
		"SN": types.FieldISSN,
		"BN": types.FieldISBN,
		"J9": types.FieldJournalAbbrev,
		"JI": types.FieldAlternateTitle3,
		"PD": types.FieldPubMonth,
		"PY": types.FieldPubYear,
		"VL": types.FieldVolume,
		"IS": types.FieldIssueNumber,
		"BP": types.FieldStartPage,
		"EP": types.FieldEndPage,
		"AR": types.FieldArticleNumber,
		"DI": types.FieldDOI,
		"PG": types.FieldPageCount,
		"WC": types.FieldCategories,
		"SC": types.FieldSubjectAreas,
		"UT": types.FieldAccessionNumber,
		"PM": types.FieldPubmedID,
	},
	Multi:   set("AU", "AF", "BE", "CR", "C1", "EM", "DE", "ID"),
	Ignore:  set("FN", "VR", "EF"),
	Start:   set("PT"),
	End:     "ER",
	TypeTag: "PT",
	TypeCodes: map[string]string{
		"j": sanitize.TypeJournal,
		"b": sanitize.TypeBook,
		"s": sanitize.TypeSerial,
		"p": sanitize.TypePatent,
		"c": sanitize.TypeConferencePaper,
	},
	Alternates: commonAlternates,
}
