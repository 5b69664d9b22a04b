// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tags

import (
	"github.com/pdiddy/reference-ingest/internal/sanitize"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// RIS is the standard line-format vocabulary. It serves both the "ris" and
// "ris-loose" dialects, which differ only in delimiters.
var RIS = &Dictionary{
	Name: "ris",
	Fields: map[string]string{
		"TY": types.FieldTypeOfReference,
		"A1": types.FieldFirstAuthors,
		"A2": types.FieldSecondaryAuthors,
		"A3": types.FieldTertiaryAuthors,
		"A4": types.FieldSubsidiaryAuthors,
		"AU": types.FieldAuthors,
		"AB": types.FieldAbstract,
		"AD": types.FieldAuthorAddress,
		"AN": types.FieldAccessionNumber,
		"BT": types.FieldSecondaryTitle,
		"C1": types.FieldCustom1,
		"C2": types.FieldCustom2,
		"C3": types.FieldCustom3,
		"C4": types.FieldCustom4,
		"C5": types.FieldCustom5,
		"C6": types.FieldCustom6,
		"C7": types.FieldCustom7,
		"C8": types.FieldCustom8,
		"CA": types.FieldCaption,
		"CN": types.FieldCallNumber,
		"CY": types.FieldPlacePublished,
		"DA": types.FieldDate,
		"DB": types.FieldNameOfDatabase,
		"DO": types.FieldDOI,
		"DP": types.FieldDatabaseProvider,
		"ED": types.FieldEditors,
		"ET": types.FieldEdition,
		"EP": types.FieldEndPage,
		"ID": types.FieldLabel,
		"IS": types.FieldIssueNumber,
		"J1": types.FieldAlternateTitle1,
		"J2": types.FieldAlternateTitle2,
		"JA": types.FieldAlternateTitle3,
		"JF": types.FieldAlternateTitle1,
		"JO": types.FieldJournalName,
		"KW": types.FieldKeywords,
		"L1": types.FieldFileAttachments1,
		"L2": types.FieldFileAttachments2,
		"L4": types.FieldFigure,
		"LA": types.FieldLanguage,
		"LB": types.FieldLabel,
		"M1": types.FieldNote,
		"M2": types.FieldMisc2,
		"M3": types.FieldTypeOfWork,
		"N1": types.FieldNotes,
		"N2": types.FieldNotesAbstract,
		"NV": types.FieldNumberOfVolumes,
		"OP": types.FieldOriginalPub,
		"PB": types.FieldPublisher,
		"PY": types.FieldPubYear,
		"RI": types.FieldReviewedItem,
		"RN": types.FieldResearchNotes,
		"RP": types.FieldReprintEdition,
		"SE": types.FieldSection,
		"SN": types.FieldISSN,
		"SP": types.FieldStartPage,
		"ST": types.FieldShortTitle,
		"T1": types.FieldPrimaryTitle,
		"T2": types.FieldSecondaryTitle,
		"T3": types.FieldTertiaryTitle,
		"TA": types.FieldTranslatedAuthors,
		"TI": types.FieldTitle,
		"TT": types.FieldTranslatedTitle,
		"UR": types.FieldURLs,
		"VL": types.FieldVolume,
		"Y1": types.FieldPublicationDate,
		"Y2": types.FieldAccessDate,
	},
	Multi:   set("A1", "A2", "A3", "A4", "AU", "ED", "TA", "KW", "L1", "L2", "L4", "N1", "UR"),
	Ignore:  set(),
	Start:   set("TY"),
	End:     "ER",
	TypeTag: "TY",
	Overrides: overrides(
		typeOverride{JournalTypes, map[string]string{"M1": types.FieldArticleNumber}},
		typeOverride{BookTypes, map[string]string{"M1": types.FieldSeriesVolume, "T2": types.FieldSeriesTitle}},
		typeOverride{ChapterTypes, map[string]string{"T2": types.FieldBookTitle, "SE": types.FieldChapter}},
		typeOverride{ConferenceTypes, map[string]string{"T2": types.FieldConferenceName}},
		typeOverride{[]string{sanitize.TypeThesis}, map[string]string{"PB": types.FieldInstitution, "M3": types.FieldThesisType}},
		typeOverride{[]string{sanitize.TypeReport}, map[string]string{"IS": types.FieldReportNumber}},
		typeOverride{[]string{sanitize.TypePatent}, map[string]string{"IS": types.FieldPatentNumber}},
	),
	Alternates: commonAlternates,
}
