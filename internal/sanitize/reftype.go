// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sanitize

import "strings"

// Reference type labels shared by every reader. Type-specific field
// overrides and CSL mapping key on these labels.
const (
	TypeJournal           = "journal"
	TypeElectronicArticle = "electronic article"
	TypeMagazine          = "magazine article"
	TypeNewspaper         = "newspaper"
	TypeJournalFull       = "journal (full)"
	TypeInPress           = "in press"
	TypeBook              = "whole book"
	TypeEditedBook        = "edited book"
	TypeElectronicBook    = "electronic book"
	TypeChapter           = "book chapter"
	TypeElectronicChapter = "electronic book section"
	TypeConference        = "conference proceeding"
	TypeConferencePaper   = "conference paper"
	TypeThesis            = "thesis/dissertation"
	TypeReport            = "report"
	TypePatent            = "patent"
	TypeManuscript        = "manuscript"
	TypeUnpublished       = "unpublished work"
	TypeWebPage           = "web page"
	TypeGeneric           = "generic"
	TypeSerial            = "serial publication"
)

// referenceTypes maps line-format reference type codes to labels.
var referenceTypes = map[string]string{
	"ABST":    "abstract",
	"ADVS":    "audiovisual material",
	"AGGR":    "aggregated database",
	"ANCIENT": "ancient text",
	"ART":     "art work",
	"BILL":    "bill",
	"BLOG":    "blog",
	"BOOK":    TypeBook,
	"CASE":    "case",
	"CHAP":    TypeChapter,
	"CHART":   "chart",
	"CLSWK":   "classical work",
	"COMP":    "computer program",
	"CONF":    TypeConference,
	"CPAPER":  TypeConferencePaper,
	"CTLG":    "catalog",
	"DATA":    "data file",
	"DBASE":   "online database",
	"DICT":    "dictionary",
	"EBOOK":   TypeElectronicBook,
	"ECHAP":   TypeElectronicChapter,
	"EDBOOK":  TypeEditedBook,
	"EJOUR":   TypeElectronicArticle,
	"ELEC":    TypeWebPage,
	"ENCYC":   "encyclopedia",
	"EQUA":    "equation",
	"FIGURE":  "figure",
	"GEN":     TypeGeneric,
	"GOVDOC":  "government document",
	"GRANT":   "grant",
	"HEAR":    "hearing",
	"ICOMM":   "internet communication",
	"INPR":    TypeInPress,
	"JFULL":   TypeJournalFull,
	"JOUR":    TypeJournal,
	"LEGAL":   "legal rule or regulation",
	"MANSCPT": TypeManuscript,
	"MAP":     "map",
	"MGZN":    TypeMagazine,
	"MPCT":    "motion picture",
	"MULTI":   "online multimedia",
	"MUSIC":   "music score",
	"NEWS":    TypeNewspaper,
	"PAMP":    "pamphlet",
	"PAT":     TypePatent,
	"PCOMM":   "personal communication",
	"RPRT":    TypeReport,
	"SER":     TypeSerial,
	"SLIDE":   "slide",
	"SOUND":   "sound recording",
	"STAND":   "standard",
	"STAT":    "statute",
	"THES":    TypeThesis,
	"UNBILL":  "unenacted bill",
	"UNPB":    TypeUnpublished,
	"VIDEO":   "video recording",
	"WEB":     TypeWebPage,
}

// ReferenceType maps a type code such as "JOUR" to its label. Codes not in
// the table pass through lowercased, so labels map to themselves.
func ReferenceType(code string) string {
	code = Text(code)
	if label, ok := referenceTypes[strings.ToUpper(code)]; ok {
		return label
	}
	return strings.ToLower(code)
}
