// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Canonical field names shared by the line-format and BibTeX readers.
const (
	FieldTypeOfReference  = "type_of_reference"
	FieldTitle            = "title"
	FieldPrimaryTitle     = "primary_title"
	FieldSecondaryTitle   = "secondary_title"
	FieldTertiaryTitle    = "tertiary_title"
	FieldShortTitle       = "short_title"
	FieldTranslatedTitle  = "translated_title"
	FieldAlternateTitle1  = "alternate_title1"
	FieldAlternateTitle2  = "alternate_title2"
	FieldAlternateTitle3  = "alternate_title3"
	FieldJournalName      = "journal_name"
	FieldAbstract         = "abstract"
	FieldNotesAbstract    = "notes_abstract"
	FieldVolume           = "volume"
	FieldIssueNumber      = "issue_number"
	FieldPages            = "pages"
	FieldStartPage        = "start_page"
	FieldEndPage          = "end_page"
	FieldDOI              = "doi"
	FieldISSN             = "issn"
	FieldISBN             = "isbn"
	FieldPublisher        = "publisher"
	FieldPlacePublished   = "place_published"
	FieldLanguage         = "language"
	FieldEdition          = "edition"
	FieldSection          = "section"
	FieldLabel            = "label"
	FieldNote             = "note"
	FieldTypeOfWork       = "type_of_work"
	FieldAccessionNumber  = "accession_number"
	FieldCallNumber       = "call_number"
	FieldNameOfDatabase   = "name_of_database"
	FieldDatabaseProvider = "database_provider"
	FieldAuthorAddress    = "author_address"
	FieldCitationKey      = "citation_key"
	FieldArticleNumber    = "article_number"
	FieldSeriesVolume     = "series_volume"
	FieldSeriesTitle      = "series_title"
	FieldBookTitle        = "book_title"
	FieldConferenceName   = "conference_name"
	FieldChapter          = "chapter"
	FieldThesisType       = "thesis_type"
	FieldReportNumber     = "report_number"
	FieldPatentNumber     = "patent_number"
	FieldInstitution      = "institution"
	FieldSeries           = "series"
	FieldOrganization     = "organization"
	FieldHowPublished     = "how_published"
	FieldCaption          = "caption"
	FieldResearchNotes    = "research_notes"
	FieldReprintEdition   = "reprint_edition"
	FieldReviewedItem     = "reviewed_item"
	FieldOriginalPub      = "original_publication"
	FieldCustom1          = "custom1"
	FieldCustom2          = "custom2"
	FieldCustom3          = "custom3"
	FieldCustom4          = "custom4"
	FieldCustom5          = "custom5"
	FieldCustom6          = "custom6"
	FieldCustom7          = "custom7"
	FieldCustom8          = "custom8"
	FieldMisc1            = "misc1"
	FieldMisc2            = "misc2"
	FieldMisc3            = "misc3"
	FieldTimesCited       = "times_cited"
	FieldPageCount        = "page_count"
	FieldPubmedID         = "pubmed_id"
	FieldSubjectAreas     = "subject_areas"
	FieldCategories       = "categories"
	FieldJournalAbbrev    = "journal_abbreviation"
	FieldDocumentType     = "document_type"

	FieldPubYear         = "pub_year"
	FieldPubMonth        = "pub_month"
	FieldNumberOfVolumes = "number_of_volumes"

	FieldDate            = "date"
	FieldPublicationDate = "publication_date"
	FieldAccessDate      = "access_date"

	FieldAuthors           = "authors"
	FieldFirstAuthors      = "first_authors"
	FieldSecondaryAuthors  = "secondary_authors"
	FieldTertiaryAuthors   = "tertiary_authors"
	FieldSubsidiaryAuthors = "subsidiary_authors"
	FieldTranslatedAuthors = "translated_authors"
	FieldEditors           = "editors"
	FieldKeywords          = "keywords"
	FieldURLs              = "urls"
	FieldNotes             = "notes"
	FieldFileAttachments1  = "file_attachments1"
	FieldFileAttachments2  = "file_attachments2"
	FieldFigure            = "figure"
	FieldCitedReferences   = "cited_references"
	FieldAuthorEmails      = "author_emails"
)

// schema lists every canonical field whose kind is not text. Any other
// canonical field name is text.
var schema = map[string]Kind{
	FieldPubYear:         KindInt,
	FieldPubMonth:        KindInt,
	FieldNumberOfVolumes: KindInt,

	FieldDate:            KindDate,
	FieldPublicationDate: KindDate,
	FieldAccessDate:      KindDate,

	FieldAuthors:           KindList,
	FieldFirstAuthors:      KindList,
	FieldSecondaryAuthors:  KindList,
	FieldTertiaryAuthors:   KindList,
	FieldSubsidiaryAuthors: KindList,
	FieldTranslatedAuthors: KindList,
	FieldEditors:           KindList,
	FieldKeywords:          KindList,
	FieldURLs:              KindList,
	FieldNotes:             KindList,
	FieldFileAttachments1:  KindList,
	FieldFileAttachments2:  KindList,
	FieldFigure:            KindList,
	FieldCitedReferences:   KindList,
	FieldAuthorEmails:      KindList,
}

// KindOf returns the kind of a canonical field.
func KindOf(field string) Kind {
	if k, ok := schema[field]; ok {
		return k
	}
	return KindText
}
