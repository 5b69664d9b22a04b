// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reference-ingest/internal/sanitize"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	TitleShort     string    `yaml:"title-short,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	Editor         []CSLName `yaml:"editor,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Collection     string    `yaml:"collection-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Number         string    `yaml:"number,omitempty"`
	Genre          string    `yaml:"genre,omitempty"`
	Edition        string    `yaml:"edition,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	PublisherPlace string    `yaml:"publisher-place,omitempty"`
	Language       string    `yaml:"language,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	Accessed       *CSLDate  `yaml:"accessed,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	ISBN           string    `yaml:"ISBN,omitempty"`
	ISSN           string    `yaml:"ISSN,omitempty"`
	PMID           string    `yaml:"PMID,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps reference type labels to CSL item types. Unlisted labels
// become "document".
var cslTypes = map[string]string{
	sanitize.TypeJournal:           "article-journal",
	sanitize.TypeElectronicArticle: "article-journal",
	sanitize.TypeJournalFull:       "periodical",
	sanitize.TypeSerial:            "periodical",
	sanitize.TypeInPress:           "article-journal",
	sanitize.TypeMagazine:          "article-magazine",
	sanitize.TypeNewspaper:         "article-newspaper",
	sanitize.TypeBook:              "book",
	sanitize.TypeEditedBook:        "book",
	sanitize.TypeElectronicBook:    "book",
	sanitize.TypeChapter:           "chapter",
	sanitize.TypeElectronicChapter: "chapter",
	sanitize.TypeConference:        "book",
	sanitize.TypeConferencePaper:   "paper-conference",
	sanitize.TypeThesis:            "thesis",
	sanitize.TypeReport:            "report",
	sanitize.TypePatent:            "patent",
	sanitize.TypeManuscript:        "manuscript",
	sanitize.TypeUnpublished:       "manuscript",
	sanitize.TypeWebPage:           "webpage",
}

// FormatCSL writes records as a CSL-YAML list to w.
func FormatCSL(w io.Writer, records []types.Record) error {
	items := make([]CSLItem, len(records))
	for i, rec := range records {
		items[i] = toCSLItem(rec, i)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a record to a CSLItem. index numbers records that have
// neither a citation key nor a DOI.
func toCSLItem(rec types.Record, index int) CSLItem {
	item := CSLItem{
		ID:             rec.Text(types.FieldCitationKey),
		Type:           cslType(rec.Text(types.FieldTypeOfReference)),
		Title:          rec.Text(types.FieldTitle),
		TitleShort:     rec.Text(types.FieldShortTitle),
		ContainerTitle: firstText(rec, types.FieldJournalName, types.FieldBookTitle, types.FieldConferenceName, types.FieldSecondaryTitle),
		Collection:     firstText(rec, types.FieldSeriesTitle, types.FieldSeries),
		Volume:         rec.Text(types.FieldVolume),
		Issue:          rec.Text(types.FieldIssueNumber),
		Number:         firstText(rec, types.FieldReportNumber, types.FieldPatentNumber),
		Genre:          firstText(rec, types.FieldThesisType, types.FieldTypeOfWork),
		Edition:        rec.Text(types.FieldEdition),
		Publisher:      firstText(rec, types.FieldPublisher, types.FieldInstitution),
		PublisherPlace: rec.Text(types.FieldPlacePublished),
		Language:       rec.Text(types.FieldLanguage),
		Abstract:       rec.Text(types.FieldAbstract),
		Keyword:        strings.Join(rec.List(types.FieldKeywords), ", "),
		Issued:         issued(rec),
		DOI:            rec.Text(types.FieldDOI),
		ISBN:           rec.Text(types.FieldISBN),
		ISSN:           rec.Text(types.FieldISSN),
		PMID:           rec.Text(types.FieldPubmedID),
	}
	if item.ID == "" {
		item.ID = item.DOI
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("ref%d", index+1)
	}

	for _, a := range rec.List(types.FieldAuthors) {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	for _, e := range rec.List(types.FieldEditors) {
		item.Editor = append(item.Editor, parseAuthorName(e))
	}

	if start := rec.Text(types.FieldStartPage); start != "" {
		item.Page = start
		if end := rec.Text(types.FieldEndPage); end != "" {
			item.Page += "-" + end
		}
	}
	if urls := rec.List(types.FieldURLs); len(urls) > 0 {
		item.URL = urls[0]
	}
	if v, ok := rec.Get(types.FieldAccessDate); ok && v.Kind == types.KindDate {
		item.Accessed = &CSLDate{DateParts: [][]int{{v.Date.Year(), int(v.Date.Month()), v.Date.Day()}}}
	}

	return item
}

func cslType(label string) string {
	if t, ok := cslTypes[label]; ok {
		return t
	}
	return "document"
}

// issued prefers a full publication date and falls back to year and month.
func issued(rec types.Record) *CSLDate {
	for _, field := range []string{types.FieldPublicationDate, types.FieldDate} {
		if v, ok := rec.Get(field); ok && v.Kind == types.KindDate {
			return &CSLDate{DateParts: [][]int{{v.Date.Year(), int(v.Date.Month()), v.Date.Day()}}}
		}
	}
	year, ok := rec.Int(types.FieldPubYear)
	if !ok {
		return nil
	}
	parts := []int{year}
	if month, ok := rec.Int(types.FieldPubMonth); ok {
		parts = append(parts, month)
	}
	return &CSLDate{DateParts: [][]int{parts}}
}

func firstText(rec types.Record, fields ...string) string {
	for _, f := range fields {
		if s := rec.Text(f); s != "" {
			return s
		}
	}
	return ""
}

// parseAuthorName splits a name into CSL family/given parts. "Family, Given"
// splits on the first comma; otherwise everything before the last space is
// given and the last token is family. Single-token names use the literal
// field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{
			Family: strings.TrimSpace(family),
			Given:  strings.TrimSpace(given),
		}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
