// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize coerces raw field text into typed values. Every function is
// pure and never panics; a value that cannot be coerced is reported through
// the boolean result and the caller decides whether to omit the field or keep
// the raw text. Each sanitizer is stable under re-application to its own
// output.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text trims the value and collapses runs of whitespace, including embedded
// newlines, to a single space.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Integer parses a base-10 integer after trimming whitespace.
func Integer(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Year parses the year out of a value such as "2020", "2020///" or
// "2020/05/01/Spring". Only the first slash-separated segment is read.
func Year(s string) (int, bool) {
	first, _, _ := strings.Cut(strings.TrimSpace(s), "/")
	n, ok := Integer(first)
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

var (
	// markupRe detects inline HTML tags or entities left by database exports.
	markupRe = regexp.MustCompile(`<[a-zA-Z/][^>]*>|&(?:[a-zA-Z]+|#[0-9]+|#x[0-9a-fA-F]+);`)

	doiPrefixRe = regexp.MustCompile(`(?i)^(?:https?://(?:dx\.)?doi\.org/|doi:\s*)`)
)

// Markup strips inline HTML markup (<i>, <sup>, entities) from titles and
// abstracts and collapses whitespace. Text without markup is only collapsed.
// Doubly escaped markup such as "&amp;lt;b&amp;gt;" is stripped until no
// markup remains, so the result is stable under another pass.
func Markup(s string) string {
	s = Text(s)
	for markupRe.MatchString(s) {
		next := stripMarkup(s)
		if len(next) >= len(s) {
			return next
		}
		s = next
	}
	return s
}

func stripMarkup(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return Text(doc.Text())
}

// DOI strips resolver and "doi:" prefixes and lowercases the identifier.
// DOIs are case-insensitive, so the lowercase form is canonical.
func DOI(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for doiPrefixRe.MatchString(s) {
		s = strings.TrimSpace(doiPrefixRe.ReplaceAllString(s, ""))
	}
	s = strings.ToLower(s)
	if !strings.HasPrefix(s, "10.") {
		return s, false
	}
	return s, true
}
