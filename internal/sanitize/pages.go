// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sanitize

import (
	"strings"
)

// pageSeparators are the hyphen-like characters accepted between page
// bounds.
var pageSeparators = []string{
	"-",      // hyphen-minus
	"\u2013", // en dash
	"\u2014", // em dash
	"\u2212", // minus sign
	"\u2011", // non-breaking hyphen
}

// pageCutset is every separator rune plus whitespace, for trimming bounds.
var pageCutset = strings.Join(pageSeparators, "") + " \t"

// Pages is a parsed page range. End is empty for a single page.
type Pages struct {
	Start string
	End   string

	// Unusual is set when the range had more than two pieces, such as
	// "12-14-16". Start and End then hold the first and last piece.
	Unusual bool
}

// PageRange splits a page value into its bounds. It reports false when the
// value holds no page text at all. Separators may be mixed, as in
// "12–14-16"; every piece counts toward an unusual range.
func PageRange(s string) (Pages, bool) {
	pieces := splitPages(s)
	if len(pieces) == 0 {
		return Pages{}, false
	}

	p := Pages{Start: pieces[0]}
	if len(pieces) > 1 {
		p.End = pieces[len(pieces)-1]
		p.Unusual = len(pieces) > 2
	}
	return p, true
}

// splitPages splits s on any page separator, trims each piece and drops
// empty ones.
func splitPages(s string) []string {
	var pieces []string
	for _, piece := range strings.FieldsFunc(s, isPageSeparator) {
		if piece = strings.Trim(piece, pageCutset); piece != "" {
			pieces = append(pieces, piece)
		}
	}
	return pieces
}

func isPageSeparator(r rune) bool {
	for _, sep := range pageSeparators {
		if string(r) == sep {
			return true
		}
	}
	return false
}
