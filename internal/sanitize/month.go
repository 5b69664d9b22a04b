// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sanitize

import (
	"strings"
	"unicode"
)

// monthNames maps three-letter month and season prefixes to a month number.
// Seasons map to the first month of the meteorological season.
var monthNames = map[string]int{
	"jan": 1,
	"feb": 2,
	"mar": 3,
	"apr": 4,
	"may": 5,
	"jun": 6,
	"jul": 7,
	"aug": 8,
	"sep": 9,
	"oct": 10,
	"nov": 11,
	"dec": 12,
	"spr": 3,
	"sum": 6,
	"fal": 9,
	"aut": 9,
	"win": 12,
}

// Month returns the month number in 1..12 for values such as "3", "Mar",
// "march 2020", "Jun-Jul" or "Spring".
func Month(s string) (int, bool) {
	if n, ok := Integer(s); ok {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '/'
	})
	if len(tokens) == 0 {
		return 0, false
	}
	tok := tokens[0]
	if n, ok := Integer(tok); ok {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}

	tok = strings.ToLower(strings.TrimRight(tok, ".,"))
	if len(tok) < 3 {
		return 0, false
	}
	n, ok := monthNames[tok[:3]]
	return n, ok
}
