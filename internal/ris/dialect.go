// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ris

import (
	"regexp"
	"strings"

	"github.com/pdiddy/reference-ingest/internal/tags"
	"github.com/pdiddy/reference-ingest/pkg/types"
)

// bom is the UTF-8 byte-order mark as it appears in decoded text.
const bom = "\ufeff"

// Dialect is one tag-delimiter convention of the line format. A Dialect is
// chosen once per input and never changes during the parse.
type Dialect struct {
	// Name is "ris", "ris-loose" or "wok".
	Name string

	// Dict is the tag vocabulary used with this dialect.
	Dict *tags.Dictionary

	pattern *regexp.Regexp
}

// Dialects in detection priority order. Stricter delimiters come first
// because the looser patterns also match lines of the stricter dialects.
var (
	// DialectRIS matches "TY  - JOUR" and "ER  -".
	DialectRIS = &Dialect{
		Name:    "ris",
		Dict:    tags.RIS,
		pattern: regexp.MustCompile(`^([A-Z][A-Z0-9])  -(?: ?(.*))?$`),
	}

	// DialectRISLoose matches "TY - JOUR", "TY -JOUR" and "TY-JOUR".
	DialectRISLoose = &Dialect{
		Name:    "ris-loose",
		Dict:    tags.RIS,
		pattern: regexp.MustCompile(`^([A-Z][A-Z0-9]) ?-(?: ?(.*))?$`),
	}

	// DialectWOK matches Web of Science field tags: "PT J", "ER".
	DialectWOK = &Dialect{
		Name:    "wok",
		Dict:    tags.WOK,
		pattern: regexp.MustCompile(`^([A-Z][A-Z0-9])(?: (.*))?$`),
	}

	dialects = []*Dialect{DialectRIS, DialectRISLoose, DialectWOK}
)

// Match tokenizes a line into its tag and value. The value is trimmed.
func (d *Dialect) Match(line string) (tag, value string, ok bool) {
	m := d.pattern.FindStringSubmatch(strings.TrimRight(line, " \t\r"))
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// Detect selects the dialect of an input from its first non-blank line.
// A leading byte-order mark is ignored. When no dialect matches, Detect
// returns a *types.ParseError wrapping types.ErrNoDialect.
func Detect(line string, lineNo int) (*Dialect, error) {
	trimmed := strings.TrimPrefix(line, bom)
	for _, d := range dialects {
		if _, _, ok := d.Match(trimmed); ok {
			return d, nil
		}
	}
	return nil, &types.ParseError{Line: lineNo, Content: line, Err: types.ErrNoDialect}
}

// Lookup resolves a dialect by name, as given in configuration.
func Lookup(name string) (*Dialect, bool) {
	for _, d := range dialects {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Names returns the dialect names in detection order.
func Names() []string {
	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = d.Name
	}
	return names
}
