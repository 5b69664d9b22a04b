// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/reference-ingest/internal/sanitize"
)

// textMode selects how much LaTeX processing a field value receives.
type textMode int

const (
	// modeText converts accents, escapes and dashes and removes braces.
	modeText textMode = iota

	// modePages is modeText without dash conversion, so page separators
	// stay hyphens.
	modePages

	// modeVerbatim only collapses whitespace. Used for URLs and DOIs, where
	// "~" and "--" are literal.
	modeVerbatim
)

// combining maps LaTeX accent commands to Unicode combining marks.
var combining = map[string]string{
	"'":  "\u0301",
	"`":  "\u0300",
	"^":  "\u0302",
	"\"": "\u0308",
	"~":  "\u0303",
	"=":  "\u0304",
	".":  "\u0307",
	"u":  "\u0306",
	"v":  "\u030C",
	"H":  "\u030B",
	"c":  "\u0327",
	"k":  "\u0328",
	"r":  "\u030A",
	"d":  "\u0323",
	"b":  "\u0331",
}

// letters maps LaTeX letter commands to their Unicode letters.
var letters = map[string]string{
	"ss": "ß",
	"ae": "æ",
	"AE": "Æ",
	"oe": "œ",
	"OE": "Œ",
	"aa": "å",
	"AA": "Å",
	"o":  "ø",
	"O":  "Ø",
	"l":  "ł",
	"L":  "Ł",
	"i":  "ı",
	"j":  "ȷ",
}

// Placeholders for escaped characters that must survive brace and math
// removal. They sit in the Unicode private use area.
var escapes = []struct {
	latex, placeholder, plain string
}{
	{`\{`, "\uE000", "{"},
	{`\}`, "\uE001", "}"},
	{`\$`, "\uE002", "$"},
	{`\&`, "\uE003", "&"},
	{`\%`, "\uE004", "%"},
	{`\_`, "\uE005", "_"},
	{`\#`, "\uE006", "#"},
}

var (
	symbolAccentRe = regexp.MustCompile("\\\\([`'^\"~=.])\\s*(?:\\{\\s*(\\\\[ij]|[a-zA-Z])\\s*\\}|(\\\\[ij]|[a-zA-Z]))")
	letterAccentRe = regexp.MustCompile(`\\([uvHckrdb])(?:\s*\{\s*(\\[ij]|[a-zA-Z])\s*\}|\s+([a-zA-Z]))`)
	letterCmdRe    = regexp.MustCompile(`\\(ss|AE|ae|OE|oe|AA|aa|o|O|l|L|i|j)(?:\{\}|\s+|\b)`)
	lineBreakRe    = regexp.MustCompile(`\\\\`)
	commandRe      = regexp.MustCompile(`\\[a-zA-Z]+\*?\s*`)
	punctCmdRe     = regexp.MustCompile(`\\[,;:! ]`)
)

// toText converts a raw BibTeX field value to plain Unicode text.
func toText(s string, mode textMode) string {
	if mode == modeVerbatim {
		return sanitize.Text(strings.NewReplacer("{", "", "}", "").Replace(s))
	}

	for _, e := range escapes {
		s = strings.ReplaceAll(s, e.latex, e.placeholder)
	}

	s = symbolAccentRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := symbolAccentRe.FindStringSubmatch(m)
		return accented(sub[1], sub[2]+sub[3])
	})
	s = letterAccentRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := letterAccentRe.FindStringSubmatch(m)
		return accented(sub[1], sub[2]+sub[3])
	})
	s = letterCmdRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := letterCmdRe.FindStringSubmatch(m)
		return letters[sub[1]]
	})
	s = lineBreakRe.ReplaceAllString(s, " ")
	s = punctCmdRe.ReplaceAllString(s, " ")
	s = commandRe.ReplaceAllString(s, "")

	if mode != modePages {
		s = strings.ReplaceAll(s, "---", "\u2014")
		s = strings.ReplaceAll(s, "--", "\u2013")
	}
	s = strings.NewReplacer("~", " ", "{", "", "}", "", "$", "").Replace(s)

	for _, e := range escapes {
		s = strings.ReplaceAll(s, e.placeholder, e.plain)
	}
	return sanitize.Text(norm.NFC.String(s))
}

// accented composes base with the combining mark for accent.
func accented(accent, base string) string {
	switch base {
	case `\i`:
		base = "i"
	case `\j`:
		base = "j"
	}
	return norm.NFC.String(base + combining[accent])
}

// splitNames splits an author or editor list on " and " outside braces.
// Braced groups such as {Barnes and Noble} name a single corporate author.
func splitNames(s string) []string {
	s = sanitize.Text(s)
	var names []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ' ':
			if depth == 0 && i+5 <= len(s) && strings.EqualFold(s[i:i+5], " and ") {
				names = append(names, s[start:i])
				start = i + 5
				i += 4
			}
		}
	}
	names = append(names, s[start:])

	out := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
