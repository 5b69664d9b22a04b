// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sanitize

import (
	"regexp"
	"sort"
	"strings"
)

// andRe matches the literal " and " name separator, case-insensitively.
var andRe = regexp.MustCompile(`(?i) and `)

// NameList splits each value on " and ", collapses embedded newlines,
// drops empty names and returns the result sorted.
func NameList(values []string) []string {
	var names []string
	for _, v := range values {
		for _, name := range andRe.Split(Text(v), -1) {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// KeywordList splits each value on ';' and ',', drops empty and repeated
// keywords and returns the result sorted.
func KeywordList(values []string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, v := range values {
		parts := strings.FieldsFunc(v, func(r rune) bool { return r == ';' || r == ',' })
		for _, kw := range parts {
			kw = Text(kw)
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}
	sort.Strings(keywords)
	return keywords
}

// TextList collapses whitespace in every value, drops empty ones and returns
// the result sorted.
func TextList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = Text(v); v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
