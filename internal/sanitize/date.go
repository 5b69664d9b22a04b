// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sanitize

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	// slashDateRe matches the "YYYY/MM/DD/other" form, where any segment
	// after the year may be empty.
	slashDateRe = regexp.MustCompile(`^(\d{4})/([^/]*)(?:/([^/]*))?(?:/.*)?$`)

	yearOnlyRe = regexp.MustCompile(`^\d{4}$`)

	throughRe = regexp.MustCompile(`(?i)\s+through\s+`)
)

// Date parses a calendar date. It accepts the slash form used by line-format
// exports (empty month or day segments default to 01), a bare year, a range
// "date1 through date2" (the earlier date wins) and anything the best-effort
// parser understands. Dates without a year are rejected.
func Date(s string) (time.Time, bool) {
	s = Text(s)
	if s == "" {
		return time.Time{}, false
	}

	if parts := throughRe.Split(s, 2); len(parts) == 2 {
		a, okA := Date(parts[0])
		b, okB := Date(parts[1])
		switch {
		case okA && okB:
			if b.Before(a) {
				return b, true
			}
			return a, true
		case okA:
			return a, true
		case okB:
			return b, true
		}
		return time.Time{}, false
	}

	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		return slashDate(m[1], m[2], m[3])
	}
	if yearOnlyRe.MatchString(s) {
		return slashDate(s, "", "")
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.Year() < 1 {
		// The parser reports year 0 for input without a year.
		return time.Time{}, false
	}
	return day(t), true
}

func slashDate(year, month, dayOfMonth string) (time.Time, bool) {
	m := 1
	if strings.TrimSpace(month) != "" {
		n, ok := Month(month)
		if !ok {
			return time.Time{}, false
		}
		m = n
	}
	d := 1
	if strings.TrimSpace(dayOfMonth) != "" {
		n, ok := Integer(dayOfMonth)
		if !ok || n < 1 || n > 31 {
			return time.Time{}, false
		}
		d = n
	}
	y, ok := Integer(year)
	if !ok || y < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
