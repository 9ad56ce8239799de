package matcher

import (
	"strings"
	"time"
)

// UnknownYear marks a placeholder date of injury in the case ledger.
const UnknownYear = 2099

var doiLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1-2-2006",
	"2006/1/2",
	"1/2/06",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// mentionLayouts parse dates as they appear in message text, after
// canonicalDate. Numeric month and day fields accept one or two digits.
var mentionLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"2006-1-2",
	"2006/1/2",
	"Jan 2 2006",
	"2 Jan 2006",
}

// ParseDOI parses a ledger date of injury. Blank values, placeholders such
// as "NONE" and dates in the UnknownYear report false.
func ParseDOI(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "none", "nan", "nat", "n/a":
		return time.Time{}, false
	}
	if strings.Contains(raw, "2099") {
		return time.Time{}, false
	}

	candidates := []string{raw}
	if fields := strings.Fields(raw); len(fields) > 1 {
		// Spreadsheet exports sometimes carry a trailing time.
		candidates = append(candidates, fields[0])
	}

	for _, c := range candidates {
		for _, layout := range doiLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				if t.Year() >= UnknownYear {
					return time.Time{}, false
				}
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// DayKey is the calendar day of t, used to compare dates written in
// different formats.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DOIDay returns the calendar day of the date of injury, or "" when it is
// unknown.
func DOIDay(raw string) string {
	t, ok := ParseDOI(raw)
	if !ok {
		return ""
	}
	return DayKey(t)
}

// ParseMentionedDate parses a date found in message text by extract.Dates.
// Month names may be full, abbreviated or dotted ("Sept. 5, 2023").
func ParseMentionedDate(s string) (time.Time, bool) {
	fields := strings.Fields(canonicalDate(s))
	for i, f := range fields {
		if len(f) > 3 && f[0] >= 'a' && f[0] <= 'z' {
			fields[i] = f[:3]
		}
	}
	s = strings.Join(fields, " ")

	for _, layout := range mentionLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// canonicalDate lower-cases a date string and drops the punctuation that
// varies between writers ("Jan. 5, 2023" and "jan 5 2023" compare equal).
func canonicalDate(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(".", " ", ",", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
