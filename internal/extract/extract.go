// Package extract pulls case identifiers and dates out of free text.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultLabels are the words that may precede a case identifier.
var DefaultLabels = []string{"pv", "case", "file", "ref", "reference"}

const monthPattern = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`

var (
	bareNumberPattern = regexp.MustCompile(`\b(\d{5,7})\b`)

	datePatterns = []*regexp.Regexp{
		// 05/01/2023, 5-1-2023
		regexp.MustCompile(`\b(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})\b`),
		// 2023-05-01
		regexp.MustCompile(`\b(\d{4}[/\-]\d{1,2}[/\-]\d{1,2})\b`),
		// May 1, 2023
		regexp.MustCompile(`(?i)\b(` + monthPattern + `\s+\d{1,2},?\s+\d{4})\b`),
		// 1 May 2023
		regexp.MustCompile(`(?i)\b(\d{1,2}\s+` + monthPattern + `,?\s+\d{4})\b`),
	}
)

// Set is an unordered collection of extracted strings.
type Set map[string]struct{}

func (s Set) Add(v string) { s[v] = struct{}{} }

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Extractor recognises labelled case numbers, bare case numbers and dates.
type Extractor struct {
	labelled *regexp.Regexp
}

// New builds an extractor for the given label vocabulary. An empty
// vocabulary falls back to DefaultLabels.
func New(labels []string) *Extractor {
	if len(labels) == 0 {
		labels = DefaultLabels
	}

	quoted := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l != "" {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(l)))
		}
	}
	// Longest first so "reference" wins over "ref".
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })

	return &Extractor{
		labelled: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\s*(?:no\.?|number)?\s*#?\s*[:=]?\s*(\d{4,7})\b`),
	}
}

// Extract returns every case identifier and date found in text.
func (e *Extractor) Extract(text string) Set {
	out := e.CaseNumbers(text)
	for d := range Dates(text) {
		out.Add(d)
	}
	return out
}

// CaseNumbers returns labelled 4-7 digit numbers and bare 5-7 digit numbers
// that do not start like a year (19xx or 20xx).
func (e *Extractor) CaseNumbers(text string) Set {
	out := Set{}
	if text == "" {
		return out
	}

	for _, m := range e.labelled.FindAllStringSubmatch(text, -1) {
		out.Add(m[1])
	}
	for _, m := range bareNumberPattern.FindAllStringSubmatch(text, -1) {
		if !yearLike(m[1]) {
			out.Add(m[1])
		}
	}
	return out
}

// Dates returns every date-shaped substring of text, as written.
func Dates(text string) Set {
	out := Set{}
	if text == "" {
		return out
	}
	for _, p := range datePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			out.Add(m[1])
		}
	}
	return out
}

func yearLike(digits string) bool {
	return strings.HasPrefix(digits, "19") || strings.HasPrefix(digits, "20")
}
