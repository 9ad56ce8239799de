// Package names expands patient names into lower-cased variants suitable
// for substring search against message text.
package names

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultSuffixes are professional and generational suffixes stripped
// before variants are generated.
var DefaultSuffixes = []string{"jr", "sr", "iii", "ii", "iv", "esq", "md", "phd", "dds", "pa", "rn", "np"}

// MinLastNameLen is the shortest last name emitted as a bare variant.
const MinLastNameLen = 4

var (
	punctuation = regexp.MustCompile(`[,.\-'"]`)
	edgePunct   = `,.'"`
)

// Normalizer generates name variants for one suffix vocabulary.
type Normalizer struct {
	suffixes *regexp.Regexp
}

// NewNormalizer builds a normalizer. An empty vocabulary uses DefaultSuffixes.
func NewNormalizer(suffixes []string) *Normalizer {
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}
	quoted := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if s = strings.TrimSpace(s); s != "" {
			quoted = append(quoted, regexp.QuoteMeta(s))
		}
	}
	return &Normalizer{
		suffixes: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b\.?`),
	}
}

var defaultNormalizer = NewNormalizer(nil)

// Variants expands name with the default suffix vocabulary.
func Variants(name string) []string {
	return defaultNormalizer.Variants(name)
}

// Variants returns the sorted, de-duplicated, lower-cased variants of name:
// the full cleaned name, "first last", "last first", the bare last name when
// it is at least MinLastNameLen long, "first m last" for three part names,
// and joined/split forms of long hyphenated tokens.
func (n *Normalizer) Variants(name string) []string {
	stripped := n.strip(name)
	clean := Clean(stripped)
	if clean == "" {
		return []string{}
	}

	set := map[string]struct{}{clean: {}}
	add := func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}

	parts := strings.Fields(clean)
	if len(parts) >= 2 {
		first, last := parts[0], parts[len(parts)-1]
		add(first + " " + last)
		add(last + " " + first)
		if len(last) >= MinLastNameLen {
			add(last)
		}
		if len(parts) == 3 {
			add(first + " " + parts[1][:1] + " " + last)
		}
	}

	// Hyphens are already spaces in clean, so look at the suffix-stripped text.
	for _, tok := range strings.Fields(strings.ToLower(stripped)) {
		tok = strings.Trim(tok, edgePunct)
		if strings.Contains(tok, "-") && len(tok) > 5 {
			add(strings.ReplaceAll(tok, "-", ""))
			add(strings.Join(strings.FieldsFunc(tok, func(r rune) bool { return r == '-' }), " "))
		}
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// LastName returns the last token of the cleaned name, suffixes removed.
func (n *Normalizer) LastName(name string) string {
	parts := strings.Fields(Clean(n.strip(name)))
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// strip removes suffixes and rewrites "Last, First" as "First Last".
func (n *Normalizer) strip(name string) string {
	stripped := n.suffixes.ReplaceAllString(name, " ")

	var sides []string
	for _, s := range strings.Split(stripped, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sides = append(sides, s)
		}
	}
	if len(sides) == 2 {
		return sides[1] + " " + sides[0]
	}
	return stripped
}

// Clean lower-cases name, turns punctuation into spaces and collapses
// whitespace.
func Clean(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(punctuation.ReplaceAllString(name, " "))), " ")
}

// Key is the grouping key for duplicate detection: the upper-cased name with
// whitespace collapsed.
func Key(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}
