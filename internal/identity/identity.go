// Package identity detects patient names shared by more than one case.
package identity

import (
	"sort"
	"strings"

	"github.com/JustJay7/collections-tracker/internal/model"
	"github.com/JustJay7/collections-tracker/internal/names"
)

// DuplicateMap maps a name key (see names.Key) to the case numbers sharing
// it. Only keys held by two or more cases are kept.
type DuplicateMap struct {
	groups map[string][]string
	cases  map[string]model.Case
}

// Resolve groups cases by name key. It must run once per analysis pass,
// before any matching. Case numbers are trimmed and only the first row of a
// repeated number counts, as in the ledger builder.
func Resolve(cases []model.Case) *DuplicateMap {
	byKey := make(map[string][]string)
	byNumber := make(map[string]model.Case, len(cases))

	for _, c := range cases {
		c.CaseNumber = strings.TrimSpace(c.CaseNumber)
		if c.CaseNumber == "" {
			continue
		}
		if _, seen := byNumber[c.CaseNumber]; seen {
			continue
		}
		byNumber[c.CaseNumber] = c

		key := names.Key(c.PatientName)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], c.CaseNumber)
	}

	groups := make(map[string][]string)
	for key, numbers := range byKey {
		if len(numbers) > 1 {
			groups[key] = numbers
		}
	}

	return &DuplicateMap{groups: groups, cases: byNumber}
}

// Has reports whether key is shared by several cases.
func (d *DuplicateMap) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.groups[key]
	return ok
}

// IsDuplicated reports whether c's patient name is shared.
func (d *DuplicateMap) IsDuplicated(c model.Case) bool {
	return d.Has(names.Key(c.PatientName))
}

// Group returns the case numbers sharing key, in ledger order.
func (d *DuplicateMap) Group(key string) []string {
	if d == nil {
		return nil
	}
	return d.groups[key]
}

// Siblings returns the other cases sharing c's patient name.
func (d *DuplicateMap) Siblings(c model.Case) []model.Case {
	var out []model.Case
	self := strings.TrimSpace(c.CaseNumber)
	for _, number := range d.Group(names.Key(c.PatientName)) {
		if number == self {
			continue
		}
		if sibling, ok := d.cases[number]; ok {
			out = append(out, sibling)
		}
	}
	return out
}

// Len is the number of duplicated name keys.
func (d *DuplicateMap) Len() int {
	if d == nil {
		return 0
	}
	return len(d.groups)
}

// Keys returns the duplicated name keys in sorted order.
func (d *DuplicateMap) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.groups))
	for k := range d.groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
