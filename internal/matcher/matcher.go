// Package matcher decides whether a cached message belongs to a case.
//
// Steps run in descending confidence and the first hit wins:
//
//  1. the case number appears in the subject or snippet, or is extracted from it
//  2. the alternate number (4+ characters) appears in the subject or snippet
//  3. a name variant appears anywhere in the message and the subject or
//     snippet carries case context (a context keyword or the case's date of
//     injury); a name shared by several cases additionally needs the case's
//     own date of injury and no sibling's
//  4. the message is to or from the case's attorney and mentions the patient's
//     last name
package matcher

import (
	"strings"

	"github.com/JustJay7/collections-tracker/internal/extract"
	"github.com/JustJay7/collections-tracker/internal/identity"
	"github.com/JustJay7/collections-tracker/internal/model"
	"github.com/JustJay7/collections-tracker/internal/names"
)

// Matcher evaluates (message, case) pairs under one Policy.
type Matcher struct {
	policy     Policy
	extractor  *extract.Extractor
	normalizer *names.Normalizer
}

// New builds a matcher. Nil extractor or normalizer use the defaults.
func New(policy Policy, extractor *extract.Extractor, normalizer *names.Normalizer) *Matcher {
	if extractor == nil {
		extractor = extract.New(nil)
	}
	if normalizer == nil {
		normalizer = names.NewNormalizer(nil)
	}
	if len(policy.ContextKeywords) == 0 {
		policy.ContextKeywords = DefaultContextKeywords
	}
	return &Matcher{policy: policy, extractor: extractor, normalizer: normalizer}
}

// Text is a message prepared for matching. Preparing once per message keeps
// the pair loop down to substring checks.
type Text struct {
	Message     model.Message
	Body        string // lower-cased subject and snippet
	Full        string // Body plus lower-cased from and to
	From        string
	To          string
	CaseNumbers extract.Set
	Dates       []string // calendar days (DayKey) of extracted dates
	hasContext  bool
}

// Prepare lower-cases and extracts identifiers from msg.
func (m *Matcher) Prepare(msg model.Message) *Text {
	body := strings.ToLower(msg.Subject + " " + msg.Snippet)
	t := &Text{
		Message:     msg,
		Body:        body,
		From:        strings.ToLower(msg.From),
		To:          strings.ToLower(msg.To),
		CaseNumbers: m.extractor.CaseNumbers(body),
	}
	t.Full = body + " " + t.From + " " + t.To

	seen := make(map[string]struct{})
	for d := range extract.Dates(body) {
		at, ok := ParseMentionedDate(d)
		if !ok {
			continue
		}
		key := DayKey(at)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			t.Dates = append(t.Dates, key)
		}
	}
	for _, kw := range m.policy.ContextKeywords {
		if kw != "" && strings.Contains(body, strings.ToLower(kw)) {
			t.hasContext = true
			break
		}
	}
	return t
}

// Profile is a case prepared for matching.
type Profile struct {
	Case       model.Case
	Duplicated bool

	number      string
	alternate   string
	variants    []string
	lastName    string
	attorney    string
	doi         string
	siblingDOIs []string
	// a sibling shares the attorney, so attorney+last name is ambiguous
	attorneyShared bool
}

// Profile prepares c. dupes may be nil when no names are shared.
func (m *Matcher) Profile(c model.Case, dupes *identity.DuplicateMap) *Profile {
	p := &Profile{
		Case:       c,
		Duplicated: dupes.IsDuplicated(c),
		number:     strings.ToLower(strings.TrimSpace(c.CaseNumber)),
		attorney:   strings.ToLower(strings.TrimSpace(c.AttorneyEmail)),
		doi:        DOIDay(c.DateOfInjury),
	}

	if alt := strings.ToLower(strings.TrimSpace(c.AlternateNumber)); len(alt) >= m.policy.MinAlternateLen {
		p.alternate = alt
	}

	last := m.normalizer.LastName(c.PatientName)
	if len(last) >= m.policy.MinLastNameLen {
		p.lastName = last
	}

	for _, v := range m.normalizer.Variants(c.PatientName) {
		if len(v) < m.policy.MinVariantLen {
			continue
		}
		// A bare last name cannot tell duplicated patients apart.
		if p.Duplicated && v == last {
			continue
		}
		p.variants = append(p.variants, v)
	}

	if p.Duplicated {
		for _, s := range dupes.Siblings(c) {
			if day := DOIDay(s.DateOfInjury); day != "" {
				p.siblingDOIs = append(p.siblingDOIs, day)
			}
			if p.attorney != "" && strings.EqualFold(strings.TrimSpace(s.AttorneyEmail), p.attorney) {
				p.attorneyShared = true
			}
		}
	}
	return p
}

// Matches is the one-shot form of Match for callers that do not batch.
func (m *Matcher) Matches(msg model.Message, c model.Case, dupes *identity.DuplicateMap) bool {
	return m.Match(m.Prepare(msg), m.Profile(c, dupes)) != NoMatch
}

// Match returns the step that matched t to p, or NoMatch.
func (m *Matcher) Match(t *Text, p *Profile) Reason {
	if m.caseNumberMatches(t, p) {
		return ByCaseNumber
	}
	if p.alternate != "" && strings.Contains(t.Body, p.alternate) {
		return ByAlternateNumber
	}
	if m.nameMatches(t, p) {
		return ByName
	}
	if m.attorneyMatches(t, p) {
		return ByAttorney
	}
	return NoMatch
}

func (m *Matcher) caseNumberMatches(t *Text, p *Profile) bool {
	if p.number == "" {
		return false
	}
	return strings.Contains(t.Body, p.number) || t.CaseNumbers.Has(p.number)
}

func (m *Matcher) nameMatches(t *Text, p *Profile) bool {
	hit := false
	for _, v := range p.variants {
		if strings.Contains(t.Full, v) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}

	ownDate := dateIn(t.Dates, p.doi)
	if !p.Duplicated {
		return t.hasContext || ownDate
	}

	// Shared name: only the date of injury can pick the case. No dates at all
	// leaves the verbatim case number (step 1) as the only way in.
	if !ownDate {
		return false
	}
	for _, sibling := range p.siblingDOIs {
		if dateIn(t.Dates, sibling) {
			return false
		}
	}
	return true
}

func (m *Matcher) attorneyMatches(t *Text, p *Profile) bool {
	if p.attorney == "" {
		return false
	}
	if !strings.Contains(t.From, p.attorney) && !strings.Contains(t.To, p.attorney) {
		return false
	}
	if p.number != "" && strings.Contains(t.Body, p.number) {
		return true
	}
	if p.lastName == "" || !strings.Contains(t.Body, p.lastName) {
		return false
	}
	return !(p.Duplicated && p.attorneyShared)
}

func dateIn(dates []string, day string) bool {
	if day == "" {
		return false
	}
	for _, d := range dates {
		if d == day {
			return true
		}
	}
	return false
}
