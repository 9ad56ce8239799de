// Package staleness groups tracked cases by how long they have gone without
// contact.
package staleness

import (
	"fmt"
	"sort"
	"time"

	"github.com/JustJay7/collections-tracker/internal/ledger"
	"github.com/JustJay7/collections-tracker/internal/matcher"
)

// Category is a report bucket. A case may sit in several.
type Category string

const (
	NeverContacted Category = "never_contacted"
	NoResponse     Category = "no_response"
	Critical       Category = "critical"
	HighPriority   Category = "high_priority"
	NeedsFollowUp  Category = "needs_follow_up"
	HasResponses   Category = "has_responses"
)

// Categories lists every category in report order.
var Categories = []Category{NeverContacted, NoResponse, Critical, HighPriority, NeedsFollowUp, HasResponses}

// Flag marks a case for review outside the urgency buckets.
type Flag string

const (
	RecentlyContacted Flag = "recently_contacted"
	MissingDOI        Flag = "missing_doi"
	StatuteReview     Flag = "statute_review"
)

// Flags lists every flag in report order.
var Flags = []Flag{RecentlyContacted, MissingDOI, StatuteReview}

// Thresholds are the bucket boundaries. Day values are lower bounds and
// inclusive.
type Thresholds struct {
	FollowUpDays        int
	HighPriorityDays    int
	CriticalDays        int
	CaseAgeCriticalDays int
	StatuteReviewYears  int
}

// DefaultThresholds returns the 30/60/90 day buckets.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FollowUpDays:        30,
		HighPriorityDays:    60,
		CriticalDays:        90,
		CaseAgeCriticalDays: 365,
		StatuteReviewYears:  2,
	}
}

// Validate checks that the buckets are positive and ordered.
func (t Thresholds) Validate() error {
	if t.FollowUpDays <= 0 {
		return fmt.Errorf("follow-up threshold must be positive, got %d", t.FollowUpDays)
	}
	if t.HighPriorityDays <= t.FollowUpDays || t.CriticalDays <= t.HighPriorityDays {
		return fmt.Errorf("thresholds must increase: %d/%d/%d", t.FollowUpDays, t.HighPriorityDays, t.CriticalDays)
	}
	return nil
}

// Report is the output of one classification.
type Report struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Categories  map[Category][]string `json:"categories"`
	Flags       map[Flag][]string     `json:"flags"`
	// Whole days since last contact, for cases with a datable contact.
	DaysSinceContact map[string]int `json:"days_since_contact"`
}

func newReport(at time.Time) *Report {
	r := &Report{
		GeneratedAt:      at,
		Categories:       make(map[Category][]string, len(Categories)),
		Flags:            make(map[Flag][]string, len(Flags)),
		DaysSinceContact: make(map[string]int),
	}
	for _, c := range Categories {
		r.Categories[c] = []string{}
	}
	for _, f := range Flags {
		r.Flags[f] = []string{}
	}
	return r
}

// Counts returns the size of every category.
func (r *Report) Counts() map[Category]int {
	out := make(map[Category]int, len(r.Categories))
	for c, numbers := range r.Categories {
		out[c] = len(numbers)
	}
	return out
}

// Without returns a copy of r that omits the given case numbers.
func (r *Report) Without(skip map[string]struct{}) *Report {
	out := newReport(r.GeneratedAt)
	keep := func(numbers []string) []string {
		kept := make([]string, 0, len(numbers))
		for _, n := range numbers {
			if _, ok := skip[n]; !ok {
				kept = append(kept, n)
			}
		}
		return kept
	}
	for c, numbers := range r.Categories {
		out.Categories[c] = keep(numbers)
	}
	for f, numbers := range r.Flags {
		out.Flags[f] = keep(numbers)
	}
	for n, d := range r.DaysSinceContact {
		if _, ok := skip[n]; !ok {
			out.DaysSinceContact[n] = d
		}
	}
	return out
}

// Classifier assigns categories against an injected clock.
type Classifier struct {
	thresholds Thresholds
	now        func() time.Time
}

// New creates a classifier. A nil now uses time.Now.
func New(t Thresholds, now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{thresholds: t, now: now}
}

// Result is the classification of a single case.
type Result struct {
	Categories []Category `json:"categories"`
	Flags      []Flag     `json:"flags"`
	// -1 when there is no datable contact.
	DaysSinceContact int `json:"days_since_contact"`
}

// Classify buckets every record in l. Each category lists the most stale
// cases first.
func (c *Classifier) Classify(l ledger.Ledger) *Report {
	now := c.now()
	report := newReport(now)

	for number, r := range l {
		res := c.classify(r, now)
		for _, cat := range res.Categories {
			report.Categories[cat] = append(report.Categories[cat], number)
		}
		for _, f := range res.Flags {
			report.Flags[f] = append(report.Flags[f], number)
		}
		if res.DaysSinceContact >= 0 {
			report.DaysSinceContact[number] = res.DaysSinceContact
		}
	}

	days := func(n string) int {
		if d, ok := report.DaysSinceContact[n]; ok {
			return d
		}
		return -1
	}
	order := func(numbers []string) {
		sort.Slice(numbers, func(i, j int) bool {
			di, dj := days(numbers[i]), days(numbers[j])
			if di != dj {
				return di > dj
			}
			return numbers[i] < numbers[j]
		})
	}
	for _, numbers := range report.Categories {
		order(numbers)
	}
	for _, numbers := range report.Flags {
		order(numbers)
	}
	return report
}

// ClassifyRecord classifies one record.
func (c *Classifier) ClassifyRecord(r *ledger.TrackingRecord) Result {
	return c.classify(r, c.now())
}

func (c *Classifier) classify(r *ledger.TrackingRecord, now time.Time) Result {
	res := Result{Categories: []Category{}, Flags: []Flag{}, DaysSinceContact: -1}
	t := c.thresholds

	doi, hasDOI := matcher.ParseDOI(r.CaseInfo.DateOfInjury)
	if !hasDOI {
		res.Flags = append(res.Flags, MissingDOI)
	} else if t.StatuteReviewYears > 0 && !doi.After(now.AddDate(-t.StatuteReviewYears, 0, 0)) {
		res.Flags = append(res.Flags, StatuteReview)
	}

	if r.SentCount == 0 && r.ReceivedCount == 0 {
		res.Categories = append(res.Categories, NeverContacted)
		return res
	}
	if r.ReceivedCount == 0 {
		res.Categories = append(res.Categories, NoResponse)
	}

	if r.LastContact != nil {
		days := daysBetween(*r.LastContact, now)
		res.DaysSinceContact = days
		switch {
		case days >= t.CriticalDays:
			res.Categories = append(res.Categories, Critical)
		case days >= t.HighPriorityDays:
			res.Categories = append(res.Categories, HighPriority)
		case days >= t.FollowUpDays:
			res.Categories = append(res.Categories, NeedsFollowUp)
		default:
			res.Flags = append(res.Flags, RecentlyContacted)
		}
	} else if hasDOI && t.CaseAgeCriticalDays > 0 && daysBetween(doi, now) >= t.CaseAgeCriticalDays {
		// Activity exists but none of it is dated: fall back to case age.
		res.Categories = append(res.Categories, Critical)
	}

	if r.ReceivedCount > 0 {
		res.Categories = append(res.Categories, HasResponses)
	}
	return res
}

// daysBetween returns whole days from then to now, zero for future times.
func daysBetween(then, now time.Time) int {
	d := now.Sub(then)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
