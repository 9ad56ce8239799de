package ledger

import (
	"time"

	"github.com/JustJay7/collections-tracker/internal/matcher"
	"github.com/JustJay7/collections-tracker/internal/model"
)

// SnippetExcerptLen caps the snippet stored on an Activity.
const SnippetExcerptLen = 100

// Activity is one matched (message, case) pair.
type Activity struct {
	CaseNumber string          `json:"case_number"`
	Direction  model.Direction `json:"direction"`
	Date       string          `json:"date"` // RFC 3339 when the message date parsed, raw otherwise
	Subject    string          `json:"subject"`
	Snippet    string          `json:"snippet"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	MessageID  string          `json:"message_id"`
	MatchedBy  matcher.Reason  `json:"matched_by"`
}

// TrackingRecord aggregates the activity of one case.
//
// LastContact is the later of LastSent and LastReceived; the counts equal the
// number of sent and received activities.
type TrackingRecord struct {
	CaseInfo      model.Case `json:"case_info"`
	Activities    []Activity `json:"activities"`
	SentCount     int        `json:"sent_count"`
	ReceivedCount int        `json:"received_count"`
	LastContact   *time.Time `json:"last_contact"`
	LastSent      *time.Time `json:"last_sent"`
	LastReceived  *time.Time `json:"last_received"`
}

func newRecord(c model.Case) *TrackingRecord {
	return &TrackingRecord{CaseInfo: c, Activities: []Activity{}}
}

// add appends a and folds it into the aggregates. A nil at leaves the
// last-contact fields alone.
func (r *TrackingRecord) add(a Activity, at *time.Time) {
	r.Activities = append(r.Activities, a)

	switch a.Direction {
	case model.DirectionSent:
		r.SentCount++
		r.LastSent = later(r.LastSent, at)
	default:
		r.ReceivedCount++
		r.LastReceived = later(r.LastReceived, at)
	}
	r.LastContact = later(r.LastContact, at)
}

func later(cur, t *time.Time) *time.Time {
	if t == nil {
		return cur
	}
	if cur == nil || t.After(*cur) {
		v := *t
		return &v
	}
	return cur
}

// Ledger maps case number to its tracking record.
type Ledger map[string]*TrackingRecord

// Stats describes one build.
type Stats struct {
	Cases            int `json:"cases"`
	Messages         int `json:"messages"`
	Matches          int `json:"matches"`
	MatchedMessages  int `json:"matched_messages"`
	UnparseableDates int `json:"unparseable_dates"`
	DuplicateNames   int `json:"duplicate_names"`
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= SnippetExcerptLen {
		return s
	}
	return string(r[:SnippetExcerptLen])
}
