package ledger

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/JustJay7/collections-tracker/internal/model"
)

// Summary holds ledger-wide totals.
type Summary struct {
	TotalCases     int `json:"total_cases"`
	WithActivity   int `json:"with_activity"`
	WithResponses  int `json:"with_responses"`
	NoResponse     int `json:"no_response"`
	NeverContacted int `json:"never_contacted"`
	TotalSent      int `json:"total_sent"`
	TotalReceived  int `json:"total_received"`
}

// Summarize totals l.
func Summarize(l Ledger) Summary {
	s := Summary{TotalCases: len(l)}
	for _, r := range l {
		s.TotalSent += r.SentCount
		s.TotalReceived += r.ReceivedCount
		switch {
		case r.SentCount == 0 && r.ReceivedCount == 0:
			s.NeverContacted++
			continue
		case r.ReceivedCount == 0:
			s.NoResponse++
		default:
			s.WithResponses++
		}
		s.WithActivity++
	}
	return s
}

// History is one case's record with activities newest first.
type History struct {
	CaseInfo      model.Case `json:"case_info"`
	SentCount     int        `json:"sent_count"`
	ReceivedCount int        `json:"received_count"`
	LastContact   *time.Time `json:"last_contact"`
	LastSent      *time.Time `json:"last_sent"`
	LastReceived  *time.Time `json:"last_received"`
	Activities    []Activity `json:"activities"`
}

// History returns the history of caseNumber. Activities whose date did not
// parse sort after the dated ones, in recorded order.
func (l Ledger) History(caseNumber string) (*History, bool) {
	r, ok := l[strings.TrimSpace(caseNumber)]
	if !ok {
		return nil, false
	}

	type dated struct {
		a  Activity
		at time.Time
		ok bool
	}
	rows := make([]dated, len(r.Activities))
	for i, a := range r.Activities {
		at, err := time.Parse(time.RFC3339, a.Date)
		rows[i] = dated{a: a, at: at, ok: err == nil}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].ok && rows[i].at.After(rows[j].at)
	})

	h := &History{
		CaseInfo:      r.CaseInfo,
		SentCount:     r.SentCount,
		ReceivedCount: r.ReceivedCount,
		LastContact:   r.LastContact,
		LastSent:      r.LastSent,
		LastReceived:  r.LastReceived,
		Activities:    make([]Activity, len(rows)),
	}
	for i, row := range rows {
		h.Activities[i] = row.a
	}
	return h, true
}

// FirmStats aggregates the cases of one law firm.
type FirmStats struct {
	LawFirm    string `json:"law_firm"`
	Cases      int    `json:"cases"`
	Contacted  int    `json:"contacted"`
	Responsive int    `json:"responsive"`
	Sent       int    `json:"sent"`
	Received   int    `json:"received"`
	// Percentage of contacted cases with at least one reply.
	ResponseRate float64 `json:"response_rate"`
}

// UnknownFirm groups cases with no law firm.
const UnknownFirm = "Unknown"

// FirmStatistics groups l by law firm, best response rate first.
func FirmStatistics(l Ledger) []FirmStats {
	byFirm := make(map[string]*FirmStats)
	for _, r := range l {
		firm := strings.TrimSpace(r.CaseInfo.LawFirm)
		if firm == "" {
			firm = UnknownFirm
		}
		fs, ok := byFirm[firm]
		if !ok {
			fs = &FirmStats{LawFirm: firm}
			byFirm[firm] = fs
		}
		fs.Cases++
		fs.Sent += r.SentCount
		fs.Received += r.ReceivedCount
		if r.SentCount > 0 {
			fs.Contacted++
			if r.ReceivedCount > 0 {
				fs.Responsive++
			}
		}
	}

	out := make([]FirmStats, 0, len(byFirm))
	for _, fs := range byFirm {
		if fs.Contacted > 0 {
			rate := float64(fs.Responsive) / float64(fs.Contacted) * 100
			fs.ResponseRate = math.Round(rate*10) / 10
		}
		out = append(out, *fs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ResponseRate != out[j].ResponseRate {
			return out[i].ResponseRate > out[j].ResponseRate
		}
		return out[i].LawFirm < out[j].LawFirm
	})
	return out
}
