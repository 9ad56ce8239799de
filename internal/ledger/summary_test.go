package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustJay7/collections-tracker/internal/model"
)

func record(firm string, sent, received int) *TrackingRecord {
	r := newRecord(model.Case{LawFirm: firm})
	for i := 0; i < sent; i++ {
		r.add(Activity{Direction: model.DirectionSent}, nil)
	}
	for i := 0; i < received; i++ {
		r.add(Activity{Direction: model.DirectionReceived}, nil)
	}
	return r
}

func TestSummarize(t *testing.T) {
	l := Ledger{
		"1": record("A", 0, 0),
		"2": record("A", 2, 0),
		"3": record("B", 1, 3),
		"4": record("B", 0, 1),
	}

	assert.Equal(t, Summary{
		TotalCases:     4,
		WithActivity:   3,
		WithResponses:  2,
		NoResponse:     1,
		NeverContacted: 1,
		TotalSent:      3,
		TotalReceived:  4,
	}, Summarize(l))
}

func TestHistoryNewestFirst(t *testing.T) {
	r := newRecord(model.Case{CaseNumber: "333925"})
	for _, a := range []Activity{
		{MessageID: "old", Date: testNow.AddDate(0, 0, -30).Format(time.RFC3339)},
		{MessageID: "raw", Date: "not a date"},
		{MessageID: "new", Date: testNow.AddDate(0, 0, -1).Format(time.RFC3339)},
		{MessageID: "mid", Date: testNow.AddDate(0, 0, -7).Format(time.RFC3339)},
	} {
		r.add(a, nil)
	}
	l := Ledger{"333925": r}

	h, ok := l.History(" 333925 ")
	require.True(t, ok)

	var order []string
	for _, a := range h.Activities {
		order = append(order, a.MessageID)
	}
	assert.Equal(t, []string{"new", "mid", "old", "raw"}, order)

	// The stored record keeps insertion order.
	assert.Equal(t, "old", r.Activities[0].MessageID)

	_, ok = l.History("999999")
	assert.False(t, ok)
}

func TestFirmStatistics(t *testing.T) {
	l := Ledger{
		"1": record("Smith & Co", 1, 1),
		"2": record("Smith & Co", 2, 0),
		"3": record("Jones LLP", 1, 2),
		"4": record("", 0, 0),
		"5": record("Acme Law", 3, 0),
	}

	stats := FirmStatistics(l)
	require.Len(t, stats, 4)

	assert.Equal(t, "Jones LLP", stats[0].LawFirm)
	assert.Equal(t, 100.0, stats[0].ResponseRate)

	assert.Equal(t, "Smith & Co", stats[1].LawFirm)
	assert.Equal(t, 50.0, stats[1].ResponseRate)
	assert.Equal(t, 2, stats[1].Cases)
	assert.Equal(t, 2, stats[1].Contacted)
	assert.Equal(t, 1, stats[1].Responsive)
	assert.Equal(t, 3, stats[1].Sent)

	// Zero rates sort by name.
	assert.Equal(t, "Acme Law", stats[2].LawFirm)
	assert.Equal(t, UnknownFirm, stats[3].LawFirm)
	assert.Zero(t, stats[3].Contacted)
}
