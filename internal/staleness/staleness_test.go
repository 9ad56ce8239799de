package staleness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustJay7/collections-tracker/internal/ledger"
	"github.com/JustJay7/collections-tracker/internal/model"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func ago(days int) *time.Time {
	t := testNow.Add(-time.Duration(days) * 24 * time.Hour)
	return &t
}

func rec(sent, received int, last *time.Time, doi string) *ledger.TrackingRecord {
	return &ledger.TrackingRecord{
		CaseInfo:      model.Case{DateOfInjury: doi},
		SentCount:     sent,
		ReceivedCount: received,
		LastContact:   last,
	}
}

func TestClassifyRecord(t *testing.T) {
	recentDOI := testNow.AddDate(0, -6, 0).Format("2006-01-02")
	oldDOI := testNow.AddDate(-3, 0, 0).Format("2006-01-02")

	tests := []struct {
		name  string
		rec   *ledger.TrackingRecord
		cats  []Category
		flags []Flag
		days  int
	}{
		{"never contacted", rec(0, 0, nil, recentDOI), []Category{NeverContacted}, []Flag{}, -1},
		{"never contacted old case", rec(0, 0, nil, oldDOI), []Category{NeverContacted}, []Flag{StatuteReview}, -1},
		{"no response critical", rec(2, 0, ago(95), recentDOI), []Category{NoResponse, Critical}, []Flag{}, 95},
		{"critical boundary", rec(1, 1, ago(90), recentDOI), []Category{Critical, HasResponses}, []Flag{}, 90},
		{"high priority boundary", rec(1, 0, ago(60), recentDOI), []Category{NoResponse, HighPriority}, []Flag{}, 60},
		{"high priority upper", rec(1, 0, ago(89), recentDOI), []Category{NoResponse, HighPriority}, []Flag{}, 89},
		{"follow up boundary", rec(0, 1, ago(30), recentDOI), []Category{NeedsFollowUp, HasResponses}, []Flag{}, 30},
		{"recent", rec(1, 1, ago(29), recentDOI), []Category{HasResponses}, []Flag{RecentlyContacted}, 29},
		{"undated activity old case", rec(1, 0, nil, testNow.AddDate(-1, -1, 0).Format("2006-01-02")), []Category{NoResponse, Critical}, []Flag{}, -1},
		{"undated activity young case", rec(1, 0, nil, recentDOI), []Category{NoResponse}, []Flag{}, -1},
		{"missing doi", rec(1, 0, ago(1), "01/01/2099"), []Category{NoResponse}, []Flag{MissingDOI, RecentlyContacted}, 1},
	}

	c := New(DefaultThresholds(), fixedClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ClassifyRecord(tt.rec)
			assert.Equal(t, tt.cats, got.Categories)
			assert.Equal(t, tt.flags, got.Flags)
			assert.Equal(t, tt.days, got.DaysSinceContact)
		})
	}
}

func TestClassifyEndToEnd(t *testing.T) {
	l := ledger.Ledger{
		"333925": rec(1, 1, ago(5), "2023-05-01"),
	}

	report := New(DefaultThresholds(), fixedClock).Classify(l)

	assert.Equal(t, []string{"333925"}, report.Categories[HasResponses])
	for _, c := range []Category{Critical, HighPriority, NeedsFollowUp, NeverContacted, NoResponse} {
		assert.Empty(t, report.Categories[c], c)
	}
	assert.Equal(t, 5, report.DaysSinceContact["333925"])
}

func TestClassifyNeverContactedHasNoAgeBucket(t *testing.T) {
	l := ledger.Ledger{"1": rec(0, 0, nil, "2001-01-01")}

	report := New(DefaultThresholds(), fixedClock).Classify(l)

	assert.Equal(t, []string{"1"}, report.Categories[NeverContacted])
	for _, c := range []Category{Critical, HighPriority, NeedsFollowUp} {
		assert.Empty(t, report.Categories[c])
	}
}

func TestClassifyOrdersMostStaleFirst(t *testing.T) {
	l := ledger.Ledger{
		"100": rec(1, 0, ago(120), ""),
		"200": rec(1, 0, ago(300), ""),
		"300": rec(1, 0, nil, ""),
		"050": rec(1, 0, ago(120), ""),
	}

	report := New(DefaultThresholds(), fixedClock).Classify(l)

	assert.Equal(t, []string{"200", "050", "100"}, report.Categories[Critical])
	assert.Equal(t, []string{"200", "050", "100", "300"}, report.Categories[NoResponse])
}

func TestReportKeysAlwaysPresent(t *testing.T) {
	report := New(DefaultThresholds(), fixedClock).Classify(ledger.Ledger{})

	for _, c := range Categories {
		v, ok := report.Categories[c]
		require.True(t, ok, c)
		assert.NotNil(t, v)
	}
	assert.Equal(t, testNow, report.GeneratedAt)
}

func TestReportWithout(t *testing.T) {
	l := ledger.Ledger{
		"1": rec(1, 0, ago(100), ""),
		"2": rec(1, 0, ago(95), ""),
	}
	report := New(DefaultThresholds(), fixedClock).Classify(l)

	filtered := report.Without(map[string]struct{}{"1": {}})

	assert.Equal(t, []string{"2"}, filtered.Categories[Critical])
	assert.Equal(t, []string{"2"}, filtered.Flags[MissingDOI])
	assert.NotContains(t, filtered.DaysSinceContact, "1")
	assert.Equal(t, []string{"1", "2"}, report.Categories[Critical])
	assert.Equal(t, 1, filtered.Counts()[Critical])
	assert.Equal(t, 0, filtered.Counts()[HighPriority])
}

func TestCustomThresholds(t *testing.T) {
	th := Thresholds{FollowUpDays: 7, HighPriorityDays: 14, CriticalDays: 21}
	require.NoError(t, th.Validate())

	got := New(th, fixedClock).ClassifyRecord(rec(1, 1, ago(14), ""))
	assert.Equal(t, []Category{HighPriority, HasResponses}, got.Categories)
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{FollowUpDays: 0, HighPriorityDays: 60, CriticalDays: 90}.Validate())
	assert.Error(t, Thresholds{FollowUpDays: 30, HighPriorityDays: 30, CriticalDays: 90}.Validate())
	assert.Error(t, Thresholds{FollowUpDays: 30, HighPriorityDays: 90, CriticalDays: 60}.Validate())
}
