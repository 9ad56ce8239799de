package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDOI(t *testing.T) {
	want := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2023-05-01", true, want},
		{"05/01/2023", true, want},
		{"5/1/2023", true, want},
		{"05-01-2023", true, want},
		{"5/1/23", true, want},
		{"May 1, 2023", true, want},
		{"2023-05-01 00:00:00", true, want},
		{"05/01/2023 12:00 AM", true, want},
		{"01/01/2099", false, time.Time{}},
		{"2099-12-31", false, time.Time{}},
		{"NONE", false, time.Time{}},
		{"", false, time.Time{}},
		{"sometime last spring", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDOI(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestDOIDay(t *testing.T) {
	assert.Equal(t, "2023-05-01", DOIDay("05/01/2023"))
	assert.Equal(t, "2023-05-01", DOIDay("May 1, 2023"))
	assert.Empty(t, DOIDay("01/01/2099"))
	assert.Empty(t, DOIDay(""))
}

func TestParseMentionedDate(t *testing.T) {
	for _, form := range []string{
		"05/01/2023", "5/1/2023", "05-01-2023", "5-1-2023",
		"2023-05-01", "2023-5-1", "2023/05/01",
		"May 1, 2023", "may 01 2023", "1 May 2023", "01 May, 2023", "May. 1, 2023",
	} {
		t.Run(form, func(t *testing.T) {
			got, ok := ParseMentionedDate(form)
			assert.True(t, ok)
			assert.Equal(t, "2023-05-01", DayKey(got))
		})
	}

	got, ok := ParseMentionedDate("Sept 5, 2023")
	assert.True(t, ok)
	assert.Equal(t, "2023-09-05", DayKey(got))

	got, ok = ParseMentionedDate("September 5 2023")
	assert.True(t, ok)
	assert.Equal(t, "2023-09-05", DayKey(got))

	_, ok = ParseMentionedDate("13/45/2023")
	assert.False(t, ok)
}

func TestCanonicalDate(t *testing.T) {
	assert.Equal(t, "jan 5 2023", canonicalDate("Jan. 5, 2023"))
	assert.Equal(t, "january 5 2023", canonicalDate("January  5,2023"))
	assert.Equal(t, "05/01/2023", canonicalDate("05/01/2023"))
}
