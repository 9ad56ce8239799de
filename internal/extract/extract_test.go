package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseNumbers(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"labelled with colon", "Re: PV: 123456 balance", []string{"123456"}},
		{"labelled with hash", "File #4321 update", []string{"4321"}},
		{"labelled glued", "pv333925 status", []string{"333925"}},
		{"labelled number word", "Case No. 98765", []string{"98765"}},
		{"reference label", "reference 55512", []string{"55512"}},
		{"bare number", "see 333925 attached", []string{"333925"}},
		{"year-like bare number rejected", "invoice 202301 paid", []string{}},
		{"year-like labelled accepted", "case 200145", []string{"200145"}},
		{"four digit bare ignored", "room 4521", []string{}},
		{"too long ignored", "tracking 12345678", []string{}},
		{"date digits ignored", "DOI 05/01/2023", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.CaseNumbers(tt.text).Sorted())
		})
	}
}

func TestCustomLabels(t *testing.T) {
	e := New([]string{"matter"})

	assert.Equal(t, []string{"4455"}, e.CaseNumbers("Matter 4455").Sorted())
	assert.Empty(t, e.CaseNumbers("pv 4455").Sorted())
}

func TestDates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"slash", "DOI 05/01/2023", []string{"05/01/2023"}},
		{"dash month first", "injured 5-1-2023", []string{"5-1-2023"}},
		{"iso", "date 2023-05-01", []string{"2023-05-01"}},
		{"month name", "on January 15, 2023 the", []string{"January 15, 2023"}},
		{"abbreviated month", "on Jan. 15 2023", []string{"Jan. 15 2023"}},
		{"day first", "on 15 march 2023", []string{"15 march 2023"}},
		{"several", "05/01/2023 and 2022-12-31", []string{"05/01/2023", "2022-12-31"}},
		{"none", "no dates here", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dates(tt.text).Sorted())
		})
	}
}

func TestExtractUnion(t *testing.T) {
	got := New(nil).Extract("PV 333925 Jane Doe DOI 05/01/2023")

	assert.True(t, got.Has("333925"))
	assert.True(t, got.Has("05/01/2023"))
	assert.Len(t, got, 2)
}
