package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCellDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{"Slash format", "15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"Dash format", "15-01-2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"ISO format", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"Surrounding whitespace", "  31/12/2023 ", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"Empty", "", time.Time{}, false},
		{"Free text", "sin fecha", time.Time{}, false},
		{"US ambiguous rejected", "2024/01/15", time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseCellDate(tc.input)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.True(t, tc.expected.Equal(got))
			}
		})
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	inputs := []string{"01/01/2020", "29/02/2024", "31/12/2023", "15/07/2021"}
	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			d, ok := ParseCellDate(s)
			assert.True(t, ok)
			assert.Equal(t, s, FormatDate(d))
		})
	}
}

func TestFormatDateZero(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestEndOfMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tc := range tests {
		got := EndOfMonth(tc.year, tc.month)
		assert.Equal(t, tc.expected, got.Day())
		assert.Equal(t, tc.month, got.Month())
		assert.Equal(t, tc.year, got.Year())
	}
}

func TestMonthYearFromFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		year  int
		month time.Month
		ok    bool
	}{
		{"Numeric token with dash", "gastos 03-2024.xlsx", 2024, time.March, true},
		{"Numeric token with underscore", "gastos_11_2023.xlsx", 2023, time.November, true},
		{"Spanish month name", "Gastos Enero 2024.xlsx", 2024, time.January, true},
		{"Accented month name", "planilla setiembre 2022.xlsx", 2022, time.September, true},
		{"Month name without year", "gastos de enero.xlsx", 0, 0, false},
		{"Month 13 rejected", "gastos 13-2024.xlsx", 0, 0, false},
		{"Year below 2000 rejected", "gastos 03-1999.xlsx", 0, 0, false},
		{"Nothing to infer", "planilla.xlsx", 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			year, month, ok := MonthYearFromFilename(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.year, year)
				assert.Equal(t, tc.month, month)
			}
		})
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsWeekend(saturday))
	assert.True(t, IsWeekend(sunday))
	assert.False(t, IsWeekend(monday))
}
