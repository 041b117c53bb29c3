// Package dateutils provides the date operations used throughout the pipeline.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"gastos-csv/internal/textutils"
)

// Date format constants used throughout the application
const (
	DateLayoutARS = "02/01/2006" // DD/MM/YYYY, the ledger's display format
	DateLayoutDMY = "02-01-2006"
	DateLayoutISO = "2006-01-02"
)

// CellFormats is the list of layouts accepted for date cells, in order.
var CellFormats = []string{
	DateLayoutARS,
	DateLayoutDMY,
	DateLayoutISO,
}

// monthYearToken matches an explicit MM-YYYY / MM_YYYY / MM/YYYY token.
var monthYearToken = regexp.MustCompile(`\b(0?[1-9]|1[0-2])[-_/](20[0-9]{2})\b`)

var yearToken = regexp.MustCompile(`(20[0-9]{2})`)

type spanishMonth struct {
	name  string
	month time.Month
}

// spanishMonths holds normalized Spanish month names in calendar order.
// "setiembre" is a common regional spelling for September.
var spanishMonths = []spanishMonth{
	{"enero", time.January},
	{"febrero", time.February},
	{"marzo", time.March},
	{"abril", time.April},
	{"mayo", time.May},
	{"junio", time.June},
	{"julio", time.July},
	{"agosto", time.August},
	{"septiembre", time.September},
	{"setiembre", time.September},
	{"octubre", time.October},
	{"noviembre", time.November},
	{"diciembre", time.December},
}

// ParseCellDate attempts to parse a date cell using the accepted layouts.
// Returns the zero time and false when no layout matches.
func ParseCellDate(s string) (time.Time, bool) {
	cleaned := strings.TrimSpace(s)
	for _, layout := range CellFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date as DD/MM/YYYY, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayoutARS)
}

// EndOfMonth returns the last calendar day of the given month.
func EndOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}

// MonthYearFromFilename derives a fallback (year, month) from a file name.
// It first looks for an explicit MM-YYYY/MM_YYYY/MM/YYYY token, then for a
// Spanish month name alongside a four-digit year anywhere in the normalized
// name. Returns false when neither is present.
func MonthYearFromFilename(name string) (int, time.Month, bool) {
	s := textutils.NormalizeText(name)

	if m := monthYearToken.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		return year, time.Month(month), true
	}

	for _, sm := range spanishMonths {
		if !strings.Contains(s, sm.name) {
			continue
		}
		if y := yearToken.FindString(s); y != "" {
			year, _ := strconv.Atoi(y)
			return year, sm.month, true
		}
	}

	return 0, 0, false
}

// IsWeekend reports whether a date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	day := date.Weekday()
	return day == time.Saturday || day == time.Sunday
}
