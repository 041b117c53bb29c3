package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FxPoint is one observed exchange rate.
type FxPoint struct {
	Date time.Time
	Rate decimal.Decimal
}

// FxSeries is an ordered date→rate lookup. Points are sorted ascending by
// date; the strictly non-decreasing order is what makes the binary search in
// RateFor valid. Built once at process start, immutable afterwards.
type FxSeries struct {
	points []FxPoint
}

// NewFxSeries builds a series from unordered points.
func NewFxSeries(points []FxPoint) *FxSeries {
	sorted := make([]FxPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return &FxSeries{points: sorted}
}

// Len returns the number of points in the series.
func (s *FxSeries) Len() int {
	return len(s.points)
}

// RateFor resolves the exchange rate applicable at d: the rightmost point
// dated on or before d, else the first future point. Returning a forward
// rate for dates preceding the series start is deliberate lenience, not a
// fallback of last resort. An empty series yields Valid=false.
func (s *FxSeries) RateFor(d time.Time) decimal.NullDecimal {
	if len(s.points) == 0 {
		return decimal.NullDecimal{}
	}

	// sort.Search finds the first point strictly after d; the entry just
	// before it is the rightmost point <= d.
	idx := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Date.After(d)
	})
	if idx > 0 {
		return decimal.NullDecimal{Decimal: s.points[idx-1].Rate, Valid: true}
	}

	// Query precedes the whole series: degrade to the nearest future rate.
	return decimal.NullDecimal{Decimal: s.points[0].Rate, Valid: true}
}
