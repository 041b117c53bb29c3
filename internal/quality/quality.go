// Package quality annotates consolidated records with data-quality
// observations: possible duplicates and atypical amounts. Nothing is ever
// dropped here, only flagged.
package quality

import (
	"sort"
	"strings"

	"gastos-csv/internal/dateutils"
	"gastos-csv/internal/logging"
	"gastos-csv/internal/models"
	"gastos-csv/internal/textutils"
)

// minOutlierSample is the smallest positive-amount pool the IQR fence is
// computed over. Below it the fence is too noisy to be useful.
const minOutlierSample = 8

// memoKeyLength bounds the memo contribution to the duplicate key so small
// trailing edits still group together.
const memoKeyLength = 40

// Annotate flags possible duplicates and then atypical amounts across the
// whole consolidated set, in that order. Records are modified in place.
func Annotate(records []models.ExtractedRecord, logger logging.Logger) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	duplicates := annotateDuplicates(records)
	outliers := annotateOutliers(records)

	logger.Info("Quality annotation finished",
		logging.F("records", len(records)),
		logging.F("duplicates", duplicates),
		logging.F("outliers", outliers))
}

// annotateDuplicates groups records by date, creditor identity, rounded
// amount and memo prefix, and flags every member of a group of two or more.
func annotateDuplicates(records []models.ExtractedRecord) int {
	groups := make(map[string][]int, len(records))
	for i := range records {
		key := duplicateKey(&records[i])
		groups[key] = append(groups[key], i)
	}

	flagged := 0
	for _, indexes := range groups {
		if len(indexes) < 2 {
			continue
		}
		for _, i := range indexes {
			records[i].AddObservation(models.ObsDuplicate)
			flagged++
		}
	}
	return flagged
}

// duplicateKey builds the grouping key. The tax id identifies the creditor
// when present; otherwise the normalized display name does. A missing amount
// keys as zero so two amount-less rows can still collide.
func duplicateKey(r *models.ExtractedRecord) string {
	id := r.IDAcreedor
	if id == "" {
		id = textutils.NormalizeText(r.Acreedor)
	}

	amount := "0.00"
	if r.MontoARS.Valid {
		amount = r.MontoARS.Decimal.Round(2).StringFixed(2)
	}

	memo := []rune(textutils.NormalizeText(r.Descripcion))
	if len(memo) > memoKeyLength {
		memo = memo[:memoKeyLength]
	}

	return strings.Join([]string{dateutils.FormatDate(r.Fecha), id, amount, string(memo)}, "|")
}

// annotateOutliers flags amounts outside the 1.5×IQR fence. The fence is
// fitted on strictly positive amounts only, but once fitted it applies to
// every record with an amount, whatever its sign.
func annotateOutliers(records []models.ExtractedRecord) int {
	var pool []float64
	for i := range records {
		if records[i].MontoARS.Valid && records[i].MontoARS.Decimal.IsPositive() {
			pool = append(pool, records[i].MontoARS.Decimal.InexactFloat64())
		}
	}
	if len(pool) < minOutlierSample {
		return 0
	}
	sort.Float64s(pool)

	q1 := percentile(pool, 0.25)
	q3 := percentile(pool, 0.75)
	iqr := q3 - q1
	low := q1 - 1.5*iqr
	high := q3 + 1.5*iqr

	flagged := 0
	for i := range records {
		if !records[i].MontoARS.Valid {
			continue
		}
		v := records[i].MontoARS.Decimal.InexactFloat64()
		if v < low || v > high {
			records[i].AddObservation(models.ObsOutlier)
			flagged++
		}
	}
	return flagged
}

// percentile computes the q-th quantile of sorted with linear interpolation
// between closest ranks.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	h := q * float64(len(sorted)-1)
	lo := int(h)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
