// Package report builds audit summaries over an already consolidated CSV:
// totals, repeated charges, suspicious amounts and weekend operations.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gastos-csv/internal/dateutils"
	"gastos-csv/internal/logging"
	"gastos-csv/internal/models"
)

// minRubroSample is the smallest per-rubro amount pool the IQR fence is
// computed over.
const minRubroSample = 8

// Audit is the result of analyzing a consolidated ledger.
type Audit struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	SourceFile      string           `json:"source_file"`
	TotalRecords    int              `json:"total_records"`
	TotalARS        decimal.Decimal  `json:"total_ars"`
	TotalUSD        decimal.Decimal  `json:"total_usd"`
	MissingAmounts  int              `json:"missing_amounts"`
	MissingDates    int              `json:"missing_dates"`
	RubroTotals     []RubroTotal     `json:"rubro_totals"`
	DuplicateGroups []DuplicateGroup `json:"duplicate_groups"`
	ZeroOrNegative  []LineRef        `json:"zero_or_negative"`
	WeekendOps      []LineRef        `json:"weekend_ops"`
	RubroOutliers   []LineRef        `json:"rubro_outliers"`
}

// RubroTotal aggregates one rubro.
type RubroTotal struct {
	Rubro    string          `json:"rubro"`
	Count    int             `json:"count"`
	TotalARS decimal.Decimal `json:"total_ars"`
}

// DuplicateGroup is a set of rows sharing date, rubro and amount.
type DuplicateGroup struct {
	Fecha    string `json:"fecha"`
	Rubro    string `json:"rubro"`
	MontoARS string `json:"monto_ars"`
	Count    int    `json:"count"`
}

// LineRef points back at one ledger row.
type LineRef struct {
	Fecha    string `json:"fecha"`
	Rubro    string `json:"rubro"`
	Acreedor string `json:"acreedor"`
	MontoARS string `json:"monto_ars"`
	Origen   string `json:"origen"`
}

// Analyzer computes an Audit from ledger rows.
type Analyzer struct {
	logger logging.Logger
	now    func() time.Time
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Analyzer{logger: logger, now: time.Now}
}

// Analyze walks the rows once per concern and assembles the audit. Rows with
// unparseable dates or amounts are counted as missing rather than failing
// the whole audit.
func (a *Analyzer) Analyze(sourceFile string, rows []models.CSVRow) *Audit {
	audit := &Audit{
		GeneratedAt:  a.now(),
		SourceFile:   sourceFile,
		TotalRecords: len(rows),
	}

	rubroTotals := make(map[string]*RubroTotal)
	rubroAmounts := make(map[string][]float64)
	duplicates := make(map[string]*DuplicateGroup)

	for i := range rows {
		row := &rows[i]
		rubro := rubroLabel(row.Rubro)

		date, hasDate := dateutils.ParseCellDate(row.Fecha)
		if !hasDate {
			audit.MissingDates++
		}

		amount, hasAmount := parseAmount(row.MontoARS)
		if !hasAmount {
			audit.MissingAmounts++
		}
		if usd, ok := parseAmount(row.MontoUSD); ok {
			audit.TotalUSD = audit.TotalUSD.Add(usd)
		}

		total, ok := rubroTotals[rubro]
		if !ok {
			total = &RubroTotal{Rubro: rubro}
			rubroTotals[rubro] = total
		}
		total.Count++

		if hasAmount {
			audit.TotalARS = audit.TotalARS.Add(amount)
			total.TotalARS = total.TotalARS.Add(amount)
			if amount.IsPositive() {
				rubroAmounts[rubro] = append(rubroAmounts[rubro], amount.InexactFloat64())
			} else {
				audit.ZeroOrNegative = append(audit.ZeroOrNegative, lineRef(row))
			}

			key := strings.Join([]string{row.Fecha, rubro, amount.StringFixed(2)}, "|")
			group, ok := duplicates[key]
			if !ok {
				group = &DuplicateGroup{Fecha: row.Fecha, Rubro: rubro, MontoARS: amount.StringFixed(2)}
				duplicates[key] = group
			}
			group.Count++
		}

		if hasDate && dateutils.IsWeekend(date) {
			audit.WeekendOps = append(audit.WeekendOps, lineRef(row))
		}
	}

	for _, total := range rubroTotals {
		audit.RubroTotals = append(audit.RubroTotals, *total)
	}
	sort.Slice(audit.RubroTotals, func(i, j int) bool {
		return audit.RubroTotals[i].TotalARS.GreaterThan(audit.RubroTotals[j].TotalARS)
	})

	for _, group := range duplicates {
		if group.Count >= 2 {
			audit.DuplicateGroups = append(audit.DuplicateGroups, *group)
		}
	}
	sort.Slice(audit.DuplicateGroups, func(i, j int) bool {
		if audit.DuplicateGroups[i].Fecha != audit.DuplicateGroups[j].Fecha {
			return audit.DuplicateGroups[i].Fecha < audit.DuplicateGroups[j].Fecha
		}
		return audit.DuplicateGroups[i].Rubro < audit.DuplicateGroups[j].Rubro
	})

	audit.RubroOutliers = a.findRubroOutliers(rows, rubroAmounts)

	a.logger.Info("Audit analysis finished",
		logging.F("records", audit.TotalRecords),
		logging.F("duplicate_groups", len(audit.DuplicateGroups)),
		logging.F("weekend_ops", len(audit.WeekendOps)),
		logging.F("rubro_outliers", len(audit.RubroOutliers)))
	return audit
}

// findRubroOutliers applies the 1.5×IQR fence per rubro, using only rubros
// with a sample big enough to make the fence meaningful.
func (a *Analyzer) findRubroOutliers(rows []models.CSVRow, rubroAmounts map[string][]float64) []LineRef {
	fences := make(map[string][2]float64)
	for rubro, amounts := range rubroAmounts {
		if len(amounts) < minRubroSample {
			continue
		}
		sort.Float64s(amounts)
		q1 := percentile(amounts, 0.25)
		q3 := percentile(amounts, 0.75)
		iqr := q3 - q1
		fences[rubro] = [2]float64{q1 - 1.5*iqr, q3 + 1.5*iqr}
	}
	if len(fences) == 0 {
		return nil
	}

	var outliers []LineRef
	for i := range rows {
		row := &rows[i]
		fence, ok := fences[rubroLabel(row.Rubro)]
		if !ok {
			continue
		}
		amount, hasAmount := parseAmount(row.MontoARS)
		if !hasAmount {
			continue
		}
		v := amount.InexactFloat64()
		if v < fence[0] || v > fence[1] {
			outliers = append(outliers, lineRef(row))
		}
	}
	return outliers
}

func lineRef(row *models.CSVRow) LineRef {
	return LineRef{
		Fecha:    row.Fecha,
		Rubro:    rubroLabel(row.Rubro),
		Acreedor: row.Acreedor,
		MontoARS: row.MontoARS,
		Origen:   row.Origen,
	}
}

func rubroLabel(rubro string) string {
	if rubro == "" {
		return "Sin rubro"
	}
	return rubro
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
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
