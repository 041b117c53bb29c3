// Package extractor walks the raw cell grid of an expense workbook and
// produces normalized records. Rows are processed strictly top to bottom
// because the category hierarchy is carried forward from earlier rows.
package extractor

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gastos-csv/internal/dateutils"
	"gastos-csv/internal/enrich"
	"gastos-csv/internal/logging"
	"gastos-csv/internal/models"
	"gastos-csv/internal/parsererror"
	"gastos-csv/internal/rubro"
	"gastos-csv/internal/textutils"
)

// Sheet selection phrases, matched against normalized sheet names.
const (
	sheetTargetPhrase   = "gastos del mes"
	sheetFallbackPhrase = "gastos"
)

// Tracked columns of the source grid, 0-based. Column A and anything beyond
// J are ignored.
const (
	colCategoria = iota + 1 // B
	colSubcategoria         // C
	colSubsubcategoria      // D
	colTipoGasto            // E
	colFecha                // F
	colCodigo               // G
	colAcreedor             // H
	colDescripcion          // I
	colMonto                // J
)

// Options controls per-run extraction behavior.
type Options struct {
	// Enrich enables the CUIT lookup for rows that carry a tax id.
	Enrich bool
	// RateLimit is the mandatory pause after every cache-miss lookup,
	// success or failure. It blocks the whole pipeline on purpose: it is
	// backpressure against the remote service, not an optimization target.
	RateLimit time.Duration
	// Cache memoizes lookups per run. It is shared across all files so a
	// creditor appearing in several months costs one network call.
	Cache map[string]string
	// Sleep is replaceable in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// Extractor turns one workbook into a slice of normalized records.
type Extractor struct {
	fx       *models.FxSeries
	detector *rubro.Detector
	enricher enrich.Lookup
	logger   logging.Logger
}

// New creates an Extractor. The enricher may be nil when enrichment is
// disabled for the run.
func New(fx *models.FxSeries, detector *rubro.Detector, enricher enrich.Lookup, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if detector == nil {
		detector = rubro.NewDetector(nil)
	}
	return &Extractor{fx: fx, detector: detector, enricher: enricher, logger: logger}
}

// FindTargetSheet picks the sheet to extract from: the first whose
// normalized name contains "gastos del mes", else the first containing
// "gastos", else the first sheet. Returns false for a sheetless workbook.
func FindTargetSheet(sheetNames []string) (string, bool) {
	for _, name := range sheetNames {
		if strings.Contains(textutils.NormalizeText(name), sheetTargetPhrase) {
			return name, true
		}
	}
	for _, name := range sheetNames {
		if strings.Contains(textutils.NormalizeText(name), sheetFallbackPhrase) {
			return name, true
		}
	}
	if len(sheetNames) > 0 {
		return sheetNames[0], true
	}
	return "", false
}

// ExtractFile reads one workbook and returns its normalized records. An
// unreadable workbook or a sheetless one returns a typed error; the caller
// logs it and skips the file, contributing zero records to the run.
func (e *Extractor) ExtractFile(path string, opts Options) ([]models.ExtractedRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &parsererror.WorkbookError{FilePath: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheet, ok := FindTargetSheet(f.GetSheetList())
	if !ok {
		return nil, &parsererror.SheetNotFoundError{FilePath: path}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &parsererror.WorkbookError{FilePath: path, Err: err}
	}

	origin := filepath.Base(path)
	fallbackYear, fallbackMonth, hasFallback := dateutils.MonthYearFromFilename(origin)

	log := e.logger.WithField("file", origin)
	log.Debug("Extracting sheet",
		logging.F("sheet", sheet),
		logging.F("rows", len(rows)),
		logging.F("fallback_ym", hasFallback))

	var records []models.ExtractedRecord
	var lastCat, lastSub, lastSubsub string
	var emptySkips, totalSkips, missingCoreSkips int

	for idx, row := range rows {
		if isEmptyRow(row) {
			emptySkips++
			continue
		}

		// Carry-forward. The category column overwrites unconditionally on
		// non-blank text; sub levels ignore total markers so a "Total" cell
		// cannot clobber the carried value.
		if v := strings.TrimSpace(cell(row, colCategoria)); v != "" {
			lastCat = v
		}
		if v := strings.TrimSpace(cell(row, colSubcategoria)); v != "" && !textutils.IsTotalMarker(v) {
			lastSub = v
		}
		if v := strings.TrimSpace(cell(row, colSubsubcategoria)); v != "" && !textutils.IsTotalMarker(v) {
			lastSubsub = v
		}

		// Total rows are dropped after the carry-forward update above.
		if textutils.IsTotalMarker(cell(row, colCategoria)) ||
			textutils.IsTotalMarker(cell(row, colSubcategoria)) ||
			textutils.IsTotalMarker(cell(row, colSubsubcategoria)) {
			totalSkips++
			continue
		}

		tipoGasto := strings.TrimSpace(cell(row, colTipoGasto))
		codigo := strings.TrimSpace(cell(row, colCodigo))
		acreedor, cuit := textutils.ParseTaxIDFromPayee(cell(row, colAcreedor))
		memo := strings.TrimSpace(cell(row, colDescripcion))
		montoARS := resolveAmount(f, sheet, idx, cell(row, colMonto))

		// Not enough signal to be an expense line.
		if tipoGasto == "" && memo == "" && !montoARS.Valid {
			missingCoreSkips++
			continue
		}

		record := models.ExtractedRecord{
			Codigo:          codigo,
			Categoria:       lastCat,
			Subcategoria:    lastSub,
			Subsubcategoria: lastSubsub,
			Acreedor:        acreedor,
			IDAcreedor:      cuit,
			TipoGasto:       tipoGasto,
			Descripcion:     memo,
			MontoARS:        montoARS,
			Origen:          origin,
		}

		fecha, dateObs := resolveDate(f, sheet, idx, cell(row, colFecha), fallbackYear, fallbackMonth, hasFallback)
		record.Fecha = fecha

		if record.HasDate() {
			record.TipoCambio = e.fx.RateFor(record.Fecha)
		}
		if record.MontoARS.Valid && record.TipoCambio.Valid && !record.TipoCambio.Decimal.IsZero() {
			record.MontoUSD = decimalDiv(record.MontoARS, record.TipoCambio)
		}

		record.Rubro = e.detector.Detect(record.Categoria, record.Subcategoria, record.Descripcion)

		if dateObs != "" {
			record.AddObservation(dateObs)
		}
		if !record.MontoARS.Valid {
			record.AddObservation(models.ObsMissingAmount)
		}
		if !record.HasDate() {
			record.AddObservation(models.ObsMissingDate)
		}

		if cuit != "" && opts.Enrich {
			e.enrichRecord(&record, cuit, opts, log.WithField("row", idx))
		}

		records = append(records, record)
	}

	log.Debug("Sheet extraction finished",
		logging.F("records", len(records)),
		logging.F("empty_skips", emptySkips),
		logging.F("total_marker_skips", totalSkips),
		logging.F("missing_core_skips", missingCoreSkips))
	return records, nil
}

// resolveAmount reads the amount cell honoring its stored type: a native
// numeric cell already carries a canonical decimal value and must not go
// through the es-AR locale rewrite, which would read its "." as a thousands
// separator. Only text cells get the locale parse.
func resolveAmount(f *excelize.File, sheet string, rowIdx int, display string) decimal.NullDecimal {
	if raw, ok := rawNumericCell(f, sheet, colMonto, rowIdx); ok {
		if d, err := decimal.NewFromString(raw); err == nil {
			return decimal.NewNullDecimal(d)
		}
	}
	return textutils.ParseLocaleNumber(display)
}

// resolveDate reads the date cell honoring its stored type: a native
// date-typed cell holds an Excel serial whose display rendering depends on
// the cell format and would match none of the accepted text layouts. Text
// cells go through the layout parse, then the filename-derived end of month.
// The returned observation is empty on a clean resolution.
func resolveDate(f *excelize.File, sheet string, rowIdx int, display string, year int, month time.Month, hasFallback bool) (time.Time, string) {
	if raw, ok := rawNumericCell(f, sheet, colFecha, rowIdx); ok {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), ""
			}
		}
	}
	if d, ok := dateutils.ParseCellDate(display); ok {
		return d, ""
	}
	if hasFallback {
		return dateutils.EndOfMonth(year, month), models.ObsDateFromFilename
	}
	return time.Time{}, ""
}

// rawNumericCell returns the unformatted value of a cell when the cell is
// stored as a number. String cells (shared, inline or formula strings)
// report false so callers apply text parsing instead.
func rawNumericCell(f *excelize.File, sheet string, col, rowIdx int) (string, bool) {
	cellName, err := excelize.CoordinatesToCellName(col+1, rowIdx+1)
	if err != nil {
		return "", false
	}
	ctype, err := f.GetCellType(sheet, cellName)
	if err != nil {
		return "", false
	}
	// Numeric cells carry no explicit type attribute in the sheet XML, so
	// they surface as unset rather than number.
	if ctype != excelize.CellTypeNumber && ctype != excelize.CellTypeUnset {
		return "", false
	}
	raw, err := f.GetCellValue(sheet, cellName, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	return raw, true
}

// enrichRecord resolves fiscal info for the record's tax id, memoized in the
// run cache. Every cache miss sleeps afterwards, success or failure; cache
// hits never sleep.
func (e *Extractor) enrichRecord(record *models.ExtractedRecord, cuit string, opts Options, log logging.Logger) {
	if info, ok := opts.Cache[cuit]; ok {
		record.DatosFiscales = info
		log.Debug("Enrichment cache hit", logging.F("cuit", cuit))
		return
	}

	var info string
	var err error
	if e.enricher != nil {
		info, err = e.enricher.Enrich(cuit)
	}
	if err == nil && info != "" {
		record.DatosFiscales = info
		if opts.Cache != nil {
			opts.Cache[cuit] = info
		}
		log.Debug("Enrichment succeeded", logging.F("cuit", cuit))
	} else {
		record.AddObservation(models.ObsEnrichFailed)
		if err != nil {
			log.WithError(err).Debug("Enrichment failed", logging.F("cuit", cuit))
		}
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(opts.RateLimit)
}

// cell returns the trimmed-row-safe value at idx; excelize trims trailing
// empty cells so short rows are expected.
func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isEmptyRow(row []string) bool {
	for i := colCategoria; i <= colMonto; i++ {
		if strings.TrimSpace(cell(row, i)) != "" {
			return false
		}
	}
	return true
}

func decimalDiv(num, den decimal.NullDecimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: num.Decimal.Div(den.Decimal), Valid: true}
}
