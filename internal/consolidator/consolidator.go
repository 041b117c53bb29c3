// Package consolidator drives a full consolidation run: extract every input
// workbook, annotate the combined set, and filter it down to the requested
// period.
package consolidator

import (
	"fmt"
	"time"

	"gastos-csv/internal/enrich"
	"gastos-csv/internal/extractor"
	"gastos-csv/internal/logging"
	"gastos-csv/internal/models"
	"gastos-csv/internal/quality"
	"gastos-csv/internal/rubro"
)

// Options controls one consolidation run.
type Options struct {
	// FromYear and ToYear bound the output period inclusively; zero means
	// unbounded on that side. When either bound is set, records without a
	// resolved date are dropped because they cannot be placed in the period.
	FromYear int
	ToYear   int
	// Enrich enables CUIT lookups.
	Enrich bool
	// RateLimit is the pause after each enrichment cache miss.
	RateLimit time.Duration
}

// Consolidator runs the pipeline over a set of workbooks.
type Consolidator struct {
	extractor *extractor.Extractor
	logger    logging.Logger
}

// New creates a Consolidator. The enricher may be nil when enrichment is
// disabled.
func New(fx *models.FxSeries, detector *rubro.Detector, enricher enrich.Lookup, logger logging.Logger) *Consolidator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Consolidator{
		extractor: extractor.New(fx, detector, enricher, logger),
		logger:    logger,
	}
}

// Run extracts files in order, annotates the combined records and applies
// the year filter. A file that cannot be read or has no usable sheet is
// logged and skipped; it contributes zero records. The enrichment cache is
// shared across all files so a creditor repeated over months costs one
// lookup per run.
func (c *Consolidator) Run(files []string, opts Options) ([]models.ExtractedRecord, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no input workbooks to consolidate")
	}

	extractOpts := extractor.Options{
		Enrich:    opts.Enrich,
		RateLimit: opts.RateLimit,
		Cache:     make(map[string]string),
	}

	var records []models.ExtractedRecord
	skipped := 0
	for _, file := range files {
		fileRecords, err := c.extractor.ExtractFile(file, extractOpts)
		if err != nil {
			c.logger.WithError(err).Warn("Skipping unreadable workbook",
				logging.F("file", file))
			skipped++
			continue
		}
		records = append(records, fileRecords...)
	}

	quality.Annotate(records, c.logger)
	records = filterByYear(records, opts.FromYear, opts.ToYear)

	c.logger.Info("Consolidation finished",
		logging.F("files", len(files)),
		logging.F("skipped_files", skipped),
		logging.F("records", len(records)))
	return records, nil
}

// ToRows projects records onto the output CSV schema, preserving order.
func ToRows(records []models.ExtractedRecord) []models.CSVRow {
	rows := make([]models.CSVRow, 0, len(records))
	for i := range records {
		rows = append(rows, records[i].ToCSVRow())
	}
	return rows
}

func filterByYear(records []models.ExtractedRecord, fromYear, toYear int) []models.ExtractedRecord {
	if fromYear == 0 && toYear == 0 {
		return records
	}

	filtered := records[:0]
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		year := r.Fecha.Year()
		if fromYear != 0 && year < fromYear {
			continue
		}
		if toYear != 0 && year > toYear {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
