// Package fxrate loads the USD-ARS exchange-rate reference file.
package fxrate

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"gastos-csv/internal/dateutils"
	"gastos-csv/internal/logging"
	"gastos-csv/internal/models"
	"gastos-csv/internal/textutils"
)

// csvRow mirrors the reference CSV. Historical exports label the rate column
// either "Valor ARS" or "Valor"; both are accepted.
type csvRow struct {
	Fecha    string `csv:"Fecha"`
	ValorARS string `csv:"Valor ARS"`
	Valor    string `csv:"Valor"`
}

func (r csvRow) rate() string {
	if r.ValorARS != "" {
		return r.ValorARS
	}
	return r.Valor
}

// Load reads the exchange-rate CSV into an FxSeries. The date column is
// DD/MM/YYYY, the rate column an es-AR formatted decimal. Rows with an
// unparseable date or rate are dropped silently; an unreadable file is an
// error, because the series is a precondition of the whole run.
func Load(path string, logger logging.Logger) (*models.FxSeries, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("Loading exchange-rate series", logging.F("file", path))

	file, err := os.Open(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("error opening exchange-rate file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close exchange-rate file")
		}
	}()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing exchange-rate file: %w", err)
	}

	var points []models.FxPoint
	dropped := 0
	for _, row := range rows {
		date, err := time.Parse(dateutils.DateLayoutARS, textutils.NormalizeText(row.Fecha))
		if err != nil {
			dropped++
			continue
		}
		rate := textutils.ParseLocaleNumber(row.rate())
		if !rate.Valid {
			dropped++
			continue
		}
		points = append(points, models.FxPoint{Date: date, Rate: rate.Decimal})
	}

	series := models.NewFxSeries(points)
	logger.Info("Exchange-rate series loaded",
		logging.F("points", series.Len()),
		logging.F("dropped", dropped))
	return series, nil
}
