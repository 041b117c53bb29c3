// Package models defines the core data structures of the consolidation
// pipeline: the normalized expense record, its CSV projection and the
// exchange-rate series.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gastos-csv/internal/dateutils"
)

// ObservationSeparator joins accumulated observations in the CSV output.
const ObservationSeparator = "; "

// Observation strings appended by the extraction and quality passes. The
// wording is part of the output contract and matches the consolidated
// ledgers already in circulation.
const (
	ObsDateFromFilename = "Fecha inferida por nombre de archivo (fin de mes)"
	ObsMissingAmount    = "Falta importe ARS"
	ObsMissingDate      = "Falta fecha"
	ObsEnrichFailed     = "Enriquecimiento CUIT fallido"
	ObsDuplicate        = "Posible duplicado"
	ObsOutlier          = "Monto atípico"
)

// ExtractedRecord is one normalized expense line. It is created during
// extraction and mutated only by the quality annotator, which appends to
// Observaciones; fields are never reset between phases.
//
// A zero Fecha means the date is missing. Amounts use decimal.NullDecimal so
// "absent" is never conflated with zero.
type ExtractedRecord struct {
	Fecha           time.Time
	Codigo          string
	Categoria       string
	Subcategoria    string
	Subsubcategoria string
	Rubro           string
	Acreedor        string
	IDAcreedor      string
	TipoGasto       string
	Descripcion     string
	MontoARS        decimal.NullDecimal
	TipoCambio      decimal.NullDecimal
	MontoUSD        decimal.NullDecimal
	DatosFiscales   string
	Observaciones   []string
	Origen          string
}

// AddObservation appends a diagnostic note to the record.
func (r *ExtractedRecord) AddObservation(obs string) {
	r.Observaciones = append(r.Observaciones, obs)
}

// HasDate reports whether the record carries a resolved calendar date.
func (r *ExtractedRecord) HasDate() bool {
	return !r.Fecha.IsZero()
}

// CSVRow is the fixed output schema of the consolidated ledger. Field order
// is the column order; headers match the ledgers consumed downstream.
type CSVRow struct {
	Fecha           string `csv:"fecha"`
	Codigo          string `csv:"código"`
	Categoria       string `csv:"categoría"`
	Subcategoria    string `csv:"subcategoría"`
	Subsubcategoria string `csv:"sub-subcategoría"`
	Rubro           string `csv:"rubro"`
	Acreedor        string `csv:"acreedor"`
	IDAcreedor      string `csv:"ID acreedor"`
	TipoGasto       string `csv:"tipo de gasto"`
	Descripcion     string `csv:"descripción"`
	MontoARS        string `csv:"monto ARS"`
	MontoUSD        string `csv:"monto USD"`
	TipoCambio      string `csv:"tipo de cambio"`
	DatosFiscales   string `csv:"datos fiscales"`
	Observaciones   string `csv:"observaciones"`
	Origen          string `csv:"origen"`
}

// ToCSVRow projects the record onto the output schema. Dates render as
// DD/MM/YYYY, amounts as fixed two-decimal strings, missing values as "".
func (r *ExtractedRecord) ToCSVRow() CSVRow {
	return CSVRow{
		Fecha:           dateutils.FormatDate(r.Fecha),
		Codigo:          r.Codigo,
		Categoria:       r.Categoria,
		Subcategoria:    r.Subcategoria,
		Subsubcategoria: r.Subsubcategoria,
		Rubro:           r.Rubro,
		Acreedor:        r.Acreedor,
		IDAcreedor:      r.IDAcreedor,
		TipoGasto:       r.TipoGasto,
		Descripcion:     r.Descripcion,
		MontoARS:        formatNullDecimal(r.MontoARS),
		MontoUSD:        formatNullDecimal(r.MontoUSD),
		TipoCambio:      formatNullDecimal(r.TipoCambio),
		DatosFiscales:   r.DatosFiscales,
		Observaciones:   strings.Join(r.Observaciones, ObservationSeparator),
		Origen:          r.Origen,
	}
}

func formatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
