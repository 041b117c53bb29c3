package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func nullDec(s string) decimal.NullDecimal {
	d, _ := decimal.NewFromString(s)
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func TestToCSVRow(t *testing.T) {
	r := ExtractedRecord{
		Fecha:           time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Codigo:          "001",
		Categoria:       "Categoría",
		Subcategoria:    "Subcat",
		Subsubcategoria: "",
		Rubro:           "Seguridad",
		Acreedor:        "Proveedor SA CUIT 30-12345678-9",
		IDAcreedor:      "30-12345678-9",
		TipoGasto:       "Operativo",
		Descripcion:     "Servicio mensual",
		MontoARS:        nullDec("1000"),
		TipoCambio:      nullDec("1000"),
		MontoUSD:        nullDec("1"),
		Observaciones:   []string{"Falta fecha", "Posible duplicado"},
		Origen:          "gastos 01-2024.xlsx",
	}

	row := r.ToCSVRow()

	assert.Equal(t, "15/01/2024", row.Fecha)
	assert.Equal(t, "1000.00", row.MontoARS)
	assert.Equal(t, "1.00", row.MontoUSD)
	assert.Equal(t, "1000.00", row.TipoCambio)
	assert.Equal(t, "Falta fecha; Posible duplicado", row.Observaciones)
	assert.Equal(t, "gastos 01-2024.xlsx", row.Origen)
}

func TestToCSVRowMissingValues(t *testing.T) {
	r := ExtractedRecord{
		Acreedor:  "Proveedor sin datos",
		TipoGasto: "Operativo",
	}

	row := r.ToCSVRow()

	assert.Equal(t, "", row.Fecha)
	assert.Equal(t, "", row.MontoARS)
	assert.Equal(t, "", row.MontoUSD)
	assert.Equal(t, "", row.TipoCambio)
	assert.Equal(t, "", row.Observaciones)
}

func TestAddObservationAppends(t *testing.T) {
	r := ExtractedRecord{}
	r.AddObservation(ObsMissingAmount)
	r.AddObservation(ObsDuplicate)
	assert.Equal(t, []string{ObsMissingAmount, ObsDuplicate}, r.Observaciones)
}
