package consolidator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gastos-csv/internal/logging"
	"gastos-csv/internal/models"
)

func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Gastos del Mes"))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Gastos del Mes", cell, &row))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func testFx() *models.FxSeries {
	return models.NewFxSeries([]models.FxPoint{
		{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Rate: decimal.NewFromInt(1000)},
	})
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "gastos_01_2024.xlsx", [][]interface{}{
		{"", "Servicios", "Luz", "", "Fijo", "20/01/2024", "C1", "Edesur", "factura luz", "1.000,00"},
	})

	c := New(testFx(), nil, nil, logging.NewMockLogger())
	records, err := c.Run([]string{path}, Options{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rows := ToRows(records)
	require.Len(t, rows, 1)
	assert.Equal(t, "20/01/2024", rows[0].Fecha)
	assert.Equal(t, "Servicios", rows[0].Categoria)
	assert.Equal(t, "Luz", rows[0].Subcategoria)
	assert.Equal(t, "Energía", rows[0].Rubro)
	assert.Equal(t, "1000.00", rows[0].MontoARS)
	assert.Equal(t, "1000.00", rows[0].TipoCambio)
	assert.Equal(t, "1.00", rows[0].MontoUSD)
	assert.Equal(t, "gastos_01_2024.xlsx", rows[0].Origen)
}

func TestRunSkipsUnreadableWorkbook(t *testing.T) {
	dir := t.TempDir()
	good := writeWorkbook(t, dir, "gastos_01_2024.xlsx", [][]interface{}{
		{"", "Servicios", "", "", "Fijo", "20/01/2024", "", "Edesur", "luz", "500,00"},
	})
	missing := filepath.Join(dir, "absent.xlsx")

	c := New(testFx(), nil, nil, logging.NewMockLogger())
	records, err := c.Run([]string{missing, good}, Options{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunYearFilterDropsUndated(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "planilla.xlsx", [][]interface{}{
		{"", "Servicios", "", "", "Fijo", "20/01/2023", "", "Edesur", "luz 2023", "100,00"},
		{"", "", "", "", "Fijo", "20/01/2024", "", "Edesur", "luz 2024", "200,00"},
		{"", "", "", "", "Fijo", "", "", "Edesur", "sin fecha", "300,00"},
	})

	c := New(testFx(), nil, nil, logging.NewMockLogger())

	records, err := c.Run([]string{path}, Options{FromYear: 2024, ToYear: 2024})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "luz 2024", records[0].Descripcion)

	// Without bounds the undated record survives, annotated.
	records, err = c.Run([]string{path}, Options{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Contains(t, records[2].Observaciones, models.ObsMissingDate)
}

func TestRunNoInputs(t *testing.T) {
	c := New(testFx(), nil, nil, logging.NewMockLogger())
	_, err := c.Run(nil, Options{})
	assert.Error(t, err)
}
