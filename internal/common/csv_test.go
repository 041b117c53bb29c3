package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos-csv/internal/models"
)

func sampleRows() []models.CSVRow {
	return []models.CSVRow{
		{
			Fecha:    "05/03/2024",
			Rubro:    "Energía",
			Acreedor: "Edesur",
			MontoARS: "1500.00",
			Origen:   "gastos_03_2024.xlsx",
		},
		{
			Fecha:    "06/03/2024",
			Rubro:    "Seguridad",
			Acreedor: "Vigilar SRL",
			MontoARS: "2000.00",
			Origen:   "gastos_03_2024.xlsx",
		},
	}
}

func TestWriteAndReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "consolidado.csv")

	require.NoError(t, WriteRecordsToCSV(sampleRows(), path))

	rows, err := ReadCSVFile[models.CSVRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Edesur", rows[0].Acreedor)
	assert.Equal(t, "2000.00", rows[1].MontoARS)
}

func TestWriteRecordsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidado.csv")

	require.NoError(t, WriteRecordsToCSV(sampleRows(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "fecha,"))
	assert.Contains(t, lines[0], "monto ARS")
	assert.Contains(t, lines[0], "observaciones")
}

func TestAppendWritesHeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidado.csv")

	require.NoError(t, AppendRecordsToCSV(sampleRows(), path))
	require.NoError(t, AppendRecordsToCSV(sampleRows()[:1], path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "fecha,"))
	for _, line := range lines[1:] {
		assert.False(t, strings.HasPrefix(line, "fecha,"))
	}
}

func TestWriteRecordsToWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(sampleRows(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "fecha,"))
}

func TestWriteNilRecordsIsError(t *testing.T) {
	assert.Error(t, WriteRecordsToCSV(nil, filepath.Join(t.TempDir(), "x.csv")))
	assert.Error(t, AppendRecordsToCSV(nil, filepath.Join(t.TempDir(), "x.csv")))
}

func TestWriteEmptySliceWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vacio.csv")

	require.NoError(t, WriteRecordsToCSV([]models.CSVRow{}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "fecha,"))
}
