package fxrate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos-csv/internal/logging"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fx.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempCSV(t, "Fecha,Valor ARS\n01/01/2024,\"800,50\"\n01/02/2024,\"1.000,00\"\n")

	series, err := Load(path, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())

	rate := series.RateFor(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	assert.True(t, rate.Valid)
	assert.True(t, decimal.NewFromFloat(800.50).Equal(rate.Decimal))
}

func TestLoadAcceptsValorHeader(t *testing.T) {
	path := writeTempCSV(t, "Fecha,Valor\n15/06/2023,\"250,25\"\n")

	series, err := Load(path, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
}

func TestLoadDropsBadRowsSilently(t *testing.T) {
	path := writeTempCSV(t, "Fecha,Valor ARS\n"+
		"01/01/2024,\"800,00\"\n"+
		"not-a-date,\"900,00\"\n"+
		"02/01/2024,not-a-number\n"+
		"03/01/2024,\"950,00\"\n")

	series, err := Load(path, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), logging.NewMockLogger())
	assert.Error(t, err)
}
