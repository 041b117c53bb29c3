package rubro

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos-csv/internal/logging"
)

func TestDetect(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		name      string
		categoria string
		subcat    string
		memo      string
		expected  string
	}{
		{"Keyword in category", "Seguridad", "", "", "Seguridad"},
		{"Keyword in subcategory", "", "Jardinería", "", "Jardinería"},
		{"Keyword in memo", "", "", "reparación eléctrica", "Energía"},
		{"Accent insensitive", "ENERGÍA", "", "", "Energía"},
		{"Stem match", "", "", "mantenimiento general", "Mantenimiento"},
		{"No match", "Varios", "", "papelería fina", ""},
		{"All empty", "", "", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, d.Detect(tc.categoria, tc.subcat, tc.memo))
		})
	}
}

func TestDetectFirstMatchWins(t *testing.T) {
	d := NewDetector(nil)

	// "seguridad del gasoducto" contains both "segur" and "gas"; table order
	// puts "segur" first.
	assert.Equal(t, "Seguridad", d.Detect("seguridad del gasoducto", "", ""))
}

func TestDetectCustomMappings(t *testing.T) {
	d := NewDetector([]Mapping{{Keyword: "piscina", Rubro: "Recreación"}})

	assert.Equal(t, "Recreación", d.Detect("", "", "limpieza piscina"))
	assert.Equal(t, "", d.Detect("Seguridad", "", ""))
}

func TestStoreLoadMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rubros.yaml")
	content := "rubros:\n  - keyword: piscina\n    rubro: Recreación\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := NewStore(path, logging.NewMockLogger())
	mappings, err := store.LoadMappings()
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "piscina", mappings[0].Keyword)
	assert.Equal(t, "Recreación", mappings[0].Rubro)
}

func TestStoreMissingFileUsesDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.yaml"), logging.NewMockLogger())
	mappings, err := store.LoadMappings()
	require.NoError(t, err)
	assert.Equal(t, DefaultMappings(), mappings)
}
