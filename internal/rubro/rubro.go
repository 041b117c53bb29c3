// Package rubro infers a short expense label from category and memo text
// using an ordered keyword table.
package rubro

import (
	"strings"

	"gastos-csv/internal/textutils"
)

// Mapping associates a normalized keyword with the rubro it labels.
type Mapping struct {
	Keyword string `yaml:"keyword"`
	Rubro   string `yaml:"rubro"`
}

// DefaultMappings returns the built-in keyword table. Order is significant:
// the first keyword found as a substring of the text blob wins, so the more
// specific stems come before the generic ones.
func DefaultMappings() []Mapping {
	return []Mapping{
		{"segur", "Seguridad"},
		{"energ", "Energía"},
		{"jardin", "Jardinería"},
		{"manten", "Mantenimiento"},
		{"obra", "Obras"},
		{"legales", "Legales"},
		{"luz", "Energía"},
		{"electric", "Energía"},
		{"gas", "Energía"},
		{"impres", "Administración"},
		{"admin", "Administración"},
		{"correo", "Administración"},
		{"librer", "Administración"},
	}
}

// Detector matches expense text against a keyword table.
type Detector struct {
	mappings []Mapping
}

// NewDetector creates a Detector. A nil or empty table falls back to the
// built-in mappings.
func NewDetector(mappings []Mapping) *Detector {
	if len(mappings) == 0 {
		mappings = DefaultMappings()
	}
	return &Detector{mappings: mappings}
}

// Detect returns the rubro of the first keyword found as a substring of the
// normalized "categoria subcategoria memo" blob, or "" when nothing matches.
func (d *Detector) Detect(categoria, subcategoria, memo string) string {
	blob := textutils.NormalizeText(categoria + " " + subcategoria + " " + memo)
	for _, m := range d.mappings {
		if strings.Contains(blob, m.Keyword) {
			return m.Rubro
		}
	}
	return ""
}
