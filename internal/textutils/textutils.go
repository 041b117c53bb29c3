// Package textutils provides the locale-aware text and number normalization
// used for sheet matching, carry-forward checks and payee parsing.
package textutils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	thousandsSep = "."
	decimalSep   = ","
)

// cuitPattern matches an Argentine CUIT embedded in free text: a valid
// two-digit prefix, eight digits and a check digit, with optional
// '-', '.' or space separators between groups.
var cuitPattern = regexp.MustCompile(`(20|2[3-7]|30|3[3-4])[- .]?([0-9]{8})[- .]?([0-9])`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// diacriticStripper decomposes to NFKD, drops combining marks and recomposes.
var diacriticStripper = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeText strips diacritics, collapses internal whitespace runs to a
// single space, trims and lower-cases. All case/accent-insensitive
// comparisons in the pipeline go through this function.
func NormalizeText(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	collapsed := whitespaceRun.ReplaceAllString(stripped, " ")
	return strings.ToLower(strings.TrimSpace(collapsed))
}

// ParseLocaleNumber parses an es-AR formatted number ("1.234,56") into a
// decimal. Missing or unparseable values yield Valid=false, never an error:
// absent amounts are expected in the source data and tracked through
// observations instead of failures.
func ParseLocaleNumber(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}
	}

	converted := strings.ReplaceAll(s, thousandsSep, "")
	converted = strings.ReplaceAll(converted, decimalSep, ".")
	converted = strings.ReplaceAll(converted, " ", "")

	if d, err := decimal.NewFromString(converted); err == nil {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}

	// Raw coercion fallback for values already in canonical form.
	if d, err := decimal.NewFromString(s); err == nil {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}

	return decimal.NullDecimal{}
}

// ParseTaxIDFromPayee extracts a CUIT from a raw payee string. It returns the
// trimmed display name and the id reformatted as PP-NNNNNNNN-C, or an empty
// id when no pattern matches. The id substring is not removed from the
// display name; downstream consumers rely on the full original string.
func ParseTaxIDFromPayee(raw string) (string, string) {
	name := strings.TrimSpace(raw)
	m := cuitPattern.FindStringSubmatch(NormalizeText(name))
	if m == nil {
		return name, ""
	}
	return name, m[1] + "-" + m[2] + "-" + m[3]
}

// IsTotalMarker reports whether a cell value conventionally marks a
// subtotal or grand-total line.
func IsTotalMarker(val string) bool {
	s := NormalizeText(val)
	return strings.HasPrefix(s, "total") || s == "subtotal" || s == "totales"
}
