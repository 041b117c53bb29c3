package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"gastos-csv/internal/logging"
)

// Generator renders an Audit in the supported output formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{logger: logger}
}

// Generate renders the audit in the specified format (json or markdown).
// It returns the report as a byte slice and an error if the format is
// unsupported.
func (g *Generator) Generate(audit *Audit, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.generateJSON(audit)
	case "markdown":
		return g.generateMarkdown(audit), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(audit *Audit) ([]byte, error) {
	data, err := json.MarshalIndent(audit, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func (g *Generator) generateMarkdown(audit *Audit) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Auditoría de gastos\n\n")
	fmt.Fprintf(&sb, "- Fuente: %s\n", audit.SourceFile)
	fmt.Fprintf(&sb, "- Generado: %s\n", audit.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "- Registros: %d\n", audit.TotalRecords)
	fmt.Fprintf(&sb, "- Total ARS: %s\n", audit.TotalARS.StringFixed(2))
	fmt.Fprintf(&sb, "- Total USD: %s\n", audit.TotalUSD.StringFixed(2))
	fmt.Fprintf(&sb, "- Sin importe: %d\n", audit.MissingAmounts)
	fmt.Fprintf(&sb, "- Sin fecha: %d\n\n", audit.MissingDates)

	fmt.Fprintf(&sb, "## Totales por rubro\n\n")
	fmt.Fprintf(&sb, "| Rubro | Registros | Total ARS |\n")
	fmt.Fprintf(&sb, "|---|---|---|\n")
	for _, total := range audit.RubroTotals {
		fmt.Fprintf(&sb, "| %s | %d | %s |\n", total.Rubro, total.Count, total.TotalARS.StringFixed(2))
	}
	sb.WriteString("\n")

	if len(audit.DuplicateGroups) > 0 {
		fmt.Fprintf(&sb, "## Posibles duplicados\n\n")
		for _, group := range audit.DuplicateGroups {
			fmt.Fprintf(&sb, "- %s, %s, ARS %s (%d veces)\n", group.Fecha, group.Rubro, group.MontoARS, group.Count)
		}
		sb.WriteString("\n")
	}

	writeLineRefs(&sb, "Importes en cero o negativos", audit.ZeroOrNegative)
	writeLineRefs(&sb, "Operaciones en fin de semana", audit.WeekendOps)
	writeLineRefs(&sb, "Montos atípicos por rubro", audit.RubroOutliers)

	return []byte(sb.String())
}

func writeLineRefs(sb *strings.Builder, title string, refs []LineRef) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", title)
	for _, ref := range refs {
		fmt.Fprintf(sb, "- %s, %s, %s, ARS %s (%s)\n", ref.Fecha, ref.Rubro, ref.Acreedor, ref.MontoARS, ref.Origen)
	}
	sb.WriteString("\n")
}
