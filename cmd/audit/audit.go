// Package audit implements the audit command over an already consolidated
// ledger.
package audit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gastos-csv/cmd/root"
	"gastos-csv/internal/common"
	"gastos-csv/internal/fileutils"
	"gastos-csv/internal/logging"
	"gastos-csv/internal/models"
	"gastos-csv/internal/report"
)

var (
	input      string
	reportFile string
	jsonFile   string
)

// Cmd represents the audit command
var Cmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a consolidated CSV ledger",
	Long: `Audit reads a consolidated ledger and reports totals per rubro, repeated
charges, zero or negative amounts, weekend operations and atypical amounts.
The Markdown report goes to stdout unless --report is given; --json writes
the same audit as a JSON document.`,
	Run: auditFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "consolidado.csv", "Consolidated CSV file to audit")
	Cmd.Flags().StringVarP(&reportFile, "report", "r", "", "Write the Markdown report to this file instead of stdout")
	Cmd.Flags().StringVar(&jsonFile, "json", "", "Also write the audit as JSON to this file")
}

func auditFunc(cmd *cobra.Command, args []string) {
	log := root.Log

	rows, err := common.ReadCSVFile[models.CSVRow](input)
	if err != nil {
		log.WithError(err).Fatal("Failed to read consolidated CSV")
	}

	audit := report.NewAnalyzer(log).Analyze(input, rows)
	generator := report.NewGenerator(log)

	markdown, err := generator.Generate(audit, "markdown")
	if err != nil {
		log.WithError(err).Fatal("Failed to render audit report")
	}

	if reportFile == "" {
		fmt.Println(string(markdown))
	} else if err := writeReport(reportFile, markdown); err != nil {
		log.WithError(err).Fatal("Failed to write report file")
	} else {
		log.Info("Audit report written", logging.F("file", reportFile))
	}

	if jsonFile != "" {
		data, err := generator.Generate(audit, "json")
		if err != nil {
			log.WithError(err).Fatal("Failed to render JSON audit")
		}
		if err := writeReport(jsonFile, data); err != nil {
			log.WithError(err).Fatal("Failed to write JSON audit file")
		}
		log.Info("JSON audit written", logging.F("file", jsonFile))
	}
}

func writeReport(path string, data []byte) error {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
