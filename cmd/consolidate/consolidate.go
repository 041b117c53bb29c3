// Package consolidate implements the consolidation command: many monthly
// workbooks in, one normalized CSV ledger out.
package consolidate

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"gastos-csv/cmd/root"
	"gastos-csv/internal/common"
	"gastos-csv/internal/consolidator"
	"gastos-csv/internal/enrich"
	"gastos-csv/internal/fileutils"
	"gastos-csv/internal/fxrate"
	"gastos-csv/internal/logging"
	"gastos-csv/internal/rubro"
)

var (
	inputs     []string
	fxFile     string
	output     string
	appendTo   string
	fromYear   int
	toYear     int
	skipEnrich bool
	rateLimit  int
)

// Cmd represents the consolidate command
var Cmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Consolidate monthly expense workbooks into one CSV ledger",
	Long: `Consolidate reads every input workbook (files, directories or glob
patterns), extracts the expense rows with their category hierarchy, converts
amounts to USD, classifies rubros, enriches tax ids and writes the combined
ledger as CSV.`,
	Run: consolidateFunc,
}

func init() {
	Cmd.Flags().StringSliceVarP(&inputs, "inputs", "i", nil, "Input workbooks: files, directories or glob patterns")
	Cmd.Flags().StringVarP(&fxFile, "fx", "f", "", "Exchange-rate CSV file (Fecha, Valor ARS)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (stdout when neither --output nor --append is given)")
	Cmd.Flags().StringVarP(&appendTo, "append", "a", "", "Append to this CSV file, writing the header only when the file is new")
	Cmd.Flags().IntVar(&fromYear, "from-year", 0, "Keep only records from this year on")
	Cmd.Flags().IntVar(&toYear, "to-year", 0, "Keep only records up to this year")
	Cmd.Flags().BoolVar(&skipEnrich, "skip-enrich", false, "Skip the online CUIT enrichment")
	Cmd.Flags().IntVar(&rateLimit, "rate-limit", -1, "Seconds to wait between enrichment lookups (-1 uses the configured value)")
	_ = Cmd.MarkFlagRequired("inputs")
	_ = Cmd.MarkFlagRequired("fx")
}

func consolidateFunc(cmd *cobra.Command, args []string) {
	log := root.Log

	files, err := fileutils.CollectWorkbooks(inputs)
	if err != nil {
		log.WithError(err).Fatal("Failed to collect input workbooks")
	}

	fx, err := fxrate.Load(fxFile, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load exchange-rate file")
	}

	mappings, err := rubro.NewStore(root.Cfg.Rubros.File, log).LoadMappings()
	if err != nil {
		log.WithError(err).Fatal("Failed to load rubro mappings")
	}

	var enricher enrich.Lookup
	enrichEnabled := root.Cfg.Enrich.Enabled && !skipEnrich
	if enrichEnabled {
		enricher = enrich.NewCuitOnlineClient(
			root.Cfg.Enrich.BaseURL,
			time.Duration(root.Cfg.Enrich.TimeoutSeconds)*time.Second,
			log)
	}

	pause := root.Cfg.Enrich.RateLimitSeconds
	if rateLimit >= 0 {
		pause = rateLimit
	}

	c := consolidator.New(fx, rubro.NewDetector(mappings), enricher, log)
	records, err := c.Run(files, consolidator.Options{
		FromYear:  fromYear,
		ToYear:    toYear,
		Enrich:    enrichEnabled,
		RateLimit: time.Duration(pause) * time.Second,
	})
	if err != nil {
		log.WithError(err).Fatal("Consolidation failed")
	}

	rows := consolidator.ToRows(records)
	destination := "stdout"
	switch {
	case appendTo != "":
		if output != "" {
			log.Warn("Both --output and --append given, appending",
				logging.F("file", appendTo))
		}
		destination = appendTo
		err = common.AppendRecordsToCSV(rows, appendTo)
	case output != "":
		destination = output
		err = common.WriteRecordsToCSV(rows, output)
	default:
		err = common.WriteRecords(rows, os.Stdout)
	}
	if err != nil {
		log.WithError(err).Fatal("Failed to write output CSV")
	}

	log.Info("Consolidation completed successfully",
		logging.F("output", destination),
		logging.F("records", len(rows)))
}
