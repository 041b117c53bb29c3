// Package root contains the root command for the application
package root

import (
	"github.com/spf13/cobra"

	"gastos-csv/internal/common"
	"gastos-csv/internal/config"
	"gastos-csv/internal/fileutils"
	"gastos-csv/internal/logging"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration, available to subcommands
	// after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "gastos-csv",
		Short: "A CLI tool to consolidate monthly expense spreadsheets into one CSV ledger.",
		Long: `gastos-csv consolidates monthly expense spreadsheets (xlsx) into a single
normalized CSV ledger: it rebuilds the category hierarchy, converts amounts
to USD with a historical exchange-rate series, classifies rubros, enriches
creditor tax ids and flags suspicious records.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to gastos-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.WithError(err).Fatal("Failed to load configuration")
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			common.SetLogger(Log)
			fileutils.SetLogger(Log)
			common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
		},
	}
)
