package cmd

import (
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/punch-ledger-go/internal/bootstrap"
	"github.com/cmlabs-hris/punch-ledger-go/internal/config"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	lang    string
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Attendance ledger from punch-clock exports",
	Long: `ledger reads the text a punch-clock terminal exports, pulls every
timestamp out of it and classifies each calendar day against a shift:
late arrival, early leave (with a monthly quota), missing punches,
absence and weekends.

Configuration is read from the environment and an optional .env file
(APP_TIMEZONE, DEFAULT_SHIFT, SHIFTS_FILE, FRIDAY_EARLY_CLOSE, ...).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		slog.SetDefault(bootstrap.NewLogger(cmd.ErrOrStderr(), level))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output on stderr")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "Label language for reports: en or vi (default: REPORT_LANG)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lang != "" {
		cfg.App.Lang = lang
	}
	return cfg, nil
}
