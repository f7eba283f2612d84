package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cmlabs-hris/punch-ledger-go/internal/bootstrap"
	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/report"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/validator"
	ledgerService "github.com/cmlabs-hris/punch-ledger-go/internal/service/ledger"
	"github.com/spf13/cobra"
)

var outputFormats = []string{"text", "json", "xlsx"}

var (
	analyzeShift   string
	analyzeStart   string
	analyzeEnd     string
	analyzeOutput  string
	analyzeOutFile string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Classify every day of a punch log",
	Long: `Reads a punch log (txt, log, csv or xlsx; stdin when no file is given)
and prints the daily ledger.

Examples:
  ledger analyze export.txt
  ledger analyze export.xlsx --shift SHIFT_2 --start 2024-01-01 --end 2024-01-31
  cat export.txt | ledger analyze --output json
  ledger analyze export.txt --output xlsx -o ledger.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeShift, "shift", "", "Shift id from the catalog (default: DEFAULT_SHIFT)")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "First day of the report, YYYY-MM-DD")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "Last day of the report, YYYY-MM-DD")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "text", "Output format: text, json or xlsx")
	analyzeCmd.Flags().StringVarP(&analyzeOutFile, "out-file", "o", "", "Write output to a file instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if !validator.IsInSlice(analyzeOutput, outputFormats) {
		return fmt.Errorf("unknown output format %q (want text, json or xlsx)", analyzeOutput)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, closeCatalog, err := bootstrap.NewLedgerService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	req := ledger.AnalyzeRequest{Text: text}
	if analyzeShift != "" {
		req.ShiftID = &analyzeShift
	}
	if analyzeStart != "" {
		req.StartDate = &analyzeStart
	}
	if analyzeEnd != "" {
		req.EndDate = &analyzeEnd
	}

	analysis, err := svc.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeOutFile != "" {
		f, err := os.Create(analyzeOutFile)
		if err != nil {
			return fmt.Errorf("create %s: %w", analyzeOutFile, err)
		}
		defer f.Close()
		out = f
	}

	reportLang := report.ParseLang(cfg.App.Lang)
	switch analyzeOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ledgerService.ToAnalyzeResponse(analysis, reportLang))
	case "xlsx":
		return spreadsheet.WriteLedger(out, spreadsheet.Ledger{
			ID:      analysis.ID,
			Shift:   analysis.Shift,
			Records: analysis.Records,
			Summary: analysis.Summary,
		}, reportLang)
	default:
		return report.RenderText(out, analysis.Shift, analysis.Records, analysis.Summary, reportLang)
	}
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		return ledgerService.ReadPunchFile(cmd.InOrStdin(), "stdin.txt")
	}

	path := filepath.Clean(args[0])
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ledgerService.ReadPunchFile(f, path)
}
