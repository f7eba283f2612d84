package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/cmlabs-hris/punch-ledger-go/internal/bootstrap"
	"github.com/spf13/cobra"
)

var shiftsCmd = &cobra.Command{
	Use:   "shifts",
	Short: "List the shift catalog",
	Long: `Lists the shifts days can be measured against. The catalog comes from
PostgreSQL when DB_HOST is set, from SHIFTS_FILE when given, and from
the built-in table otherwise.`,
	Args: cobra.NoArgs,
	RunE: runShifts,
}

func init() {
	rootCmd.AddCommand(shiftsCmd)
}

func runShifts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, closeCatalog, err := bootstrap.NewLedgerService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	shifts, err := svc.ListShifts(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tGRACE")
	for _, s := range shifts {
		marker := ""
		if s.ID == cfg.App.DefaultShift {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%dm\n", s.ID, marker, s.Name, s.StartTime, s.EndTime, s.GraceMinutes)
	}
	return tw.Flush()
}
