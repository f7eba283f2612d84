package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
)

// RenderText writes records as an aligned table followed by the summary.
func RenderText(w io.Writer, shift ledger.ShiftPolicy, records []ledger.DailyRecord, summary ledger.AnalysisSummary, lang Lang) error {
	fmt.Fprintf(w, "%s  %s-%s  grace %dm\n\n", shift.Name, shift.StartTime, shift.EndTime, shift.GraceMinutes)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tIN\tOUT\tSTATUS\tLATE\tEARLY\tNOTES")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format("2006-01-02"),
			WeekdayLabel(r.DayOfWeek, lang),
			Clock(r.CheckIn),
			Clock(r.CheckOut),
			StatusLine(r, lang),
			minutes(r.LateMinutes),
			minutes(r.EarlyMinutes),
			strings.Join(r.Notes, "; "),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s: %d  %s: %d  %s: %d  %s: %d  %s: %d\n",
		Label(ledger.StatusLate, lang), summary.TotalLate,
		Label(ledger.StatusEarlyAllowed, lang), summary.TotalEarlyAllowed,
		Label(ledger.StatusEarlyViolation, lang), summary.TotalEarlyViolation,
		Label(ledger.StatusAbsent, lang), summary.TotalAbsent,
		Label(ledger.StatusMissingIn, lang)+"/"+Label(ledger.StatusMissingOut, lang), summary.TotalMissingPunch,
	)
	return err
}

func minutes(m int) string {
	if m == 0 {
		return "-"
	}
	return strconv.Itoa(m)
}
