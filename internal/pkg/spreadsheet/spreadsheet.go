package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/report"
	"github.com/xuri/excelize/v2"
)

const (
	ledgerSheet  = "Ledger"
	summarySheet = "Summary"
)

// ReadText flattens every sheet of an xlsx workbook into punch text: one line
// per row, cells separated by a space.
func ReadText(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("failed to get rows of sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, " "))
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// Ledger is one finished analysis ready to be written out.
type Ledger struct {
	ID      string
	Shift   ledger.ShiftPolicy
	Records []ledger.DailyRecord
	Summary ledger.AnalysisSummary
}

// WriteLedger writes l as a two-sheet workbook (daily rows, summary) to w.
func WriteLedger(w io.Writer, l Ledger, lang report.Lang) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	header := []interface{}{"Date", "Day", "Check-in", "Check-out", "Status", "Late (min)", "Early (min)", "Notes"}
	if err := f.SetSheetRow(ledgerSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(ledgerSheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range l.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Date.Format("2006-01-02"),
			report.WeekdayLabel(r.DayOfWeek, lang),
			report.Clock(r.CheckIn),
			report.Clock(r.CheckOut),
			report.StatusLine(r, lang),
			r.LateMinutes,
			r.EarlyMinutes,
			strings.Join(r.Notes, "; "),
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ledgerSheet, "E", "E", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(ledgerSheet, "H", "H", 60); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Analysis", l.ID},
		{"Shift", fmt.Sprintf("%s (%s - %s, grace %dm)", l.Shift.Name, l.Shift.StartTime, l.Shift.EndTime, l.Shift.GraceMinutes)},
		{report.Label(ledger.StatusLate, lang), l.Summary.TotalLate},
		{report.Label(ledger.StatusEarlyAllowed, lang), l.Summary.TotalEarlyAllowed},
		{report.Label(ledger.StatusEarlyViolation, lang), l.Summary.TotalEarlyViolation},
		{report.Label(ledger.StatusAbsent, lang), l.Summary.TotalAbsent},
		{report.Label(ledger.StatusMissingIn, lang) + " / " + report.Label(ledger.StatusMissingOut, lang), l.Summary.TotalMissingPunch},
		{"Late minutes", l.Summary.TotalLateMinutes},
		{"Early minutes", l.Summary.TotalEarlyMinutes},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 36); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
