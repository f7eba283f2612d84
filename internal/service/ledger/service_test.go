package ledger

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/report"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/validator"
	"github.com/cmlabs-hris/punch-ledger-go/internal/repository/catalog"
	"github.com/cmlabs-hris/punch-ledger-go/internal/service/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const mondayPunches = "01/15/2024 08:05:00 AM\n01/15/2024 06:00:00 PM\n"

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newTestService() ledger.LedgerService {
	return NewLedgerService(
		catalog.NewDefaultShiftRepository(),
		extractor.New(time.UTC),
		ledger.DefaultQuotaPolicy(),
		ledger.Shift1,
		report.LangEN,
		366,
	)
}

func strPtr(s string) *string { return &s }

func TestLedgerService_AnalyzeDefaultShift(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Analyze(context.Background(), ledger.AnalyzeRequest{Text: mondayPunches})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "SHIFT_1", resp.Shift.ID)
	assert.Equal(t, 2, resp.TimestampCount)
	assert.Equal(t, "2024-01-15", resp.StartDate)
	assert.Equal(t, "2024-01-15", resp.EndDate)
	require.Len(t, resp.Records, 1)

	day := resp.Records[0]
	assert.Equal(t, "Monday", day.Weekday)
	require.NotNil(t, day.CheckIn)
	require.NotNil(t, day.CheckOut)
	assert.Equal(t, "08:05:00", *day.CheckIn)
	assert.Equal(t, "18:00:00", *day.CheckOut)
	assert.Empty(t, day.Status)
	assert.NotNil(t, day.Status)
	assert.NotNil(t, day.Notes)
}

func TestLedgerService_AnalyzeCatalogShiftCaseInsensitive(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Analyze(context.Background(), ledger.AnalyzeRequest{
		Text:    mondayPunches,
		ShiftID: strPtr("shift_3"),
	})

	require.NoError(t, err)
	assert.Equal(t, "SHIFT_3", resp.Shift.ID)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, []string{"EARLY_ALLOWED"}, resp.Records[0].Status)
	assert.Equal(t, 60, resp.Records[0].EarlyMinutes)
	assert.Equal(t, 1, resp.Summary.TotalEarlyAllowed)
}

func TestLedgerService_AnalyzeCustomShift(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Analyze(context.Background(), ledger.AnalyzeRequest{
		Text: mondayPunches,
		Shift: &ledger.ShiftRequest{
			StartTime:    "07:30",
			EndTime:      "17:30",
			GraceMinutes: 5,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "CUSTOM", resp.Shift.ID)
	assert.Equal(t, []string{"LATE"}, resp.Records[0].Status)
	assert.Equal(t, 35, resp.Records[0].LateMinutes)
}

func TestLedgerService_AnalyzeWindow(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Analyze(context.Background(), ledger.AnalyzeRequest{
		Text:      mondayPunches,
		StartDate: strPtr("2024-01-13"),
		EndDate:   strPtr("2024-01-16"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Records, 4)
	assert.Equal(t, []string{"WEEKEND"}, resp.Records[0].Status)
	assert.Equal(t, []string{"WEEKEND"}, resp.Records[1].Status)
	assert.Equal(t, []string{"ABSENT"}, resp.Records[3].Status)
	assert.Equal(t, 1, resp.Summary.TotalAbsent)
}

func TestLedgerService_AnalyzeErrors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Analyze(ctx, ledger.AnalyzeRequest{Text: mondayPunches, ShiftID: strPtr("SHIFT_9")})
	assert.ErrorIs(t, err, ledger.ErrShiftNotFound)

	var verrs validator.ValidationErrors

	_, err = svc.Analyze(ctx, ledger.AnalyzeRequest{Text: "   "})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "text")

	_, err = svc.Analyze(ctx, ledger.AnalyzeRequest{
		Text:    mondayPunches,
		ShiftID: strPtr("SHIFT_1"),
		Shift:   &ledger.ShiftRequest{StartTime: "08:00", EndTime: "17:00"},
	})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "shift")

	_, err = svc.Analyze(ctx, ledger.AnalyzeRequest{Text: mondayPunches, EndDate: strPtr("15/01/2024")})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")
}

func TestLedgerService_AnalyzeRejectsOversizedWindow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := map[string]ledger.AnalyzeRequest{
		"three digit year in log":  {Text: "01/15/100 08:00:00 AM\n01/15/2024 05:00:00 PM"},
		"explicit bounds":          {StartDate: strPtr("0001-01-01"), EndDate: strPtr("9999-12-31")},
		"start before first punch": {Text: mondayPunches, StartDate: strPtr("2022-01-01")},
		"one day over":             {StartDate: strPtr("2024-01-01"), EndDate: strPtr("2025-01-01")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Analyze(ctx, req)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), "date_range")
		})
	}
}

func TestLedgerService_AnalyzeWindowAtLimit(t *testing.T) {
	svc := newTestService()

	// 2024 is a leap year: 366 days.
	resp, err := svc.Analyze(context.Background(), ledger.AnalyzeRequest{
		StartDate: strPtr("2024-01-01"),
		EndDate:   strPtr("2024-12-31"),
	})

	require.NoError(t, err)
	assert.Len(t, resp.Records, 366)
	assert.Equal(t, 0, resp.TimestampCount)
}

func TestLedgerService_AnalyzeBlankTextWithExplicitWindow(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Analyze(context.Background(), ledger.AnalyzeRequest{
		Text:      "  ",
		StartDate: strPtr("2024-01-15"),
		EndDate:   strPtr("2024-01-16"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, []string{"ABSENT"}, resp.Records[0].Status)
	assert.Equal(t, 2, resp.Summary.TotalAbsent)

	var verrs validator.ValidationErrors
	_, err = svc.Analyze(context.Background(), ledger.AnalyzeRequest{Text: "", StartDate: strPtr("2024-01-15")})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "text")
}

func TestLedgerService_Import(t *testing.T) {
	svc := newTestService()
	content := []byte(mondayPunches)

	resp, err := svc.Import(context.Background(), ledger.ImportRequest{
		File:       memFile{bytes.NewReader(content)},
		FileHeader: &multipart.FileHeader{Filename: "terminal.log", Size: int64(len(content))},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.TimestampCount)

	_, err = svc.Import(context.Background(), ledger.ImportRequest{
		File:       memFile{bytes.NewReader(content)},
		FileHeader: &multipart.FileHeader{Filename: "terminal.pdf", Size: int64(len(content))},
	})
	assert.ErrorIs(t, err, ledger.ErrUnsupportedFile)
}

func TestLedgerService_ExportWritesWorkbook(t *testing.T) {
	svc := newTestService()
	var buf bytes.Buffer

	err := svc.Export(context.Background(), ledger.AnalyzeRequest{Text: mondayPunches}, &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Ledger")
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestLedgerService_ListShifts(t *testing.T) {
	shifts, err := newTestService().ListShifts(context.Background())

	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.Equal(t, "SHIFT_2", shifts[1].ID)
	assert.Equal(t, "08:30", shifts[1].StartTime)
}

func TestReadPunchFile(t *testing.T) {
	text, err := ReadPunchFile(bytes.NewReader([]byte(mondayPunches)), "punches.TXT")
	require.NoError(t, err)
	assert.Equal(t, mondayPunches, text)

	_, err = ReadPunchFile(bytes.NewReader([]byte("\n \n")), "punches.csv")
	assert.ErrorIs(t, err, ledger.ErrEmptyInput)

	_, err = ReadPunchFile(bytes.NewReader(nil), "punches.docx")
	assert.ErrorIs(t, err, ledger.ErrUnsupportedFile)
}
