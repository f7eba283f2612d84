package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/report"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/validator"
	"github.com/cmlabs-hris/punch-ledger-go/internal/service/extractor"
	"github.com/google/uuid"
)

type ledgerServiceImpl struct {
	shiftRepo    ledger.ShiftRepository
	extractor    *extractor.Extractor
	quota        ledger.QuotaPolicy
	defaultShift ledger.ShiftType
	lang         report.Lang
	maxDays      int
}

func NewLedgerService(
	shiftRepo ledger.ShiftRepository,
	extractor *extractor.Extractor,
	quota ledger.QuotaPolicy,
	defaultShift ledger.ShiftType,
	lang report.Lang,
	maxReportDays int,
) ledger.LedgerService {
	return &ledgerServiceImpl{
		shiftRepo:    shiftRepo,
		extractor:    extractor,
		quota:        quota,
		defaultShift: defaultShift,
		lang:         lang,
		maxDays:      maxReportDays,
	}
}

// Run implements ledger.LedgerService.
func (s *ledgerServiceImpl) Run(ctx context.Context, req ledger.AnalyzeRequest) (ledger.Analysis, error) {
	if err := req.Validate(); err != nil {
		return ledger.Analysis{}, err
	}

	shift, err := s.resolveShift(ctx, req.ShiftID, req.Shift)
	if err != nil {
		return ledger.Analysis{}, err
	}

	loc := s.extractor.Location()
	engine, err := NewEngine(shift, s.quota, loc)
	if err != nil {
		return ledger.Analysis{}, err
	}

	logs, order := s.extractor.ExtractWithOrder(req.Text)
	rng := req.Range(loc)
	if err := s.checkWindow(logs, rng); err != nil {
		slog.Warn("Report window rejected", "timestamps", len(logs), "error", err)
		return ledger.Analysis{}, err
	}
	records := engine.Analyze(logs, rng)

	analysis := ledger.Analysis{
		ID:             uuid.New().String(),
		Shift:          shift,
		TimestampCount: len(logs),
		Records:        records,
		Summary:        Summarize(records),
	}
	if len(records) > 0 {
		first, last := records[0].Date, records[len(records)-1].Date
		analysis.Range = ledger.DateRange{Start: &first, End: &last}
	}

	slog.Info("Punch log analyzed",
		"analysis_id", analysis.ID,
		"shift_id", shift.ID,
		"timestamps", len(logs),
		"date_order", order.String(),
		"days", len(records),
	)

	return analysis, nil
}

// Analyze implements ledger.LedgerService.
func (s *ledgerServiceImpl) Analyze(ctx context.Context, req ledger.AnalyzeRequest) (ledger.AnalyzeResponse, error) {
	analysis, err := s.Run(ctx, req)
	if err != nil {
		return ledger.AnalyzeResponse{}, err
	}
	return ToAnalyzeResponse(analysis, s.lang), nil
}

// Import implements ledger.LedgerService.
func (s *ledgerServiceImpl) Import(ctx context.Context, req ledger.ImportRequest) (ledger.AnalyzeResponse, error) {
	if err := req.Validate(); err != nil {
		return ledger.AnalyzeResponse{}, err
	}

	text, err := ReadPunchFile(req.File, req.FileHeader.Filename)
	if err != nil {
		slog.Error("Failed to read punch log upload", "filename", req.FileHeader.Filename, "error", err)
		return ledger.AnalyzeResponse{}, err
	}

	return s.Analyze(ctx, ledger.AnalyzeRequest{
		Text:      text,
		ShiftID:   req.ShiftID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
}

// Export implements ledger.LedgerService.
func (s *ledgerServiceImpl) Export(ctx context.Context, req ledger.AnalyzeRequest, w io.Writer) error {
	analysis, err := s.Run(ctx, req)
	if err != nil {
		return err
	}

	return spreadsheet.WriteLedger(w, spreadsheet.Ledger{
		ID:      analysis.ID,
		Shift:   analysis.Shift,
		Records: analysis.Records,
		Summary: analysis.Summary,
	}, s.lang)
}

// ListShifts implements ledger.LedgerService.
func (s *ledgerServiceImpl) ListShifts(ctx context.Context) ([]ledger.ShiftResponse, error) {
	shifts, err := s.shiftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	result := make([]ledger.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		result = append(result, toShiftResponse(sh))
	}
	return result, nil
}

// checkWindow resolves the window the engine would emit (explicit bounds, else
// the first and last punch) and rejects it when longer than maxDays.
// maxDays <= 0 disables the check.
func (s *ledgerServiceImpl) checkWindow(logs []ledger.RawTimestamp, rng ledger.DateRange) error {
	if s.maxDays <= 0 {
		return nil
	}

	var start, end time.Time
	switch {
	case rng.Start != nil:
		start = *rng.Start
	case len(logs) > 0:
		start = logs[0].Time
	default:
		return nil
	}
	switch {
	case rng.End != nil:
		end = *rng.End
	case len(logs) > 0:
		end = logs[len(logs)-1].Time
	default:
		end = start
	}

	days := calendarDaysBetween(start, end) + 1
	if days <= int64(s.maxDays) {
		return nil
	}
	return validator.ValidationErrors{{
		Field:   "date_range",
		Message: fmt.Sprintf("report window %s..%s spans %d days, at most %d allowed", start.Format(dayKeyLayout), end.Format(dayKeyLayout), days, s.maxDays),
	}}
}

// calendarDaysBetween counts wall-clock dates from a to b. It works on Unix
// seconds so spans beyond time.Duration's range stay exact.
func calendarDaysBetween(a, b time.Time) int64 {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return (db.Unix() - da.Unix()) / 86400
}

func (s *ledgerServiceImpl) resolveShift(ctx context.Context, shiftID *string, custom *ledger.ShiftRequest) (ledger.ShiftPolicy, error) {
	switch {
	case shiftID != nil:
		return s.shiftRepo.GetByID(ctx, ledger.ShiftType(strings.TrimSpace(*shiftID)))
	case custom != nil:
		policy := custom.Policy()
		if _, err := policy.Clock(); err != nil {
			return ledger.ShiftPolicy{}, err
		}
		return policy, nil
	default:
		return s.shiftRepo.GetByID(ctx, s.defaultShift)
	}
}

// ReadPunchFile returns the punch text of an upload or a local file. xlsx
// workbooks are flattened row by row; txt, log and csv are read as-is.
func ReadPunchFile(r io.Reader, filename string) (string, error) {
	if !validator.IsValidFileExtension(filename, ledger.ImportFileExtensions) {
		return "", ledger.ErrUnsupportedFile
	}

	var text string
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		t, err := spreadsheet.ReadText(r)
		if err != nil {
			return "", err
		}
		text = t
	} else {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", filename, err)
		}
		text = string(b)
	}

	if validator.IsEmpty(text) {
		return "", ledger.ErrEmptyInput
	}
	return text, nil
}

// ToAnalyzeResponse shapes an Analysis for JSON. Weekday names follow lang.
func ToAnalyzeResponse(a ledger.Analysis, lang report.Lang) ledger.AnalyzeResponse {
	resp := ledger.AnalyzeResponse{
		ID:             a.ID,
		Shift:          toShiftResponse(a.Shift),
		TimestampCount: a.TimestampCount,
		Records:        make([]ledger.DailyRecordResponse, 0, len(a.Records)),
		Summary: ledger.SummaryResponse{
			TotalLate:           a.Summary.TotalLate,
			TotalEarlyAllowed:   a.Summary.TotalEarlyAllowed,
			TotalEarlyViolation: a.Summary.TotalEarlyViolation,
			TotalAbsent:         a.Summary.TotalAbsent,
			TotalMissingPunch:   a.Summary.TotalMissingPunch,
			TotalLateMinutes:    a.Summary.TotalLateMinutes,
			TotalEarlyMinutes:   a.Summary.TotalEarlyMinutes,
		},
	}
	if a.Range.Start != nil {
		resp.StartDate = a.Range.Start.Format(dayKeyLayout)
	}
	if a.Range.End != nil {
		resp.EndDate = a.Range.End.Format(dayKeyLayout)
	}

	for _, r := range a.Records {
		status := make([]string, 0, len(r.Status))
		for _, tag := range r.Status {
			status = append(status, string(tag))
		}
		notes := r.Notes
		if notes == nil {
			notes = []string{}
		}
		resp.Records = append(resp.Records, ledger.DailyRecordResponse{
			Date:           r.Date.Format(dayKeyLayout),
			Weekday:        report.WeekdayLabel(r.DayOfWeek, lang),
			IsFriday:       r.IsFriday,
			CheckIn:        clockPtr(r.CheckIn),
			CheckOut:       clockPtr(r.CheckOut),
			Status:         status,
			LateMinutes:    r.LateMinutes,
			EarlyMinutes:   r.EarlyMinutes,
			EarlyViolation: string(r.EarlyViolation),
			Notes:          notes,
		})
	}

	return resp
}

func toShiftResponse(s ledger.ShiftPolicy) ledger.ShiftResponse {
	return ledger.ShiftResponse{
		ID:           string(s.ID),
		Name:         s.Name,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		GraceMinutes: s.GraceMinutes,
	}
}

func clockPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04:05")
	return &s
}
