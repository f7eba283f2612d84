package ledger

import (
	"mime/multipart"
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/validator"
)

// ========================================
// LEDGER DTOs
// ========================================

// ShiftRequest describes an ad-hoc shift supplied with a request instead of a catalog id.
type ShiftRequest struct {
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	GraceMinutes int    `json:"grace_minutes"`
}

func (r *ShiftRequest) validate(errs *validator.ValidationErrors) {
	if !validator.IsValidClock(r.StartTime) {
		*errs = append(*errs, validator.ValidationError{
			Field:   "shift.start_time",
			Message: "start_time must be in HH:mm format",
		})
	}
	if !validator.IsValidClock(r.EndTime) {
		*errs = append(*errs, validator.ValidationError{
			Field:   "shift.end_time",
			Message: "end_time must be in HH:mm format",
		})
	}
	if r.GraceMinutes < 0 {
		*errs = append(*errs, validator.ValidationError{
			Field:   "shift.grace_minutes",
			Message: "grace_minutes must not be negative",
		})
	}
}

// Policy converts the request into a ShiftPolicy.
func (r *ShiftRequest) Policy() ShiftPolicy {
	name := r.Name
	if name == "" {
		name = "Custom " + r.StartTime + " - " + r.EndTime
	}
	return ShiftPolicy{
		ID:           "CUSTOM",
		Name:         name,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		GraceMinutes: r.GraceMinutes,
	}
}

type AnalyzeRequest struct {
	Text      string        `json:"text"`
	ShiftID   *string       `json:"shift_id,omitempty"`
	Shift     *ShiftRequest `json:"shift,omitempty"`
	StartDate *string       `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string       `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (r *AnalyzeRequest) Validate() error {
	var errs validator.ValidationErrors

	// An empty log is still a report when the window is fully given.
	if validator.IsEmpty(r.Text) && (r.StartDate == nil || r.EndDate == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "text",
			Message: "text is required unless start_date and end_date are given",
		})
	}

	validateShiftChoice(&errs, r.ShiftID, r.Shift)
	validateDates(&errs, r.StartDate, r.EndDate)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range converts the optional start/end dates into a DateRange in loc.
// Call after Validate.
func (r *AnalyzeRequest) Range(loc *time.Location) DateRange {
	return parseRange(r.StartDate, r.EndDate, loc)
}

// ImportRequest is an uploaded terminal export (plain text or xlsx).
type ImportRequest struct {
	ShiftID    *string               `json:"shift_id,omitempty"`
	StartDate  *string               `json:"start_date,omitempty"`
	EndDate    *string               `json:"end_date,omitempty"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

var ImportFileExtensions = []string{".txt", ".log", ".csv", ".xlsx"}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "punch log file is required",
		})
	} else if r.FileHeader.Size > 10<<20 { // 10MB
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "punch log file size must not exceed 10MB",
		})
	}

	validateShiftChoice(&errs, r.ShiftID, nil)
	validateDates(&errs, r.StartDate, r.EndDate)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateShiftChoice(errs *validator.ValidationErrors, shiftID *string, shift *ShiftRequest) {
	if shiftID != nil && shift != nil {
		*errs = append(*errs, validator.ValidationError{
			Field:   "shift",
			Message: "provide either shift_id or shift, not both",
		})
		return
	}
	if shiftID != nil && validator.IsEmpty(*shiftID) {
		*errs = append(*errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id must not be blank",
		})
	}
	if shift != nil {
		shift.validate(errs)
	}
}

func validateDates(errs *validator.ValidationErrors, start, end *string) {
	if start != nil {
		if _, ok := validator.IsValidDate(*start); !ok {
			*errs = append(*errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if end != nil {
		if _, ok := validator.IsValidDate(*end); !ok {
			*errs = append(*errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
}

func parseRange(start, end *string, loc *time.Location) DateRange {
	var rng DateRange
	if start != nil {
		if t, err := time.ParseInLocation("2006-01-02", *start, loc); err == nil {
			rng.Start = &t
		}
	}
	if end != nil {
		if t, err := time.ParseInLocation("2006-01-02", *end, loc); err == nil {
			rng.End = &t
		}
	}
	return rng
}

type ShiftResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	GraceMinutes int    `json:"grace_minutes"`
}

type DailyRecordResponse struct {
	Date           string   `json:"date"` // YYYY-MM-DD
	Weekday        string   `json:"weekday"`
	IsFriday       bool     `json:"is_friday"`
	CheckIn        *string  `json:"check_in,omitempty"`  // HH:mm:ss
	CheckOut       *string  `json:"check_out,omitempty"` // HH:mm:ss
	Status         []string `json:"status"`
	LateMinutes    int      `json:"late_minutes"`
	EarlyMinutes   int      `json:"early_minutes"`
	EarlyViolation string   `json:"early_violation,omitempty"`
	Notes          []string `json:"notes"`
}

type SummaryResponse struct {
	TotalLate           int `json:"total_late"`
	TotalEarlyAllowed   int `json:"total_early_allowed"`
	TotalEarlyViolation int `json:"total_early_violation"`
	TotalAbsent         int `json:"total_absent"`
	TotalMissingPunch   int `json:"total_missing_punch"`
	TotalLateMinutes    int `json:"total_late_minutes"`
	TotalEarlyMinutes   int `json:"total_early_minutes"`
}

type AnalyzeResponse struct {
	ID             string                `json:"id"`
	Shift          ShiftResponse         `json:"shift"`
	StartDate      string                `json:"start_date,omitempty"`
	EndDate        string                `json:"end_date,omitempty"`
	TimestampCount int                   `json:"timestamp_count"`
	Records        []DailyRecordResponse `json:"records"`
	Summary        SummaryResponse       `json:"summary"`
}
