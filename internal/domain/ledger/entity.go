package ledger

import (
	"fmt"
	"time"
)

// RawTimestamp is an instant extracted from punch text together with the
// exact substring it was parsed from.
type RawTimestamp struct {
	Time time.Time
	Raw  string
}

type ShiftType string

const (
	Shift1 ShiftType = "SHIFT_1" // 08:00 -> 18:00
	Shift2 ShiftType = "SHIFT_2" // 08:30 -> 18:30
	Shift3 ShiftType = "SHIFT_3" // 09:00 -> 19:00
)

// ShiftPolicy is the nominal working window a day is measured against.
type ShiftPolicy struct {
	ID           ShiftType `yaml:"id"`
	Name         string    `yaml:"name"`
	StartTime    string    `yaml:"start_time"` // HH:mm
	EndTime      string    `yaml:"end_time"`   // HH:mm
	GraceMinutes int       `yaml:"grace_minutes"`
}

// ShiftClock is a ShiftPolicy with its wall-clock times resolved to minutes
// after midnight.
type ShiftClock struct {
	Start        int
	End          int
	GraceMinutes int
}

// Clock parses StartTime and EndTime.
func (s ShiftPolicy) Clock() (ShiftClock, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return ShiftClock{}, fmt.Errorf("%w: start_time: %v", ErrInvalidShift, err)
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return ShiftClock{}, fmt.Errorf("%w: end_time: %v", ErrInvalidShift, err)
	}
	if s.GraceMinutes < 0 {
		return ShiftClock{}, fmt.Errorf("%w: grace_minutes must not be negative", ErrInvalidShift)
	}
	return ShiftClock{Start: start, End: end, GraceMinutes: s.GraceMinutes}, nil
}

// ParseClock converts "HH:mm" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// QuotaPolicy holds the early-leave rules shared by every shift.
type QuotaPolicy struct {
	FridayEarlyClose       time.Duration
	EarlyLeaveMaxMinutes   int
	EarlyLeaveMonthlyCount int
}

const (
	DefaultFridayEarlyClose       = time.Hour
	DefaultEarlyLeaveMaxMinutes   = 90
	DefaultEarlyLeaveMonthlyCount = 2
)

func DefaultQuotaPolicy() QuotaPolicy {
	return QuotaPolicy{
		FridayEarlyClose:       DefaultFridayEarlyClose,
		EarlyLeaveMaxMinutes:   DefaultEarlyLeaveMaxMinutes,
		EarlyLeaveMonthlyCount: DefaultEarlyLeaveMonthlyCount,
	}
}

// DayStatus tags a DailyRecord. A day may carry several.
type DayStatus string

const (
	StatusNormal         DayStatus = "NORMAL"
	StatusLate           DayStatus = "LATE"
	StatusEarlyAllowed   DayStatus = "EARLY_ALLOWED"
	StatusEarlyViolation DayStatus = "EARLY_VIOLATION"
	StatusAbsent         DayStatus = "ABSENT"
	StatusWeekend        DayStatus = "WEEKEND"
	StatusMissingIn      DayStatus = "MISSING_IN"
	StatusMissingOut     DayStatus = "MISSING_OUT"
)

// ViolationReason explains an EARLY_VIOLATION tag.
type ViolationReason string

const (
	ViolationNone         ViolationReason = ""
	ViolationIncidentCap  ViolationReason = "INCIDENT_CAP"
	ViolationMonthlyQuota ViolationReason = "MONTHLY_QUOTA"
)

type DailyRecord struct {
	Date           time.Time // 00:00 in the engine location
	CheckIn        *time.Time
	CheckOut       *time.Time
	DayOfWeek      time.Weekday
	IsFriday       bool
	Status         []DayStatus
	LateMinutes    int
	EarlyMinutes   int
	EarlyViolation ViolationReason
	Notes          []string
}

// Has reports whether the record carries status s.
func (r DailyRecord) Has(s DayStatus) bool {
	for _, st := range r.Status {
		if st == s {
			return true
		}
	}
	return false
}

type AnalysisSummary struct {
	TotalLate           int
	TotalEarlyAllowed   int
	TotalEarlyViolation int
	TotalAbsent         int
	TotalMissingPunch   int
	TotalLateMinutes    int
	TotalEarlyMinutes   int
}

// DateRange bounds a report. Either end may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Analysis is one finished run over a punch log.
type Analysis struct {
	ID             string
	Shift          ShiftPolicy
	Range          DateRange
	TimestampCount int
	Records        []DailyRecord
	Summary        AnalysisSummary
}
