package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
)

const dayKeyLayout = "2006-01-02"

// Engine classifies a punch stream day by day under one shift and quota policy.
// It holds no per-run state, so one Engine may serve many Analyze calls.
type Engine struct {
	shift ledger.ShiftPolicy
	clock ledger.ShiftClock
	quota ledger.QuotaPolicy
	loc   *time.Location
}

// NewEngine validates shift and returns an Engine working in loc (UTC when nil).
// loc must be the wall-clock context the timestamps were extracted in.
func NewEngine(shift ledger.ShiftPolicy, quota ledger.QuotaPolicy, loc *time.Location) (*Engine, error) {
	clock, err := shift.Clock()
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{shift: shift, clock: clock, quota: quota, loc: loc}, nil
}

// dayBucket is one calendar day of the window and the punches that fall on it.
type dayBucket struct {
	date    time.Time
	punches []time.Time
}

// Analyze returns one DailyRecord per day of the reporting window, ascending
// and gap-free. Days are walked strictly forward because the monthly quota
// is granted first come, first served.
func (e *Engine) Analyze(logs []ledger.RawTimestamp, rng ledger.DateRange) []ledger.DailyRecord {
	days := e.buckets(logs, rng)
	if len(days) == 0 {
		return []ledger.DailyRecord{}
	}

	quota := NewQuotaLedger(e.quota)
	records := make([]ledger.DailyRecord, 0, len(days))
	for _, d := range days {
		records = append(records, e.classify(d, quota))
	}
	return records
}

// buckets groups punches by wall-clock date and expands the reporting window
// into one bucket per day, empty days included.
func (e *Engine) buckets(logs []ledger.RawTimestamp, rng ledger.DateRange) []dayBucket {
	grouped := make(map[string][]time.Time)
	for _, l := range logs {
		key := l.Time.Format(dayKeyLayout)
		grouped[key] = append(grouped[key], l.Time)
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var start, end time.Time
	switch {
	case rng.Start != nil:
		start = e.startOfDay(*rng.Start)
	case len(keys) > 0:
		start = e.parseDayKey(keys[0])
	default:
		return nil
	}

	switch {
	case rng.End != nil:
		end = e.startOfDay(*rng.End)
	case len(keys) > 0:
		end = e.parseDayKey(keys[len(keys)-1])
	default:
		end = start
	}

	if start.After(end) {
		return nil
	}

	var days []dayBucket
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, dayBucket{date: d, punches: grouped[d.Format(dayKeyLayout)]})
	}
	return days
}

func (e *Engine) startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.loc)
}

func (e *Engine) parseDayKey(key string) time.Time {
	t, _ := time.ParseInLocation(dayKeyLayout, key, e.loc)
	return t
}

// at returns day at minuteOfDay minutes after midnight.
func (e *Engine) at(day time.Time, minuteOfDay int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, e.loc)
}

func (e *Engine) classify(d dayBucket, quota *QuotaLedger) ledger.DailyRecord {
	weekday := d.date.Weekday()
	record := ledger.DailyRecord{
		Date:      d.date,
		DayOfWeek: weekday,
		IsFriday:  weekday == time.Friday,
		Status:    []ledger.DayStatus{},
		Notes:     []string{},
	}

	if len(d.punches) == 0 {
		if weekday == time.Saturday || weekday == time.Sunday {
			record.Status = append(record.Status, ledger.StatusWeekend)
		} else {
			record.Status = append(record.Status, ledger.StatusAbsent)
			record.Notes = append(record.Notes, "no punch data")
		}
		return record
	}

	punches := make([]time.Time, len(d.punches))
	copy(punches, d.punches)
	sort.SliceStable(punches, func(i, j int) bool { return punches[i].Before(punches[j]) })

	if len(punches) == 1 {
		p := punches[0]
		if p.Before(e.at(d.date, 12*60)) {
			record.CheckIn = &p
			record.Status = append(record.Status, ledger.StatusMissingOut)
			record.Notes = append(record.Notes, "no check-out punch")
		} else {
			record.CheckOut = &p
			record.Status = append(record.Status, ledger.StatusMissingIn)
			record.Notes = append(record.Notes, "no check-in punch")
		}
	} else {
		first, last := punches[0], punches[len(punches)-1]
		record.CheckIn = &first
		record.CheckOut = &last
	}

	if record.CheckIn != nil {
		e.checkLate(&record)
	}
	if record.CheckOut != nil {
		e.checkEarly(&record, quota)
	}

	return record
}

func (e *Engine) checkLate(record *ledger.DailyRecord) {
	expectedStart := e.at(record.Date, e.clock.Start)
	threshold := expectedStart.Add(time.Duration(e.clock.GraceMinutes) * time.Minute)

	if !record.CheckIn.After(threshold) {
		return
	}

	record.LateMinutes = int(record.CheckIn.Sub(expectedStart) / time.Minute)
	record.Status = append(record.Status, ledger.StatusLate)
	record.Notes = append(record.Notes, fmt.Sprintf("late %d minutes (after %s + %dm grace)",
		record.LateMinutes, e.shift.StartTime, e.clock.GraceMinutes))
}

func (e *Engine) checkEarly(record *ledger.DailyRecord, quota *QuotaLedger) {
	expectedEnd := e.at(record.Date, e.clock.End)
	suffix := ""
	if record.IsFriday && e.quota.FridayEarlyClose > 0 {
		expectedEnd = expectedEnd.Add(-e.quota.FridayEarlyClose)
		suffix = fmt.Sprintf(" (friday close %d minutes earlier)", int(e.quota.FridayEarlyClose/time.Minute))
	}

	if !record.CheckOut.Before(expectedEnd) {
		return
	}

	record.EarlyMinutes = int(expectedEnd.Sub(*record.CheckOut) / time.Minute)

	allowed, reason := quota.Request(record.Date, record.EarlyMinutes)
	if allowed {
		record.Status = append(record.Status, ledger.StatusEarlyAllowed)
		record.Notes = append(record.Notes, fmt.Sprintf("left %d minutes early (within quota %d/%d)%s",
			record.EarlyMinutes, quota.Used(record.Date), e.quota.EarlyLeaveMonthlyCount, suffix))
		return
	}

	record.EarlyViolation = reason
	record.Status = append(record.Status, ledger.StatusEarlyViolation)
	switch reason {
	case ledger.ViolationIncidentCap:
		record.Notes = append(record.Notes, fmt.Sprintf("left %d minutes early (exceeds %d minute limit)%s",
			record.EarlyMinutes, e.quota.EarlyLeaveMaxMinutes, suffix))
	default:
		record.Notes = append(record.Notes, fmt.Sprintf("left %d minutes early (monthly quota of %d used up)%s",
			record.EarlyMinutes, e.quota.EarlyLeaveMonthlyCount, suffix))
	}
}
