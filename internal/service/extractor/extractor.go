package extractor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
)

// datetimeRegex finds "d/d/yy[yy] h:mm:ss MERIDIEM" fragments. SA (sáng) and CH (chiều)
// are the Vietnamese terminal equivalents of AM and PM.
var datetimeRegex = regexp.MustCompile(`(?i)(\d{1,2})/(\d{1,2})/(\d{2,4})\s+(\d{1,2}):(\d{2}):(\d{2})\s*(AM|PM|SA|CH)`)

// twoDigitYearCutoff splits two-digit years: below it is 20xx, at or above it 19xx.
const twoDigitYearCutoff = 50

// DateOrder says which numeric date component is the month.
type DateOrder int

const (
	MonthFirst DateOrder = iota // MM/dd/yyyy
	DayFirst                    // dd/MM/yyyy
)

func (o DateOrder) String() string {
	if o == DayFirst {
		return "dd/MM/yyyy"
	}
	return "MM/dd/yyyy"
}

// Extractor pulls punch timestamps out of free-form terminal exports.
type Extractor struct {
	loc *time.Location
}

// New returns an Extractor that builds instants in loc (UTC when nil).
func New(loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return &Extractor{loc: loc}
}

// Location is the wall-clock context instants are built in.
func (e *Extractor) Location() *time.Location {
	return e.loc
}

// Extract returns every valid timestamp in text, sorted ascending.
// Fragments that do not form a real date-time are skipped.
func (e *Extractor) Extract(text string) []ledger.RawTimestamp {
	logs, _ := e.ExtractWithOrder(text)
	return logs
}

// ExtractWithOrder is Extract that also reports the date order chosen for the batch.
func (e *Extractor) ExtractWithOrder(text string) ([]ledger.RawTimestamp, DateOrder) {
	matches := datetimeRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return []ledger.RawTimestamp{}, MonthFirst
	}

	order := detectOrder(matches)

	logs := make([]ledger.RawTimestamp, 0, len(matches))
	for _, m := range matches {
		t, ok := e.parse(m, order)
		if !ok {
			continue
		}
		logs = append(logs, ledger.RawTimestamp{Time: t, Raw: m[0]})
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Time.Before(logs[j].Time)
	})
	return logs, order
}

// detectOrder fixes the date order for the whole batch from the first match
// with a component above 12, defaulting to month-first.
func detectOrder(matches [][]string) DateOrder {
	for _, m := range matches {
		p1, _ := strconv.Atoi(m[1])
		p2, _ := strconv.Atoi(m[2])
		if p1 > 12 {
			return DayFirst
		}
		if p2 > 12 {
			return MonthFirst
		}
	}
	return MonthFirst
}

func (e *Extractor) parse(m []string, order DateOrder) (time.Time, bool) {
	p1, _ := strconv.Atoi(m[1])
	p2, _ := strconv.Atoi(m[2])

	month, day := p1, p2
	if order == DayFirst {
		day, month = p1, p2
	}

	year := normalizeYear(m[3])
	if month < 1 || month > 12 || year < 1 {
		return time.Time{}, false
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, false
	}

	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])
	if minute > 59 || second > 59 {
		return time.Time{}, false
	}

	hour, ok := to24Hour(hour, normalizeMeridiem(m[7]))
	if !ok {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, e.loc), true
}

func normalizeMeridiem(raw string) string {
	switch strings.ToUpper(raw) {
	case "SA":
		return "AM"
	case "CH":
		return "PM"
	default:
		return strings.ToUpper(raw)
	}
}

func normalizeYear(raw string) int {
	year, _ := strconv.Atoi(raw)
	if len(raw) != 2 {
		return year
	}
	if year < twoDigitYearCutoff {
		return 2000 + year
	}
	return 1900 + year
}

// to24Hour converts a 12-hour clock reading. Terminals sometimes print a
// 24-hour value next to PM ("18:10:00 PM") or midnight as "00:xx AM"; both are accepted.
func to24Hour(hour int, meridiem string) (int, bool) {
	switch {
	case hour >= 1 && hour <= 12:
		if meridiem == "AM" {
			return hour % 12, true
		}
		if hour == 12 {
			return 12, true
		}
		return hour + 12, true
	case hour == 0 && meridiem == "AM":
		return 0, true
	case hour >= 13 && hour <= 23 && meridiem == "PM":
		return hour, true
	}
	return 0, false
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
