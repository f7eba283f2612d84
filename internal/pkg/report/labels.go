package report

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
)

// Lang selects the label set used when rendering a ledger for people.
type Lang string

const (
	LangEN Lang = "en"
	LangVI Lang = "vi"
)

var LangValues = []string{string(LangEN), string(LangVI)}

// ParseLang falls back to English for anything it does not know.
func ParseLang(s string) Lang {
	if Lang(strings.ToLower(strings.TrimSpace(s))) == LangVI {
		return LangVI
	}
	return LangEN
}

var statusLabels = map[Lang]map[ledger.DayStatus]string{
	LangEN: {
		ledger.StatusNormal:         "Normal",
		ledger.StatusLate:           "Late",
		ledger.StatusEarlyAllowed:   "Early leave (within quota)",
		ledger.StatusEarlyViolation: "Early leave (violation)",
		ledger.StatusAbsent:         "Absent",
		ledger.StatusWeekend:        "Weekend",
		ledger.StatusMissingIn:      "Missing check-in",
		ledger.StatusMissingOut:     "Missing check-out",
	},
	LangVI: {
		ledger.StatusNormal:         "Bình thường",
		ledger.StatusLate:           "Đi muộn",
		ledger.StatusEarlyAllowed:   "Về sớm (Trong hạn mức)",
		ledger.StatusEarlyViolation: "Về sớm (Vi phạm)",
		ledger.StatusAbsent:         "Vắng mặt",
		ledger.StatusWeekend:        "Cuối tuần",
		ledger.StatusMissingIn:      "Thiếu giờ vào",
		ledger.StatusMissingOut:     "Thiếu giờ ra",
	},
}

var weekdayLabelsVI = [...]string{"Chủ nhật", "Thứ 2", "Thứ 3", "Thứ 4", "Thứ 5", "Thứ 6", "Thứ 7"}

// Label returns the human text for a status.
func Label(s ledger.DayStatus, lang Lang) string {
	if l, ok := statusLabels[ParseLang(string(lang))][s]; ok {
		return l
	}
	return string(s)
}

// StatusLine joins a record's labels, or the NORMAL label for an untagged day.
func StatusLine(r ledger.DailyRecord, lang Lang) string {
	if len(r.Status) == 0 {
		return Label(ledger.StatusNormal, lang)
	}
	labels := make([]string, 0, len(r.Status))
	for _, s := range r.Status {
		labels = append(labels, Label(s, lang))
	}
	return strings.Join(labels, ", ")
}

func WeekdayLabel(d time.Weekday, lang Lang) string {
	if ParseLang(string(lang)) == LangVI {
		return weekdayLabelsVI[d]
	}
	return d.String()
}

// Clock formats an optional punch as HH:mm:ss, "-" when absent.
func Clock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04:05")
}
