package ledger

import (
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
)

// QuotaLedger counts early-leave allowances granted per calendar month.
// One ledger belongs to one Analyze call and must see days in ascending order.
type QuotaLedger struct {
	policy ledger.QuotaPolicy
	used   map[string]int // "YYYY-MM" -> allowances granted
}

func NewQuotaLedger(policy ledger.QuotaPolicy) *QuotaLedger {
	return &QuotaLedger{
		policy: policy,
		used:   make(map[string]int),
	}
}

func monthKey(day time.Time) string {
	return day.Format("2006-01")
}

// Used returns the allowances granted so far in day's month.
func (q *QuotaLedger) Used(day time.Time) int {
	return q.used[monthKey(day)]
}

// Request decides an early leave of minutes on day. An allowed leave consumes
// one allowance of the month; a violation leaves the ledger untouched.
func (q *QuotaLedger) Request(day time.Time, minutes int) (bool, ledger.ViolationReason) {
	key := monthKey(day)
	used := q.used[key]

	if minutes <= q.policy.EarlyLeaveMaxMinutes && used < q.policy.EarlyLeaveMonthlyCount {
		q.used[key] = used + 1
		return true, ledger.ViolationNone
	}

	if minutes > q.policy.EarlyLeaveMaxMinutes {
		return false, ledger.ViolationIncidentCap
	}
	return false, ledger.ViolationMonthlyQuota
}
