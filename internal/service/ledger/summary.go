package ledger

import "github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"

// Summarize counts tags over a finished set of records.
func Summarize(records []ledger.DailyRecord) ledger.AnalysisSummary {
	var s ledger.AnalysisSummary
	for _, r := range records {
		if r.Has(ledger.StatusLate) {
			s.TotalLate++
			s.TotalLateMinutes += r.LateMinutes
		}
		if r.Has(ledger.StatusEarlyAllowed) {
			s.TotalEarlyAllowed++
		}
		if r.Has(ledger.StatusEarlyViolation) {
			s.TotalEarlyViolation++
		}
		if r.Has(ledger.StatusAbsent) {
			s.TotalAbsent++
		}
		if r.Has(ledger.StatusMissingIn) || r.Has(ledger.StatusMissingOut) {
			s.TotalMissingPunch++
		}
		s.TotalEarlyMinutes += r.EarlyMinutes
	}
	return s
}
