package ledger

import (
	"context"
	"io"
)

// LedgerService defines business logic for turning punch logs into a ledger
type LedgerService interface {
	// Run extracts and classifies req without shaping the result for transport
	Run(ctx context.Context, req AnalyzeRequest) (Analysis, error)

	// Analyze extracts punches from raw text and classifies every day of the window
	Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error)

	// Import analyzes an uploaded terminal export (plain text or xlsx)
	Import(ctx context.Context, req ImportRequest) (AnalyzeResponse, error)

	// Export analyzes req and writes the ledger as an xlsx workbook to w
	Export(ctx context.Context, req AnalyzeRequest, w io.Writer) error

	// ListShifts returns the shift catalog
	ListShifts(ctx context.Context) ([]ShiftResponse, error)
}
