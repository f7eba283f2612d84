package ledger

import "context"

// ShiftRepository is the read-only source of shift policies.
type ShiftRepository interface {
	GetByID(ctx context.Context, id ShiftType) (ShiftPolicy, error)
	List(ctx context.Context) ([]ShiftPolicy, error)
}
