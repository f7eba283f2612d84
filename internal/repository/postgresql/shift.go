package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

// GetByID implements ledger.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id ledger.ShiftType) (ledger.ShiftPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), grace_minutes
		FROM shift_policies
		WHERE upper(id) = upper($1)
	`

	var s ledger.ShiftPolicy
	err := q.QueryRow(ctx, query, string(id)).Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.GraceMinutes)

	if err == pgx.ErrNoRows {
		return ledger.ShiftPolicy{}, fmt.Errorf("shift %s: %w", id, ledger.ErrShiftNotFound)
	}

	if err != nil {
		return ledger.ShiftPolicy{}, fmt.Errorf("failed to get shift policy: %w", err)
	}

	return s, nil
}

// List implements ledger.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]ledger.ShiftPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), grace_minutes
		FROM shift_policies
		ORDER BY start_time, id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift policies: %w", err)
	}
	defer rows.Close()

	var shifts []ledger.ShiftPolicy
	for rows.Next() {
		var s ledger.ShiftPolicy
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.GraceMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan shift policy: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift policies: %w", err)
	}

	return shifts, nil
}

// Upsert stores s, replacing any shift with the same id.
func (r *shiftRepositoryImpl) Upsert(ctx context.Context, s ledger.ShiftPolicy) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_policies (id, name, start_time, end_time, grace_minutes)
		VALUES ($1, $2, $3::time, $4::time, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			grace_minutes = EXCLUDED.grace_minutes,
			updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, string(s.ID), s.Name, s.StartTime, s.EndTime, s.GraceMinutes); err != nil {
		return fmt.Errorf("failed to upsert shift policy %s: %w", s.ID, err)
	}
	return nil
}

// ShiftRepository is the PostgreSQL shift catalog. It also seeds itself.
type ShiftRepository interface {
	ledger.ShiftRepository
	Upsert(ctx context.Context, s ledger.ShiftPolicy) error
}

func NewShiftRepository(db *database.DB) ShiftRepository {
	return &shiftRepositoryImpl{
		db: db,
	}
}
