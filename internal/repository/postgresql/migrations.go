package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/database"
)

// Migrate creates the shift catalog table and seeds it with defaults when empty.
func Migrate(ctx context.Context, db *database.DB, defaults []ledger.ShiftPolicy) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS shift_policies (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			start_time    TIME NOT NULL,
			end_time      TIME NOT NULL,
			grace_minutes INTEGER NOT NULL DEFAULT 0 CHECK (grace_minutes >= 0),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create shift_policies: %w", err)
	}

	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM shift_policies`).Scan(&count); err != nil {
		return fmt.Errorf("count shift_policies: %w", err)
	}
	if count > 0 {
		return nil
	}

	return WithTransaction(ctx, db, func(txCtx context.Context) error {
		repo := NewShiftRepository(db)
		for _, s := range defaults {
			if err := repo.Upsert(txCtx, s); err != nil {
				return err
			}
		}
		slog.Info("Seeded shift catalog", "count", len(defaults))
		return nil
	})
}
