// Package bootstrap wires configuration into the services shared by the API
// server and the ledger CLI.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/punch-ledger-go/internal/config"
	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/report"
	"github.com/cmlabs-hris/punch-ledger-go/internal/repository/catalog"
	"github.com/cmlabs-hris/punch-ledger-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/punch-ledger-go/internal/service/extractor"
	ledgerService "github.com/cmlabs-hris/punch-ledger-go/internal/service/ledger"
)

// NewLogger returns a JSON slog logger at LOG_LEVEL (debug, info, warn, error).
func NewLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l}))
}

// NewShiftRepository picks the shift catalog source: PostgreSQL when DB_HOST is
// set, SHIFTS_FILE when given, the built-in table otherwise. The returned close
// func releases the database pool, if any.
func NewShiftRepository(ctx context.Context, cfg *config.Config) (ledger.ShiftRepository, func(), error) {
	switch {
	case cfg.DatabaseEnabled():
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db, catalog.DefaultShifts); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate shift catalog: %w", err)
		}
		slog.Info("Shift catalog loaded", "source", "postgresql", "host", cfg.Database.Host)
		return postgresql.NewShiftRepository(db), db.Close, nil

	case cfg.Shifts.File != "":
		repo, err := catalog.NewYAMLShiftRepository(cfg.Shifts.File)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Shift catalog loaded", "source", "file", "path", cfg.Shifts.File)
		return repo, func() {}, nil

	default:
		slog.Debug("Shift catalog loaded", "source", "builtin")
		return catalog.NewDefaultShiftRepository(), func() {}, nil
	}
}

// NewLedgerService builds the ledger service from cfg.
func NewLedgerService(ctx context.Context, cfg *config.Config) (ledger.LedgerService, func(), error) {
	shiftRepo, closeFn, err := NewShiftRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := ledgerService.NewLedgerService(
		shiftRepo,
		extractor.New(cfg.Location()),
		cfg.Policy,
		ledger.ShiftType(cfg.App.DefaultShift),
		report.ParseLang(cfg.App.Lang),
		cfg.App.MaxReportDays,
	)
	return svc, closeFn, nil
}
