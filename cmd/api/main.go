package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/punch-ledger-go/internal/bootstrap"
	"github.com/cmlabs-hris/punch-ledger-go/internal/config"
	appHTTP "github.com/cmlabs-hris/punch-ledger-go/internal/handler/http"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(bootstrap.NewLogger(os.Stdout, cfg.App.LogLevel))

	ledgerService, closeCatalog, err := bootstrap.NewLedgerService(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize ledger service", "error", err)
		os.Exit(1)
	}
	defer closeCatalog()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	ledgerHandler := appHTTP.NewLedgerHandler(ledgerService)

	router := appHTTP.NewRouter(JWTService, ledgerHandler, cfg.App)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server running", "addr", "http://localhost"+port, "timezone", cfg.App.Timezone)
	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("Server error", "error", err)
	}
}
