package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/punch-ledger-go/internal/config"
	"github.com/cmlabs-hris/punch-ledger-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const appVersion = "v1.0.0"

func NewRouter(JWTService jwt.Service, ledgerHandler LedgerHandler, appCfg config.AppConfig) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appCfg.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "punch-ledger"),
		slog.String("version", appVersion),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/shifts", ledgerHandler.ListShifts)

			r.Route("/ledger", func(r chi.Router) {
				r.Post("/analyze", ledgerHandler.Analyze)
				r.Post("/import", ledgerHandler.Import)
				r.Post("/export", ledgerHandler.Export)
			})
		})
	})
	return r
}
