package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledgerlens/internal/analysis"
	"ledgerlens/internal/config"
	"ledgerlens/internal/middleware"
	"ledgerlens/internal/workbook"
)

// NewRouter assembles the full HTTP surface.
func NewRouter(cfg *config.Config, logger *slog.Logger, loader *workbook.Loader, service *analysis.Service, version string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	r.Mount("/healthz", NewHealthHandler(version).Routes())
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/analysis", NewAnalysisHandler(loader, service, logger, cfg.Server.MaxUploadBytes).Routes())
	})

	return r
}
