package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"invoice-dashboard/internal/api/handler"
	mw "invoice-dashboard/internal/api/middleware"
	"invoice-dashboard/internal/config"
	"invoice-dashboard/internal/domain/customer"
	"invoice-dashboard/internal/domain/invoice"
	"invoice-dashboard/internal/domain/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const requestTimeout = 60 * time.Second

// Services bundles the domain services the router exposes.
type Services struct {
	Customers customer.Service
	Invoices  invoice.Service
	Reports   report.Service
}

// SetupRouter builds the HTTP surface. ctx bounds background work started by
// middleware such as the rate limiter janitor.
func SetupRouter(ctx context.Context, svc Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupSwaggerEndpoint(router, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	setupAuthRoutes(router, cfg, logger)
	router.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		setupCustomerRoutes(r, cfg, svc.Customers, logger)
		setupInvoiceRoutes(r, svc.Invoices, logger)
		setupReportRoutes(r, svc.Reports, logger)
	})

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	if origins := cfg.Server.CORS.AllowedOrigins; len(origins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Location"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupCustomerRoutes(r chi.Router, cfg *config.Config, svc customer.Service, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, cfg.Server.MaxUploadBytes, logger)

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.CreateCustomer)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Put("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
		})
	})
}

func setupInvoiceRoutes(r chi.Router, svc invoice.Service, logger *slog.Logger) {
	h := handler.NewInvoiceHandler(svc, logger)

	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", h.CreateInvoice)
		r.Route("/{invoiceID}", func(r chi.Router) {
			r.Put("/", h.UpdateInvoice)
			r.Delete("/", h.DeleteInvoice)
		})
	})
}

func setupReportRoutes(r chi.Router, svc report.Service, logger *slog.Logger) {
	h := handler.NewReportHandler(svc, logger)
	r.Get("/query", h.Query)
}
