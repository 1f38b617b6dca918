package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tradepulse/internal/config"
	"tradepulse/internal/datasource"
	"tradepulse/internal/errors"
	"tradepulse/internal/infrastructure"
	customMiddleware "tradepulse/internal/middleware"
	"tradepulse/internal/services"
	"tradepulse/internal/session"
	handlers "tradepulse/internal/transport/http"
)

const (
	Version = "1.0.0"
	AppName = "TradePulse - Trading Activity Dashboard"
)

// Application represents the main application container
type Application struct {
	Config     *config.Config
	Router     *chi.Mux
	Server     *http.Server
	DataSource *datasource.Client
	Sessions   *session.Manager
	Logger     *slog.Logger
	Metrics    *infrastructure.Metrics
	Services   *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Trader    *services.TraderService
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	metrics := infrastructure.NewMetrics()

	source, err := datasource.New(ctx, cfg.Database, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to connect data source: %w", err)
	}

	app := &Application{
		Config:     cfg,
		DataSource: source,
		Sessions:   session.NewManager(cfg.Dashboard.SessionTTL),
		Logger:     logger,
		Metrics:    metrics,
	}

	app.Services = &ServiceContainer{
		Dashboard: services.NewDashboardServiceWithLogger(source, cfg.Dashboard, logger),
		Trader: services.NewTraderServiceWithLogger(source, app.Sessions, cfg.Dashboard, logger).
			WithMetrics(metrics),
	}

	app.setupRouter()
	app.setupServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))
	r.Use(customMiddleware.Metrics(a.Metrics))

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			ExposedHeaders: []string{"X-Request-ID", "X-Session-ID", "Content-Disposition"},
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	errorHandler := errors.NewErrorHandler(a.Logger, false)

	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, a.Logger, errorHandler)
	traderHandler := handlers.NewTraderHandler(a.Services.Trader, a.Config.Dashboard, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.DataSource, Version, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		r.Mount("/overview", dashboardHandler.Routes())
		r.Mount("/reference", dashboardHandler.ReferenceRoutes())
		r.Mount("/traders", traderHandler.Routes())
	})

	r.Mount("/health", healthHandler.Routes())
	r.Get("/version", healthHandler.VersionCheck)
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

// setupServer builds the HTTP server over the router.
func (a *Application) setupServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server. A listen failure cancels the run context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings",
			slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Run starts the application and blocks until the process is signalled
// or the server fails.
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	return a.Stop(context.Background())
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.Error("Failed to close log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application stopped")
	return nil
}

// performStartupHealthCheck verifies warehouse connectivity once at boot.
// Failure is a warning, not fatal: the dashboard serves fallback reference
// lists and the readiness probe reports the real state.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.DataSource.Ping(pingCtx); err != nil {
		return fmt.Errorf("data source unreachable: %w", err)
	}
	return nil
}
