package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/internal/config"
	"tradepulse/internal/datasource"
	"tradepulse/internal/services"
	"tradepulse/internal/session"
)

type nilPool struct{}

func (nilPool) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, context.Canceled
}

func (nilPool) Ping(ctx context.Context) error { return nil }

func testApplication(t *testing.T) *Application {
	t.Helper()

	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := datasource.NewWithPool(nilPool{}, cfg.Database, logger, nil)
	sessions := session.NewManager(cfg.Dashboard.SessionTTL)

	app := &Application{
		Config:     cfg,
		DataSource: source,
		Sessions:   sessions,
		Logger:     logger,
		Services: &ServiceContainer{
			Dashboard: services.NewDashboardServiceWithLogger(source, cfg.Dashboard, logger),
			Trader:    services.NewTraderServiceWithLogger(source, sessions, cfg.Dashboard, logger),
		},
	}
	app.setupRouter()
	app.setupServer()
	return app
}

func TestRouterWiring(t *testing.T) {
	app := testApplication(t)

	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readiness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("reference lists serve fallbacks without a warehouse", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reference/assets", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "EURUSD")
	})

	t.Run("version", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), Version)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nonsense", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("request id header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}

func TestServerSetup(t *testing.T) {
	app := testApplication(t)

	require.NotNil(t, app.Server)
	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, 15*time.Second, app.Server.ReadTimeout)
}
