package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/services"
)

// DashboardHandler serves the overview page and the reference lists
// backing the filter controls.
type DashboardHandler struct {
	service      *services.DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *services.DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the overview routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetOverview)
	r.Get("/kpi", h.GetKPI)
	r.Get("/top-traders", h.GetTopTraders)
	r.Post("/refresh", h.Refresh)

	return r
}

// ReferenceRoutes returns the reference list routes
func (h *DashboardHandler) ReferenceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/assets", h.GetAssets)
	r.Get("/durations", h.GetDurations)
	r.Get("/date-ranges", h.GetDateRanges)

	return r
}

// GetOverview handles GET /api/overview
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	data, err := h.service.Overview(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// GetKPI handles GET /api/overview/kpi
func (h *DashboardHandler) GetKPI(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	kpi, err := h.service.KPI(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   kpi,
	})
}

// GetTopTraders handles GET /api/overview/top-traders
func (h *DashboardHandler) GetTopTraders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	top, err := h.service.TopTraders(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   top,
		"count":  len(top),
	})
}

// Refresh handles POST /api/overview/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.service.Refresh(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}

// GetAssets handles GET /api/reference/assets
func (h *DashboardHandler) GetAssets(w http.ResponseWriter, r *http.Request) {
	assets := h.service.Assets(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   assets,
		"count":  len(assets),
	})
}

// GetDurations handles GET /api/reference/durations
func (h *DashboardHandler) GetDurations(w http.ResponseWriter, r *http.Request) {
	durations := h.service.Durations(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   durations,
		"count":  len(durations),
	})
}

// GetDateRanges handles GET /api/reference/date-ranges
func (h *DashboardHandler) GetDateRanges(w http.ResponseWriter, r *http.Request) {
	ranges := services.DateRanges(time.Now())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ranges,
		"count":  len(ranges),
	})
}

func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRange), errors.Is(err, services.ErrUnknownPreset):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("range", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, apierrors.DataSourceError(err))
	}
}
