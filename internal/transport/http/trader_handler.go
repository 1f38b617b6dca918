package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"tradepulse/internal/chartprep"
	"tradepulse/internal/config"
	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/exporter"
	"tradepulse/internal/navigation"
	"tradepulse/internal/services"
)

// sessionHeader carries the navigator session id in both directions.
const sessionHeader = "X-Session-ID"

var validate = validator.New()

type traderCtxKey string

const traderIDKey traderCtxKey = "trader-id"

// TraderHandler serves the drill-down view of one trader: profile,
// grouped trades, the navigable session chart, and chart exports.
type TraderHandler struct {
	service      *services.TraderService
	cfg          config.DashboardConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTraderHandler creates a new trader handler
func NewTraderHandler(service *services.TraderService, cfg config.DashboardConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TraderHandler {
	return &TraderHandler{
		service:      service,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "trader_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the trader routes
func (h *TraderHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/{traderID}", func(r chi.Router) {
		r.Use(h.TraderCtx)
		r.Get("/profile", h.GetProfile)
		r.Get("/trades", h.GetTrades)
		r.Get("/trades/{tradeActionID}", h.GetTradeInfo)
		r.Get("/chart", h.GetChart)
		r.Get("/chart/export", h.ExportChart)
	})

	return r
}

// TraderCtx validates the traderID parameter.
func (h *TraderHandler) TraderCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "traderID")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("traderID",
				fmt.Sprintf("invalid trader id %q", raw)))
			return
		}
		next.ServeHTTP(w, r.WithContext(
			contextWithTraderID(r.Context(), id)))
	})
}

// GetProfile handles GET /api/traders/{traderID}/profile
func (h *TraderHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	profile, err := h.service.Profile(r.Context(), traderIDFromContext(r.Context()), filter.From, filter.To)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   profile,
	})
}

// GetTrades handles GET /api/traders/{traderID}/trades
func (h *TraderHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	trades, err := h.service.Trades(r.Context(), traderIDFromContext(r.Context()), filter.From, filter.To)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   trades,
		"count":  len(trades),
	})
}

// GetTradeInfo handles GET /api/traders/{traderID}/trades/{tradeActionID},
// the click info panel behind a chart marker.
func (h *TraderHandler) GetTradeInfo(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filter", err.Error()))
		return
	}

	raw := chi.URLParam(r, "tradeActionID")
	actionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || actionID <= 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("tradeActionID",
			fmt.Sprintf("invalid trade action id %q", raw)))
		return
	}

	trade, err := h.service.TradeInfo(r.Context(), traderIDFromContext(r.Context()), actionID, filter.From, filter.To)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   trade,
	})
}

// GetChart handles GET /api/traders/{traderID}/chart. The session id
// travels in the X-Session-ID header both ways; action selects the
// navigation step for this render pass.
func (h *TraderHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	req, err := h.chartRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("chart", err.Error()))
		return
	}

	resp, err := h.service.Chart(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set(sessionHeader, resp.SessionID)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   resp,
	})
}

// ExportChart handles GET /api/traders/{traderID}/chart/export. It
// resolves the same group the chart shows and streams it as csv or xlsx.
func (h *TraderHandler) ExportChart(w http.ResponseWriter, r *http.Request) {
	req, err := h.chartRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("chart", err.Error()))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format",
			fmt.Sprintf("unsupported export format %q", format)))
		return
	}

	group, err := h.service.GroupTrades(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	filename := exporter.Filename(req.TraderID, group.ID, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = exporter.WriteGroupCSV(w, group)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = exporter.WriteGroupXLSX(w, group)
	}
	if err != nil {
		// Headers are gone; all that is left is the log line.
		h.logger.ErrorContext(r.Context(), "export write failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}

// chartRequest assembles the render pass request from query parameters,
// headers, and configured display defaults.
func (h *TraderHandler) chartRequest(r *http.Request) (services.ChartRequest, error) {
	filter, err := parseFilter(r)
	if err != nil {
		return services.ChartRequest{}, err
	}

	q := r.URL.Query()
	req := services.ChartRequest{
		TraderID:  traderIDFromContext(r.Context()),
		From:      filter.From,
		To:        filter.To,
		SessionID: r.Header.Get(sessionHeader),
		Action:    q.Get("action"),
		Encoding:  chartprep.ParseTimeEncoding(h.cfg.TimeEncoding),
		Theme:     chartprep.ParseTheme(h.cfg.Theme),
	}

	if enc := q.Get("encoding"); enc != "" {
		req.Encoding = chartprep.ParseTimeEncoding(enc)
	}
	if theme := q.Get("theme"); theme != "" {
		req.Theme = chartprep.ParseTheme(theme)
	}

	if gap := q.Get("gap"); gap != "" {
		secs, err := strconv.Atoi(gap)
		if err != nil || secs <= 0 {
			return services.ChartRequest{}, fmt.Errorf("gap: not a positive number of seconds: %q", gap)
		}
		req.Gap = time.Duration(secs) * time.Second
	}

	if group := q.Get("group"); group != "" {
		k, err := strconv.Atoi(group)
		if err != nil {
			return services.ChartRequest{}, fmt.Errorf("group: not an integer: %q", group)
		}
		req.Group = k
		if req.Action == "" {
			req.Action = services.ActionJump
		}
	}

	if err := validate.Struct(req); err != nil {
		return services.ChartRequest{}, err
	}
	return req, nil
}

func (h *TraderHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrTraderNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrTraderNotFound)
	case errors.Is(err, services.ErrNoTrades), errors.Is(err, services.ErrNoGroups):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound, "NO_TRADES_FOUND", "No trades in the requested range"))
	case errors.Is(err, navigation.ErrGroupOutOfRange):
		h.errorHandler.HandleError(w, r, apierrors.ErrGroupNotFound)
	case errors.Is(err, services.ErrInvalidAction):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("action", err.Error()))
	case errors.Is(err, services.ErrInvalidRange):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("range", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, apierrors.DataSourceError(err))
	}
}
