package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tradepulse/internal/chartprep"
	"tradepulse/internal/config"
	"tradepulse/internal/datasource"
	"tradepulse/internal/grouping"
	"tradepulse/internal/infrastructure"
	"tradepulse/internal/session"
	"tradepulse/pkg/contracts/domain"
)

// Navigation actions accepted by a chart render pass.
const (
	ActionNone = ""
	ActionPrev = "prev"
	ActionNext = "next"
	ActionJump = "jump"
)

// ChartRequest describes one render pass of a trader's session chart.
type ChartRequest struct {
	TraderID  int64     `validate:"gt=0"`
	From      time.Time `validate:"required"`
	To        time.Time `validate:"required,gtefield=From"`
	SessionID string
	Action    string        `validate:"omitempty,oneof=prev next jump"`
	Group     int           `validate:"gte=0"`
	Gap       time.Duration `validate:"gte=0"`
	Encoding  chartprep.TimeEncoding
	Theme     chartprep.Theme
}

// gapThreshold returns the session granularity for one render pass: the
// request override when given, otherwise the configured default.
func (s *TraderService) gapThreshold(req ChartRequest) time.Duration {
	if req.Gap > 0 {
		return req.Gap
	}
	return s.cfg.GapThreshold
}

// Caption identifies the displayed group for the chart header.
type Caption struct {
	TraderID   int64  `json:"trader_id"`
	AssetID    int    `json:"asset_id"`
	AssetName  string `json:"asset_name"`
	GroupID    int    `json:"group_id"`
	GroupCount int    `json:"group_count"`
	NumTrades  int    `json:"num_trades"`
}

// ChartResponse is the outcome of one render pass. SessionID is echoed so
// the browser can carry the navigator state into the next request.
type ChartResponse struct {
	SessionID string            `json:"session_id"`
	Caption   Caption           `json:"caption"`
	Dataset   chartprep.Dataset `json:"dataset"`
}

// TraderService serves the drill-down view of one trader: the aggregate
// profile, the grouped trade list, and the navigable session chart.
type TraderService struct {
	source   DataSource
	sessions *session.Manager
	cfg      config.DashboardConfig
	logger   *slog.Logger
	metrics  *infrastructure.Metrics
}

// WithMetrics attaches the Prometheus instruments for render pass
// accounting. Returns the service for chaining at construction.
func (s *TraderService) WithMetrics(m *infrastructure.Metrics) *TraderService {
	s.metrics = m
	return s
}

// NewTraderService creates a trader service using default logger
func NewTraderService(source DataSource, sessions *session.Manager, cfg config.DashboardConfig) *TraderService {
	return NewTraderServiceWithLogger(source, sessions, cfg, slog.Default())
}

// NewTraderServiceWithLogger creates a trader service with a specific logger
func NewTraderServiceWithLogger(source DataSource, sessions *session.Manager, cfg config.DashboardConfig, logger *slog.Logger) *TraderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TraderService{
		source:   source,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger.With(slog.String("service", "trader")),
	}
}

// Profile returns the aggregate activity profile of one trader.
func (s *TraderService) Profile(ctx context.Context, traderID int64, from, to time.Time) (domain.TraderProfile, error) {
	p, err := s.source.TraderProfile(ctx, traderID, from, to)
	if errors.Is(err, datasource.ErrNoRows) {
		return domain.TraderProfile{}, fmt.Errorf("trader %d: %w", traderID, ErrTraderNotFound)
	}
	if err != nil {
		return domain.TraderProfile{}, fmt.Errorf("load trader profile: %w", err)
	}
	return p, nil
}

// Trades returns the trader's trades in range, sorted and tagged with
// group ids.
func (s *TraderService) Trades(ctx context.Context, traderID int64, from, to time.Time) ([]domain.Trade, error) {
	trades, err := s.source.TradesForTrader(ctx, traderID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return grouping.Assign(trades, s.cfg.GapThreshold), nil
}

// Chart runs one render pass: fetch and group the trades, move the
// session navigator per the requested action, fetch ticks lazily for the
// selected group only, and prepare the display dataset.
func (s *TraderService) Chart(ctx context.Context, req ChartRequest) (*ChartResponse, error) {
	sess, group, count, err := s.resolveGroup(ctx, req)
	if err != nil {
		s.countRenderPass("error")
		return nil, err
	}

	ticks, err := s.source.TicksForWindow(ctx, group.AssetID, group.WindowStart, group.WindowEnd)
	if err != nil {
		s.countRenderPass("error")
		return nil, fmt.Errorf("load ticks: %w", err)
	}

	dataset := chartprep.Prepare(group, ticks, chartprep.Options{
		Encoding: req.Encoding,
		Theme:    req.Theme,
	})

	s.countRenderPass("ok")
	s.logger.InfoContext(ctx, "chart rendered",
		slog.Int64("trader_id", req.TraderID),
		slog.Int("group", group.ID),
		slog.Int("groups", count),
		slog.Int("trades", len(group.Trades)),
		slog.Int("ticks", len(ticks)))

	return &ChartResponse{
		SessionID: sess.ID,
		Caption: Caption{
			TraderID:   req.TraderID,
			AssetID:    group.AssetID,
			AssetName:  s.assetName(ctx, sess, group.AssetID),
			GroupID:    group.ID,
			GroupCount: count,
			NumTrades:  len(group.Trades),
		},
		Dataset: dataset,
	}, nil
}

// GroupTrades resolves the render pass to the selected group's trades
// without preparing a dataset. The export endpoints use it.
func (s *TraderService) GroupTrades(ctx context.Context, req ChartRequest) (domain.TradeGroup, error) {
	_, group, _, err := s.resolveGroup(ctx, req)
	return group, err
}

// TradeInfo returns the full record of one trade action for the click
// info panel.
func (s *TraderService) TradeInfo(ctx context.Context, traderID, tradeActionID int64, from, to time.Time) (domain.Trade, error) {
	trades, err := s.Trades(ctx, traderID, from, to)
	if err != nil {
		return domain.Trade{}, err
	}
	for _, tr := range trades {
		if tr.TradeActionID == tradeActionID {
			return tr, nil
		}
	}
	return domain.Trade{}, fmt.Errorf("trade action %d: %w", tradeActionID, ErrNoTrades)
}

// resolveGroup fetches and groups the trades, then applies the navigation
// action to the session's navigator and returns the selected group.
func (s *TraderService) resolveGroup(ctx context.Context, req ChartRequest) (*session.Session, domain.TradeGroup, int, error) {
	trades, err := s.source.TradesForTrader(ctx, req.TraderID, req.From, req.To)
	if err != nil {
		return nil, domain.TradeGroup{}, 0, fmt.Errorf("load trades: %w", err)
	}
	if len(trades) == 0 {
		return nil, domain.TradeGroup{}, 0, fmt.Errorf("trader %d: %w", req.TraderID, ErrNoTrades)
	}

	groups := grouping.Build(trades, s.gapThreshold(req))
	if len(groups) == 0 {
		return nil, domain.TradeGroup{}, 0, ErrNoGroups
	}

	sess, _ := s.sessions.Get(req.SessionID)
	nav := sess.Navigator
	nav.Resize(len(groups))

	switch req.Action {
	case ActionNone:
	case ActionPrev:
		nav.Prev()
	case ActionNext:
		nav.Next()
	case ActionJump:
		if err := nav.Jump(req.Group); err != nil {
			return nil, domain.TradeGroup{}, 0, err
		}
	default:
		return nil, domain.TradeGroup{}, 0, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}

	return sess, groups[nav.Current()-1], len(groups), nil
}

func (s *TraderService) countRenderPass(outcome string) {
	if s.metrics != nil {
		s.metrics.RenderPasses.WithLabelValues(outcome).Inc()
	}
}

// assetName resolves an asset id through the session's catalog cache,
// warming the cache from the warehouse on first use. A failure falls back
// to the numeric id; the caption never blocks a render.
func (s *TraderService) assetName(ctx context.Context, sess *session.Session, assetID int) string {
	if name, ok := sess.AssetName(assetID); ok {
		return name
	}

	assets, err := s.source.Assets(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "asset name lookup failed",
			slog.Int("asset_id", assetID),
			slog.String("error", err.Error()))
		return fmt.Sprintf("asset %d", assetID)
	}

	names := make(map[int]string, len(assets))
	for _, a := range assets {
		names[a.ID] = a.Name
	}
	sess.SetAssetNames(names)

	if name, ok := names[assetID]; ok {
		return name
	}
	return fmt.Sprintf("asset %d", assetID)
}
