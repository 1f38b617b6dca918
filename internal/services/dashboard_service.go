package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tradepulse/internal/config"
	"tradepulse/pkg/contracts/domain"
)

// Reference lists served when the warehouse cannot provide them. The
// overview page stays usable with a stale catalog; it does not stay
// usable with an empty one.
var (
	fallbackAssets = []domain.Asset{
		{ID: 1, Name: "EURUSD"},
		{ID: 2, Name: "GBPUSD"},
		{ID: 3, Name: "USDJPY"},
		{ID: 4, Name: "USDCHF"},
		{ID: 5, Name: "AUDUSD"},
	}
	fallbackDurations = []string{"30", "60", "120", "300", "600"}
)

// OverviewData bundles everything the overview page renders for one
// filter set.
type OverviewData struct {
	Filter     domain.Filter          `json:"filter"`
	KPI        domain.KPI             `json:"kpi"`
	TopTraders []domain.TraderSummary `json:"top_traders"`
}

// DashboardService serves the overview page: aggregate KPIs, the top
// traders table, and the reference lists backing the filter controls.
type DashboardService struct {
	source DataSource
	cfg    config.DashboardConfig
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service using default logger
func NewDashboardService(source DataSource, cfg config.DashboardConfig) *DashboardService {
	return NewDashboardServiceWithLogger(source, cfg, slog.Default())
}

// NewDashboardServiceWithLogger creates a dashboard service with a specific logger
func NewDashboardServiceWithLogger(source DataSource, cfg config.DashboardConfig, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		source: source,
		cfg:    cfg,
		logger: logger.With(slog.String("service", "dashboard")),
	}
}

// Assets returns the asset catalog for the filter controls. A warehouse
// failure degrades to the built-in reference list.
func (s *DashboardService) Assets(ctx context.Context) []domain.Asset {
	assets, err := s.source.Assets(ctx)
	if err != nil || len(assets) == 0 {
		s.logger.WarnContext(ctx, "asset catalog unavailable, serving fallback list",
			slog.Any("error", err))
		return fallbackAssets
	}
	return assets
}

// Durations returns the duration labels for the filter controls, with the
// same fallback policy as Assets.
func (s *DashboardService) Durations(ctx context.Context) []string {
	durations, err := s.source.Durations(ctx)
	if err != nil || len(durations) == 0 {
		s.logger.WarnContext(ctx, "duration list unavailable, serving fallback list",
			slog.Any("error", err))
		return fallbackDurations
	}
	return durations
}

// KPI computes the aggregate KPI block for the filter.
func (s *DashboardService) KPI(ctx context.Context, f domain.Filter) (domain.KPI, error) {
	f, err := s.normalize(f)
	if err != nil {
		return domain.KPI{}, err
	}
	kpi, err := s.source.KPI(ctx, f)
	if err != nil {
		return domain.KPI{}, fmt.Errorf("load kpi: %w", err)
	}
	return kpi, nil
}

// TopTraders computes the top traders table for the filter, bounded by the
// configured row limit and PnL floor.
func (s *DashboardService) TopTraders(ctx context.Context, f domain.Filter) ([]domain.TraderSummary, error) {
	f, err := s.normalize(f)
	if err != nil {
		return nil, err
	}
	top, err := s.source.TopTraders(ctx, f, s.cfg.TopTradersLimit, s.cfg.TopTradersPnLFloor)
	if err != nil {
		return nil, fmt.Errorf("load top traders: %w", err)
	}
	return top, nil
}

// Overview computes the KPI block and top traders table for the filter.
func (s *DashboardService) Overview(ctx context.Context, f domain.Filter) (*OverviewData, error) {
	f, err := s.normalize(f)
	if err != nil {
		return nil, err
	}

	kpi, err := s.source.KPI(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load kpi: %w", err)
	}

	top, err := s.source.TopTraders(ctx, f, s.cfg.TopTradersLimit, s.cfg.TopTradersPnLFloor)
	if err != nil {
		return nil, fmt.Errorf("load top traders: %w", err)
	}

	s.logger.InfoContext(ctx, "overview computed",
		slog.Int64("num_trades", kpi.NumTrades),
		slog.Int("top_traders", len(top)))

	return &OverviewData{Filter: f, KPI: kpi, TopTraders: top}, nil
}

// Refresh drops cached query results so the next overview reflects the
// warehouse as of now.
func (s *DashboardService) Refresh(ctx context.Context) {
	s.source.InvalidateCache()
	s.logger.InfoContext(ctx, "overview cache refreshed")
}

// normalize fills the All* flags from empty lists and validates the range.
func (s *DashboardService) normalize(f domain.Filter) (domain.Filter, error) {
	if f.From.IsZero() || f.To.IsZero() {
		return f, fmt.Errorf("%w: both range bounds are required", ErrInvalidRange)
	}
	if f.To.Before(f.From) {
		return f, fmt.Errorf("%w: %s is after %s", ErrInvalidRange,
			f.From.Format(time.RFC3339), f.To.Format(time.RFC3339))
	}
	if len(f.AssetIDs) == 0 {
		f.AllAssets = true
	}
	if len(f.Durations) == 0 {
		f.AllDurations = true
	}
	return f, nil
}

// DateRange is one quick-range option, resolved to concrete bounds so
// clients need no calendar logic of their own.
type DateRange struct {
	Key  string    `json:"key"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// presets in display order.
var presets = []string{"today", "yesterday", "last_7_days", "last_30_days", "month_to_date"}

// DateRanges returns every quick-range preset resolved against now.
func DateRanges(now time.Time) []DateRange {
	out := make([]DateRange, 0, len(presets))
	for _, key := range presets {
		from, to, err := PresetRange(key, now)
		if err != nil {
			continue
		}
		out = append(out, DateRange{Key: key, From: from, To: to})
	}
	return out
}

// PresetRange resolves a named date range preset against now. Bounds are
// whole UTC days, end exclusive of nothing: To is the last instant queried.
func PresetRange(preset string, now time.Time) (time.Time, time.Time, error) {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	today := day(now.UTC())

	switch preset {
	case "today":
		return today, now.UTC(), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), today.Add(-time.Nanosecond), nil
	case "last_7_days":
		return today.AddDate(0, 0, -6), now.UTC(), nil
	case "last_30_days":
		return today.AddDate(0, 0, -29), now.UTC(), nil
	case "month_to_date":
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), now.UTC(), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
}
