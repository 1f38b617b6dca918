package services

import (
	"context"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// DataSource is the warehouse surface the services consume. It is
// satisfied by *datasource.Client and mocked in tests.
type DataSource interface {
	Assets(ctx context.Context) ([]domain.Asset, error)
	Durations(ctx context.Context) ([]string, error)
	KPI(ctx context.Context, f domain.Filter) (domain.KPI, error)
	TopTraders(ctx context.Context, f domain.Filter, limit int, pnlFloor float64) ([]domain.TraderSummary, error)
	TraderProfile(ctx context.Context, traderID int64, from, to time.Time) (domain.TraderProfile, error)
	TradesForTrader(ctx context.Context, traderID int64, from, to time.Time) ([]domain.Trade, error)
	TicksForWindow(ctx context.Context, assetID int, from, to time.Time) ([]domain.Tick, error)
	InvalidateCache()
}
