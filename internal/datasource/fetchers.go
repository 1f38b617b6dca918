package datasource

import (
	"context"
	"errors"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// ErrNoRows is returned by single-row fetchers when the query matched
// nothing.
var ErrNoRows = errors.New("query returned no rows")

// Assets returns the asset catalog, test assets excluded.
func (c *Client) Assets(ctx context.Context) ([]domain.Asset, error) {
	t, err := c.Query(ctx, "assets_list", assetsListSQL)
	if err != nil {
		return nil, err
	}
	return mapAssets(t), nil
}

// Durations returns the distinct active contract duration labels.
func (c *Client) Durations(ctx context.Context) ([]string, error) {
	t, err := c.Query(ctx, "durations_list", durationsListSQL)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		if d := asString(t.Value(i, "duration")); d != "" {
			out = append(out, d)
		}
	}
	return out, nil
}

// KPI returns the aggregate metrics for the filter set. The All* flags
// are forwarded so the query can bypass the IN-lists wholesale.
func (c *Client) KPI(ctx context.Context, f domain.Filter) (domain.KPI, error) {
	t, err := c.Query(ctx, "overview_kpi", overviewKPISQL,
		f.From, f.To, f.AllAssets, f.AssetIDs, f.AllDurations, f.Durations)
	if err != nil {
		return domain.KPI{}, err
	}
	return mapKPI(t), nil
}

// TopTraders returns the traders with the largest absolute PnL within the
// filter set, bounded by limit; traders under pnlFloor are left out.
func (c *Client) TopTraders(ctx context.Context, f domain.Filter, limit int, pnlFloor float64) ([]domain.TraderSummary, error) {
	t, err := c.Query(ctx, "top_traders", topTradersSQL,
		f.From, f.To, f.AllAssets, f.AssetIDs, f.AllDurations, f.Durations, pnlFloor, limit)
	if err != nil {
		return nil, err
	}
	return mapTraderSummaries(t), nil
}

// TraderProfile returns the aggregate profile of one trader over the
// range, or ErrNoRows when the trader has no activity there.
func (c *Client) TraderProfile(ctx context.Context, traderID int64, from, to time.Time) (domain.TraderProfile, error) {
	t, err := c.Query(ctx, "trader_profile", traderProfileSQL, traderID, from, to)
	if err != nil {
		return domain.TraderProfile{}, err
	}
	if t.Empty() {
		return domain.TraderProfile{}, ErrNoRows
	}
	return mapTraderProfile(t), nil
}

// TradesForTrader returns every trade action of one trader inside the
// range, untagged. Open-time order is not guaranteed here; grouping sorts.
func (c *Client) TradesForTrader(ctx context.Context, traderID int64, from, to time.Time) ([]domain.Trade, error) {
	t, err := c.Query(ctx, "all_trades", allTradesSQL, traderID, from, to)
	if err != nil {
		return nil, err
	}
	return mapTrades(t), nil
}

// TicksForWindow returns the price observations for one asset inside a
// group window. Fetched lazily, only for the group being displayed.
func (c *Client) TicksForWindow(ctx context.Context, assetID int, from, to time.Time) ([]domain.Tick, error) {
	t, err := c.Query(ctx, "rtd_for_trades", ticksForWindowSQL, assetID, from, to)
	if err != nil {
		return nil, err
	}
	return mapTicks(t), nil
}
