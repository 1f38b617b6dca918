package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPI holds the aggregate summary metrics shown at the top of the
// overview page for the current filter set.
type KPI struct {
	NumTrades  int64               `json:"num_trades" db:"num_trades"`
	NumTraders int64               `json:"num_traders" db:"num_traders"`
	SiteProfit decimal.NullDecimal `json:"site_profit" db:"site_profit"`
	SiteVolume decimal.NullDecimal `json:"site_volume" db:"site_volume"`
	// Margin is site profit over site volume, as a fraction.
	Margin float64 `json:"margin" db:"margin"`
}

// TraderSummary is one row of the top traders table.
type TraderSummary struct {
	TraderID   int64               `json:"trader_id" db:"trader_id"`
	TraderName string              `json:"trader_name" db:"trader_name"`
	NumTrades  int64               `json:"num_trades" db:"num_trades"`
	PnL        decimal.NullDecimal `json:"pnl" db:"pnl"`
	Volume     decimal.NullDecimal `json:"volume" db:"volume"`
}

// TraderProfile aggregates one trader's activity over the filter range.
type TraderProfile struct {
	TraderID   int64               `json:"trader_id" db:"trader_id"`
	TraderName string              `json:"trader_name" db:"trader_name"`
	NumTrades  int64               `json:"num_trades" db:"num_trades"`
	Volume     decimal.NullDecimal `json:"volume" db:"volume"`
	PnL        decimal.NullDecimal `json:"pnl" db:"pnl"`
	FirstTrade time.Time           `json:"first_trade" db:"first_trade"`
	LastTrade  time.Time           `json:"last_trade" db:"last_trade"`
}

// Asset is one entry of the asset catalog.
type Asset struct {
	ID   int    `json:"id" db:"asset_id"`
	Name string `json:"name" db:"asset_name"`
}

// Filter carries the dashboard filter set. The All* flags tell the query
// layer to bypass the corresponding IN-list; they are passed through and
// never interpreted by the core.
type Filter struct {
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	AssetIDs     []int     `json:"asset_ids,omitempty"`
	Durations    []string  `json:"durations,omitempty"`
	AllAssets    bool      `json:"all_assets"`
	AllDurations bool      `json:"all_durations"`
}
