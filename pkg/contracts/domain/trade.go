package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side classifies the direction of a trade action
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	// SideErr marks an unrecognized trade type code. Rows carrying it are
	// preserved end to end, never dropped.
	SideErr Side = "ERR"
)

// SideFromTradeType maps a raw platform trade type code to a Side.
// The platform encodes direction in the code modulo 5: 1 is a buy,
// 2 is a sell, anything else is unrecognized.
func SideFromTradeType(code int) Side {
	switch code % 5 {
	case 1:
		return SideBuy
	case 2:
		return SideSell
	default:
		return SideErr
	}
}

// ParseSide maps a side label from an upstream table to a Side.
// Unknown labels become SideErr.
func ParseSide(s string) Side {
	switch Side(s) {
	case SideBuy, SideSell:
		return Side(s)
	default:
		return SideErr
	}
}

// Trade represents one closed or open trading action.
// Monetary fields use NullDecimal so that a malformed upstream value
// degrades to an invalid field marker instead of failing the row.
type Trade struct {
	TradeActionID int64               `json:"trade_action_id" db:"trade_action_id"`
	TraderID      int64               `json:"trader_id" db:"trader_id"`
	AssetID       int                 `json:"asset_id" db:"asset_id"`
	Side          Side                `json:"side" db:"side"`
	TradingTime   time.Time           `json:"trading_time" db:"trading_time"`
	TradingStrike decimal.NullDecimal `json:"trading_strike" db:"trading_strike"`
	CloseTime     time.Time           `json:"close_time" db:"close_time"`
	CloseStrike   decimal.NullDecimal `json:"close_strike" db:"close_strike"`
	Volume        decimal.NullDecimal `json:"volume" db:"volume"`
	Profit        decimal.NullDecimal `json:"profit" db:"profit"`
	Duration      string              `json:"duration" db:"duration"`

	// GroupID is assigned by the grouping pass. Zero means untagged.
	GroupID int `json:"group_id,omitempty"`
}

// TradeGroup is a derived clustering of trades for a single asset whose
// consecutive open times fall within the grouping gap threshold.
// Groups are recomputed from the current trade set on every render pass
// and never persisted.
type TradeGroup struct {
	ID          int       `json:"id"`
	AssetID     int       `json:"asset_id"`
	Trades      []Trade   `json:"trades"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}
