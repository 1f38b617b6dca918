package exporter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradepulse/pkg/contracts/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// tradeHeaders is the column order shared by every export format: the
// trade action id leads, the display columns follow in chart order, and
// the group id trails.
var tradeHeaders = []string{
	"trade_action_id",
	"side",
	"trading_time",
	"trading_strike",
	"close_time",
	"close_strike",
	"volume",
	"profit",
	"duration",
	"asset_id",
	"group_id",
}

// formatDecimal renders a nullable decimal; an invalid value becomes an
// empty cell, never a zero.
func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// formatTime renders a timestamp in UTC; the zero time becomes an empty
// cell.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// tradeRecord renders one trade as a row of strings in header order.
func tradeRecord(t domain.Trade) []string {
	return []string{
		fmt.Sprintf("%d", t.TradeActionID),
		string(t.Side),
		formatTime(t.TradingTime),
		formatDecimal(t.TradingStrike),
		formatTime(t.CloseTime),
		formatDecimal(t.CloseStrike),
		formatDecimal(t.Volume),
		formatDecimal(t.Profit),
		t.Duration,
		fmt.Sprintf("%d", t.AssetID),
		fmt.Sprintf("%d", t.GroupID),
	}
}

// Filename builds the download name for a group export.
func Filename(traderID int64, groupID int, ext string) string {
	return fmt.Sprintf("trader_%d_group_%d.%s", traderID, groupID, ext)
}
