package datasource

import (
	"tradepulse/pkg/contracts/domain"
)

// Table-to-record mapping. Every mapper keeps malformed rows: a cell that
// does not convert leaves the corresponding field at its missing marker
// (invalid decimal, zero time, ERR side) and the row is emitted anyway.

func mapAssets(t *Table) []domain.Asset {
	out := make([]domain.Asset, 0, len(t.Rows))
	for i := range t.Rows {
		id, ok := asInt(t.Value(i, "asset_id"))
		if !ok {
			continue // an asset without an id cannot be referenced
		}
		out = append(out, domain.Asset{
			ID:   id,
			Name: asString(t.Value(i, "asset_name")),
		})
	}
	return out
}

func mapKPI(t *Table) domain.KPI {
	if t.Empty() {
		return domain.KPI{}
	}

	kpi := domain.KPI{}
	kpi.NumTrades, _ = asInt64(t.Value(0, "num_trades"))
	kpi.NumTraders, _ = asInt64(t.Value(0, "num_traders"))
	kpi.SiteProfit = asDecimal(t.Value(0, "site_profit"))
	kpi.SiteVolume = asDecimal(t.Value(0, "site_volume"))

	if kpi.SiteProfit.Valid && kpi.SiteVolume.Valid && !kpi.SiteVolume.Decimal.IsZero() {
		margin, _ := kpi.SiteProfit.Decimal.Div(kpi.SiteVolume.Decimal).Float64()
		kpi.Margin = margin
	}
	return kpi
}

func mapTraderSummaries(t *Table) []domain.TraderSummary {
	out := make([]domain.TraderSummary, 0, len(t.Rows))
	for i := range t.Rows {
		id, ok := asInt64(t.Value(i, "trader_id"))
		if !ok {
			continue
		}
		s := domain.TraderSummary{
			TraderID:   id,
			TraderName: asString(t.Value(i, "trader_name")),
			PnL:        asDecimal(t.Value(i, "pnl")),
			Volume:     asDecimal(t.Value(i, "volume")),
		}
		s.NumTrades, _ = asInt64(t.Value(i, "num_trades"))
		out = append(out, s)
	}
	return out
}

func mapTraderProfile(t *Table) domain.TraderProfile {
	p := domain.TraderProfile{
		TraderName: asString(t.Value(0, "trader_name")),
		Volume:     asDecimal(t.Value(0, "volume")),
		PnL:        asDecimal(t.Value(0, "pnl")),
	}
	p.TraderID, _ = asInt64(t.Value(0, "trader_id"))
	p.NumTrades, _ = asInt64(t.Value(0, "num_trades"))
	p.FirstTrade, _ = asTime(t.Value(0, "first_trade"))
	p.LastTrade, _ = asTime(t.Value(0, "last_trade"))
	return p
}

func mapTrades(t *Table) []domain.Trade {
	out := make([]domain.Trade, 0, len(t.Rows))
	for i := range t.Rows {
		tr := domain.Trade{
			TradingStrike: asDecimal(t.Value(i, "trading_strike")),
			CloseStrike:   asDecimal(t.Value(i, "close_strike")),
			Volume:        asDecimal(t.Value(i, "volume")),
			Profit:        asDecimal(t.Value(i, "profit")),
			Duration:      asString(t.Value(i, "duration")),
		}
		tr.TradeActionID, _ = asInt64(t.Value(i, "trade_action_id"))
		tr.TraderID, _ = asInt64(t.Value(i, "trader_id"))
		tr.AssetID, _ = asInt(t.Value(i, "asset_id"))
		tr.TradingTime, _ = asTime(t.Value(i, "trading_time"))
		tr.CloseTime, _ = asTime(t.Value(i, "close_time"))

		if code, ok := asInt(t.Value(i, "trade_type")); ok {
			tr.Side = domain.SideFromTradeType(code)
		} else if s := asString(t.Value(i, "side")); s != "" {
			tr.Side = domain.ParseSide(s)
		} else {
			tr.Side = domain.SideErr
		}

		out = append(out, tr)
	}
	return out
}

func mapTicks(t *Table) []domain.Tick {
	out := make([]domain.Tick, 0, len(t.Rows))
	for i := range t.Rows {
		tk := domain.Tick{
			Price: asDecimal(t.Value(i, "price")),
		}
		tk.AssetID, _ = asInt(t.Value(i, "asset_id"))
		tk.Timestamp, _ = asTime(t.Value(i, "timestamp"))
		tk.SenderTimestamp, _ = asTime(t.Value(i, "sender_timestamp"))
		out = append(out, tk)
	}
	return out
}
