package datasource

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/pkg/contracts/domain"
)

func TestAsDecimal(t *testing.T) {
	tests := []struct {
		name  string
		in    interface{}
		valid bool
		want  string
	}{
		{"float64", 151.25, true, "151.25"},
		{"float32", float32(2.5), true, "2.5"},
		{"NaN", math.NaN(), false, ""},
		{"positive infinity", math.Inf(1), false, ""},
		{"negative infinity", math.Inf(-1), false, ""},
		{"float32 NaN", float32(math.NaN()), false, ""},
		{"int64", int64(42), true, "42"},
		{"numeric string", "12.5", true, "12.5"},
		{"pgtype numeric", pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}, true, "123.45"},
		{"invalid pgtype numeric", pgtype.Numeric{}, false, ""},
		{"garbage string", "NaN-ish", false, ""},
		{"nil", nil, false, ""},
		{"bool", true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := asDecimal(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				want, err := decimal.NewFromString(tt.want)
				require.NoError(t, err)
				assert.True(t, got.Decimal.Equal(want), "got %s want %s", got.Decimal, want)
			}
		})
	}
}

func TestMapTradesDegradesMalformedFields(t *testing.T) {
	table := &Table{
		Columns: []string{"trade_action_id", "trader_id", "trade_type", "trading_time",
			"trading_strike", "close_time", "close_strike", "volume", "profit", "asset_id", "duration"},
		Rows: [][]interface{}{
			{int64(1), int64(44554), int64(1), time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
				151.25, time.Date(2024, 3, 15, 10, 1, 0, 0, time.UTC), 151.30, 1000.0, 12.5, int64(1), "00:01:00"},
			// Corrupt row: unparseable volume, NaN profit, unknown trade type code.
			{int64(2), int64(44554), int64(9), time.Date(2024, 3, 15, 10, 0, 30, 0, time.UTC),
				"oops", time.Date(2024, 3, 15, 10, 1, 30, 0, time.UTC), nil, "not-a-number", math.NaN(), int64(1), "00:01:00"},
		},
	}

	trades := mapTrades(table)
	require.Len(t, trades, 2, "malformed rows must be kept, not dropped")

	assert.Equal(t, domain.SideBuy, trades[0].Side)
	assert.True(t, trades[0].Volume.Valid)

	bad := trades[1]
	assert.Equal(t, domain.SideErr, bad.Side)
	assert.False(t, bad.TradingStrike.Valid)
	assert.False(t, bad.CloseStrike.Valid)
	assert.False(t, bad.Volume.Valid)
	assert.False(t, bad.Profit.Valid)
	assert.Equal(t, "00:01:00", bad.Duration)
}

func TestSideFromTradeTypeCodes(t *testing.T) {
	tests := []struct {
		code int
		want domain.Side
	}{
		{1, domain.SideBuy},
		{2, domain.SideSell},
		{6, domain.SideBuy},  // 6 % 5 == 1
		{7, domain.SideSell}, // 7 % 5 == 2
		{0, domain.SideErr},
		{3, domain.SideErr},
		{5, domain.SideErr},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.SideFromTradeType(tt.code), "code %d", tt.code)
	}
}

func TestMapKPI(t *testing.T) {
	t.Run("computes margin", func(t *testing.T) {
		table := &Table{
			Columns: []string{"num_trades", "num_traders", "site_profit", "site_volume"},
			Rows:    [][]interface{}{{int64(200), int64(17), 500.0, 10000.0}},
		}
		kpi := mapKPI(table)
		assert.Equal(t, int64(200), kpi.NumTrades)
		assert.Equal(t, int64(17), kpi.NumTraders)
		assert.InDelta(t, 0.05, kpi.Margin, 1e-9)
	})

	t.Run("empty table gives zero KPI", func(t *testing.T) {
		kpi := mapKPI(&Table{Columns: []string{"num_trades"}})
		assert.Equal(t, int64(0), kpi.NumTrades)
		assert.Zero(t, kpi.Margin)
	})

	t.Run("zero volume leaves margin zero", func(t *testing.T) {
		table := &Table{
			Columns: []string{"num_trades", "num_traders", "site_profit", "site_volume"},
			Rows:    [][]interface{}{{int64(1), int64(1), 10.0, 0.0}},
		}
		assert.Zero(t, mapKPI(table).Margin)
	})
}

func TestMapTicks(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	table := &Table{
		Columns: []string{"asset_id", "timestamp", "sender_timestamp", "price"},
		Rows: [][]interface{}{
			{int64(1), now, now.Add(-time.Second), 151.27},
			{int64(1), now.Add(time.Second), nil, "bad"},
		},
	}

	ticks := mapTicks(table)
	require.Len(t, ticks, 2)
	assert.True(t, ticks[0].Price.Valid)
	assert.False(t, ticks[1].Price.Valid)
	assert.True(t, ticks[1].SenderTimestamp.IsZero())
}

func TestTableValue(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Rows:    [][]interface{}{{1, 2}},
	}

	assert.Equal(t, 2, table.Value(0, "b"))
	assert.Nil(t, table.Value(0, "missing_column"))
	assert.Nil(t, table.Value(5, "a"))
}
