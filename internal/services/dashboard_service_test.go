package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradepulse/internal/config"
	"tradepulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDashConfig() config.DashboardConfig {
	return config.DashboardConfig{
		GapThreshold:       60 * time.Second,
		TopTradersLimit:    10,
		TopTradersPnLFloor: 1000,
	}
}

func dec(s string) decimal.NullDecimal {
	d, _ := decimal.NewFromString(s)
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func TestOverview(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("fills all flags for empty lists", func(t *testing.T) {
		source := new(mockDataSource)
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

		wantFilter := domain.Filter{From: from, To: to, AllAssets: true, AllDurations: true}
		source.On("KPI", mock.Anything, wantFilter).
			Return(domain.KPI{NumTrades: 10, NumTraders: 3, Margin: 0.04}, nil)
		source.On("TopTraders", mock.Anything, wantFilter, 10, 1000.0).
			Return([]domain.TraderSummary{{TraderID: 44554, TraderName: "jdoe", PnL: dec("2500")}}, nil)

		data, err := svc.Overview(context.Background(), domain.Filter{From: from, To: to})
		require.NoError(t, err)
		assert.Equal(t, int64(10), data.KPI.NumTrades)
		require.Len(t, data.TopTraders, 1)
		assert.True(t, data.Filter.AllAssets)
		assert.True(t, data.Filter.AllDurations)
		source.AssertExpectations(t)
	})

	t.Run("keeps explicit asset selection", func(t *testing.T) {
		source := new(mockDataSource)
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

		wantFilter := domain.Filter{From: from, To: to, AssetIDs: []int{1, 3}, AllDurations: true}
		source.On("KPI", mock.Anything, wantFilter).Return(domain.KPI{}, nil)
		source.On("TopTraders", mock.Anything, wantFilter, 10, 1000.0).
			Return([]domain.TraderSummary{}, nil)

		_, err := svc.Overview(context.Background(), domain.Filter{From: from, To: to, AssetIDs: []int{1, 3}})
		require.NoError(t, err)
		source.AssertExpectations(t)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		svc := NewDashboardServiceWithLogger(new(mockDataSource), testDashConfig(), testLogger())

		_, err := svc.Overview(context.Background(), domain.Filter{From: to, To: from})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("rejects missing bounds", func(t *testing.T) {
		svc := NewDashboardServiceWithLogger(new(mockDataSource), testDashConfig(), testLogger())

		_, err := svc.Overview(context.Background(), domain.Filter{From: from})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("propagates warehouse failure", func(t *testing.T) {
		source := new(mockDataSource)
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())
		source.On("KPI", mock.Anything, mock.Anything).
			Return(domain.KPI{}, errors.New("connection refused"))

		_, err := svc.Overview(context.Background(), domain.Filter{From: from, To: to})
		assert.Error(t, err)
	})
}

func TestReferenceListFallbacks(t *testing.T) {
	t.Run("assets fall back on error", func(t *testing.T) {
		source := new(mockDataSource)
		source.On("Assets", mock.Anything).Return(nil, errors.New("down"))
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

		assets := svc.Assets(context.Background())
		assert.Equal(t, fallbackAssets, assets)
	})

	t.Run("assets fall back on empty catalog", func(t *testing.T) {
		source := new(mockDataSource)
		source.On("Assets", mock.Anything).Return([]domain.Asset{}, nil)
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

		assert.Equal(t, fallbackAssets, svc.Assets(context.Background()))
	})

	t.Run("live catalog wins", func(t *testing.T) {
		source := new(mockDataSource)
		source.On("Assets", mock.Anything).Return([]domain.Asset{{ID: 7, Name: "USDCAD"}}, nil)
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

		assets := svc.Assets(context.Background())
		require.Len(t, assets, 1)
		assert.Equal(t, "USDCAD", assets[0].Name)
	})

	t.Run("durations fall back on error", func(t *testing.T) {
		source := new(mockDataSource)
		source.On("Durations", mock.Anything).Return(nil, errors.New("down"))
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

		assert.Equal(t, fallbackDurations, svc.Durations(context.Background()))
	})
}

func TestRefresh(t *testing.T) {
	source := new(mockDataSource)
	source.On("InvalidateCache").Return()
	svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

	svc.Refresh(context.Background())
	source.AssertExpectations(t)
}

func TestKPIAndTopTradersStandalone(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	filter := domain.Filter{From: from, To: to, AllAssets: true, AllDurations: true}

	t.Run("kpi only", func(t *testing.T) {
		source := new(mockDataSource)
		source.On("KPI", mock.Anything, filter).
			Return(domain.KPI{NumTrades: 7}, nil)
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

		kpi, err := svc.KPI(context.Background(), domain.Filter{From: from, To: to})
		require.NoError(t, err)
		assert.Equal(t, int64(7), kpi.NumTrades)
		source.AssertNotCalled(t, "TopTraders", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("top traders only", func(t *testing.T) {
		source := new(mockDataSource)
		source.On("TopTraders", mock.Anything, filter, 10, 1000.0).
			Return([]domain.TraderSummary{{TraderID: 44554}}, nil)
		svc := NewDashboardServiceWithLogger(source, testDashConfig(), testLogger())

		top, err := svc.TopTraders(context.Background(), domain.Filter{From: from, To: to})
		require.NoError(t, err)
		require.Len(t, top, 1)
		source.AssertNotCalled(t, "KPI", mock.Anything, mock.Anything)
	})

	t.Run("invalid range rejected", func(t *testing.T) {
		svc := NewDashboardServiceWithLogger(new(mockDataSource), testDashConfig(), testLogger())
		_, err := svc.KPI(context.Background(), domain.Filter{From: to, To: from})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestDateRanges(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	ranges := DateRanges(now)
	require.Len(t, ranges, 5)
	assert.Equal(t, "today", ranges[0].Key)
	assert.Equal(t, "month_to_date", ranges[4].Key)
	assert.True(t, ranges[0].From.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ranges[0].To.Equal(now))
}

func TestPresetRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		preset   string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{"today", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), now},
		{"yesterday",
			time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)},
		{"last_7_days", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), now},
		{"last_30_days", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), now},
		{"month_to_date", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), now},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			from, to, err := PresetRange(tt.preset, now)
			require.NoError(t, err)
			assert.True(t, from.Equal(tt.wantFrom), "from: got %s want %s", from, tt.wantFrom)
			assert.True(t, to.Equal(tt.wantTo), "to: got %s want %s", to, tt.wantTo)
		})
	}

	t.Run("unknown preset", func(t *testing.T) {
		_, _, err := PresetRange("last_quarter", now)
		assert.ErrorIs(t, err, ErrUnknownPreset)
	})
}
