package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tradepulse/pkg/contracts/domain"
)

// mockDataSource is a testify mock over the DataSource surface.
type mockDataSource struct {
	mock.Mock
}

func (m *mockDataSource) Assets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *mockDataSource) Durations(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockDataSource) KPI(ctx context.Context, f domain.Filter) (domain.KPI, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.KPI), args.Error(1)
}

func (m *mockDataSource) TopTraders(ctx context.Context, f domain.Filter, limit int, pnlFloor float64) ([]domain.TraderSummary, error) {
	args := m.Called(ctx, f, limit, pnlFloor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TraderSummary), args.Error(1)
}

func (m *mockDataSource) TraderProfile(ctx context.Context, traderID int64, from, to time.Time) (domain.TraderProfile, error) {
	args := m.Called(ctx, traderID, from, to)
	return args.Get(0).(domain.TraderProfile), args.Error(1)
}

func (m *mockDataSource) TradesForTrader(ctx context.Context, traderID int64, from, to time.Time) ([]domain.Trade, error) {
	args := m.Called(ctx, traderID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

func (m *mockDataSource) TicksForWindow(ctx context.Context, assetID int, from, to time.Time) ([]domain.Tick, error) {
	args := m.Called(ctx, assetID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tick), args.Error(1)
}

func (m *mockDataSource) InvalidateCache() {
	m.Called()
}
