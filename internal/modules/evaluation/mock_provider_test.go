package evaluation

import (
	"context"
	"time"

	"github.com/aristath/buywrite/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) PriceHistory(ctx context.Context, symbol string, asOf time.Time) ([]domain.PricePoint, error) {
	args := m.Called(ctx, symbol, asOf)
	prices, _ := args.Get(0).([]domain.PricePoint)
	return prices, args.Error(1)
}

func (m *mockProvider) DividendHistory(ctx context.Context, symbol string) ([]domain.Dividend, error) {
	args := m.Called(ctx, symbol)
	divs, _ := args.Get(0).([]domain.Dividend)
	return divs, args.Error(1)
}

func (m *mockProvider) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	args := m.Called(ctx, symbol)
	dates, _ := args.Get(0).([]time.Time)
	return dates, args.Error(1)
}

func (m *mockProvider) CallChain(ctx context.Context, symbol string, expiration time.Time) ([]domain.OptionQuote, error) {
	args := m.Called(ctx, symbol, expiration)
	chain, _ := args.Get(0).([]domain.OptionQuote)
	return chain, args.Error(1)
}
