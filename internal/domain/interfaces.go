package domain

import (
	"context"
	"time"
)

// MarketDataProvider is the contract the evaluation core uses to reach market data.
// Implementations either return a complete result or fail outright.
type MarketDataProvider interface {
	// PriceHistory returns daily closes ending on or before asOf, oldest first
	PriceHistory(ctx context.Context, symbol string, asOf time.Time) ([]PricePoint, error)

	// DividendHistory returns every known dividend, oldest first
	DividendHistory(ctx context.Context, symbol string) ([]Dividend, error)

	// Expirations returns the listed option expiration dates
	Expirations(ctx context.Context, symbol string) ([]time.Time, error)

	// CallChain returns the call quotes for one expiration
	CallChain(ctx context.Context, symbol string, expiration time.Time) ([]OptionQuote, error)
}
