package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aristath/buywrite/internal/domain"
	"github.com/aristath/buywrite/pkg/formulas"
	"github.com/rs/zerolog"
)

// DefaultExchange is appended to bare tickers.
const DefaultExchange = "US"

// priceLookback is how far before the as-of date closes are requested;
// it spans holidays and long weekends.
const priceLookback = 14 * 24 * time.Hour

// Provider adapts the EODHD client to domain.MarketDataProvider.
// All dates are returned at midnight in the exchange timezone.
type Provider struct {
	client   *Client
	exchange string
	loc      *time.Location
	log      zerolog.Logger
}

// NewProvider creates a provider for tickers listed on exchange.
func NewProvider(client *Client, exchange string, log zerolog.Logger) *Provider {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Provider{
		client:   client,
		exchange: exchange,
		loc:      domain.ExchangeLocation(),
		log:      log.With().Str("provider", "eodhd").Logger(),
	}
}

// Ticker returns the EODHD symbol for a bare ticker.
func (p *Provider) Ticker(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + "." + p.exchange
}

// PriceHistory returns the daily closes of the two weeks up to asOf.
func (p *Provider) PriceHistory(ctx context.Context, symbol string, asOf time.Time) ([]domain.PricePoint, error) {
	rows, err := p.client.GetEOD(ctx, p.Ticker(symbol), WithDateRange(asOf.Add(-priceLookback), asOf))
	if err != nil {
		return nil, err
	}

	prices := make([]domain.PricePoint, 0, len(rows))
	for _, r := range rows {
		date, err := p.parseDate(r.DateStr)
		if err != nil {
			p.log.Debug().Str("date", r.DateStr).Msg("Skipping price with invalid date")
			continue
		}
		prices = append(prices, domain.PricePoint{Date: date, Close: r.Close})
	}

	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})
	return prices, nil
}

// DividendHistory returns every known dividend keyed by ex-date.
func (p *Provider) DividendHistory(ctx context.Context, symbol string) ([]domain.Dividend, error) {
	rows, err := p.client.GetDividends(ctx, p.Ticker(symbol))
	if err != nil {
		return nil, err
	}

	divs := make([]domain.Dividend, 0, len(rows))
	for _, r := range rows {
		date, err := p.parseDate(r.DateStr)
		if err != nil {
			p.log.Debug().Str("date", r.DateStr).Msg("Skipping dividend with invalid date")
			continue
		}
		divs = append(divs, domain.Dividend{Date: date, Amount: r.Value})
	}
	return domain.SortDividends(divs), nil
}

// Expirations returns the distinct listed expiration dates, ascending.
func (p *Provider) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	resp, err := p.client.GetOptions(ctx, p.Ticker(symbol))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(resp.Data))
	dates := make([]time.Time, 0, len(resp.Data))
	for _, e := range resp.Data {
		if seen[e.ExpirationDate] {
			continue
		}
		date, err := p.parseDate(e.ExpirationDate)
		if err != nil {
			continue
		}
		seen[e.ExpirationDate] = true
		dates = append(dates, date)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// CallChain returns the call quotes of one expiration.
func (p *Provider) CallChain(ctx context.Context, symbol string, expiration time.Time) ([]domain.OptionQuote, error) {
	resp, err := p.client.GetOptions(ctx, p.Ticker(symbol), WithDateRange(expiration, expiration))
	if err != nil {
		return nil, err
	}

	want := expiration.In(p.loc).Format(dateLayout)
	for _, e := range resp.Data {
		if e.ExpirationDate != want {
			continue
		}
		calls := e.Calls()
		quotes := make([]domain.OptionQuote, 0, len(calls))
		for _, c := range calls {
			quotes = append(quotes, domain.OptionQuote{
				ContractName: c.ContractName,
				Strike:       c.Strike,
				Bid:          c.Bid,
				Ask:          c.Ask,
				OpenInterest: c.OpenInterest,
				Expiration:   formulas.StartOfDay(expiration, p.loc),
			})
		}
		return quotes, nil
	}

	return nil, fmt.Errorf("expiration %s not listed for %s", want, p.Ticker(symbol))
}

func (p *Provider) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, p.loc)
}
