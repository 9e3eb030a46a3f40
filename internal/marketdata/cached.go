package marketdata

import (
	"context"
	"strings"
	"time"

	"github.com/aristath/buywrite/internal/clientdata"
	"github.com/aristath/buywrite/internal/domain"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// memoryTTL bounds how long an entry stays in the in-process cache.
const memoryTTL = 5 * time.Minute

// CachedProvider serves market data cache-first: memory, then SQLite, then
// the upstream provider. When upstream fails, stale SQLite data is returned
// if any exists.
type CachedProvider struct {
	upstream domain.MarketDataProvider
	repo     *clientdata.Repository
	memory   *cache.Cache
	loc      *time.Location
	log      zerolog.Logger
}

// NewCachedProvider wraps upstream with a memory cache and repo.
func NewCachedProvider(upstream domain.MarketDataProvider, repo *clientdata.Repository, log zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		upstream: upstream,
		repo:     repo,
		memory:   cache.New(memoryTTL, 2*memoryTTL),
		loc:      domain.ExchangeLocation(),
		log:      log.With().Str("provider", "cached").Logger(),
	}
}

// PriceHistory returns cached closes for (symbol, asOf).
func (p *CachedProvider) PriceHistory(ctx context.Context, symbol string, asOf time.Time) ([]domain.PricePoint, error) {
	key := cacheKey(symbol, asOf.In(p.loc).Format(dateLayout))
	prices, err := cached(p, clientdata.TablePriceHistory, key, func() ([]domain.PricePoint, error) {
		return p.upstream.PriceHistory(ctx, symbol, asOf)
	})
	if err != nil {
		return nil, err
	}
	for i := range prices {
		prices[i].Date = prices[i].Date.In(p.loc)
	}
	return prices, nil
}

// DividendHistory returns the cached dividend history of symbol.
func (p *CachedProvider) DividendHistory(ctx context.Context, symbol string) ([]domain.Dividend, error) {
	divs, err := cached(p, clientdata.TableDividendHistory, cacheKey(symbol), func() ([]domain.Dividend, error) {
		return p.upstream.DividendHistory(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	for i := range divs {
		divs[i].Date = divs[i].Date.In(p.loc)
	}
	return divs, nil
}

// Expirations returns the cached expiration dates of symbol.
func (p *CachedProvider) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	dates, err := cached(p, clientdata.TableExpirations, cacheKey(symbol), func() ([]time.Time, error) {
		return p.upstream.Expirations(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	for i := range dates {
		dates[i] = dates[i].In(p.loc)
	}
	return dates, nil
}

// CallChain returns the cached call chain of one expiration.
func (p *CachedProvider) CallChain(ctx context.Context, symbol string, expiration time.Time) ([]domain.OptionQuote, error) {
	key := cacheKey(symbol, expiration.In(p.loc).Format(dateLayout))
	quotes, err := cached(p, clientdata.TableCallChains, key, func() ([]domain.OptionQuote, error) {
		return p.upstream.CallChain(ctx, symbol, expiration)
	})
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		quotes[i].Expiration = quotes[i].Expiration.In(p.loc)
	}
	return quotes, nil
}

// Flush empties the in-memory layer.
func (p *CachedProvider) Flush() {
	p.memory.Flush()
}

// cached resolves key through memory, fresh SQLite, upstream and finally
// stale SQLite. Callers receive a copy they may modify.
func cached[T any](p *CachedProvider, table, key string, fetch func() ([]T, error)) ([]T, error) {
	memKey := table + "|" + key
	if v, ok := p.memory.Get(memKey); ok {
		return clone(v.([]T)), nil
	}

	var stored []T
	found, err := p.repo.GetIfFresh(table, key, &stored)
	if err != nil {
		p.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Failed to read cache")
	}
	if found {
		p.memory.Set(memKey, stored, cache.DefaultExpiration)
		return clone(stored), nil
	}

	fresh, fetchErr := fetch()
	if fetchErr == nil {
		if err := p.repo.Store(table, key, fresh, clientdata.TTLFor(table)); err != nil {
			p.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Failed to store cache entry")
		}
		p.memory.Set(memKey, fresh, cache.DefaultExpiration)
		return clone(fresh), nil
	}

	var stale []T
	found, err = p.repo.Get(table, key, &stale)
	if err != nil || !found {
		return nil, fetchErr
	}

	p.log.Warn().Err(fetchErr).
		Str("table", table).
		Str("key", key).
		Msg("Upstream failed, serving stale cache entry")
	return stale, nil
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cacheKey(parts ...string) string {
	parts[0] = strings.ToUpper(strings.TrimSpace(parts[0]))
	return strings.Join(parts, "|")
}
