// Package domain provides the market-data value types exchanged between the
// data provider and the buy-write evaluation core.
package domain

import (
	"sort"
	"time"
	_ "time/tzdata" // exchange calendar must resolve without a system zoneinfo
)

// ExchangeTimezone is the calendar every date is normalized to before comparison.
const ExchangeTimezone = "America/New_York"

// ExchangeLocation returns the exchange timezone, falling back to a fixed EST
// offset if the zone database cannot be loaded.
func ExchangeLocation() *time.Location {
	loc, err := time.LoadLocation(ExchangeTimezone)
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time `json:"date" msgpack:"date"`
	Close float64   `json:"close" msgpack:"close"`
}

// Dividend is one historical dividend payment (ex-date and per-share amount).
type Dividend struct {
	Date   time.Time `json:"date" msgpack:"date"`
	Amount float64   `json:"amount" msgpack:"amount"`
}

// OptionQuote is one row of a call chain as quoted by the provider.
// Bid and Ask are nil when the provider has no quote for that side.
type OptionQuote struct {
	ContractName string    `json:"contract_name,omitempty" msgpack:"contract_name"`
	Strike       float64   `json:"strike" msgpack:"strike"`
	Bid          *float64  `json:"bid" msgpack:"bid"`
	Ask          *float64  `json:"ask" msgpack:"ask"`
	OpenInterest int64     `json:"open_interest" msgpack:"open_interest"`
	Expiration   time.Time `json:"expiration" msgpack:"expiration"`
}

// Mid returns (bid+ask)/2 and true, or false when either side is unavailable.
func (q OptionQuote) Mid() (float64, bool) {
	if q.Bid == nil || q.Ask == nil {
		return 0, false
	}
	return (*q.Bid + *q.Ask) / 2, true
}

// Float returns a pointer to v, for building quotes.
func Float(v float64) *float64 {
	return &v
}

// SortDividends returns a copy of divs ordered by date ascending.
func SortDividends(divs []Dividend) []Dividend {
	sorted := make([]Dividend, len(divs))
	copy(sorted, divs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// LastCloseOnOrBefore returns the latest close dated on or before asOf.
func LastCloseOnOrBefore(prices []PricePoint, asOf time.Time) (PricePoint, bool) {
	var (
		best  PricePoint
		found bool
	)
	for _, p := range prices {
		if p.Date.After(asOf) {
			continue
		}
		if !found || !p.Date.Before(best.Date) {
			best = p
			found = true
		}
	}
	return best, found
}
