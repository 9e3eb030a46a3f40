// Package options selects the in-the-money call strikes worth scoring and
// derives their buy-write economics.
package options

import (
	"github.com/aristath/buywrite/internal/domain"
)

// Band is the inclusive strike range as fractions of the stock price.
type Band struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// DefaultBand keeps strikes 10-40% below the stock price.
var DefaultBand = Band{Lower: 0.6, Upper: 0.9}

// Contains reports whether strike lies within the band around stockPrice.
func (b Band) Contains(strike, stockPrice float64) bool {
	return strike >= b.Lower*stockPrice && strike <= b.Upper*stockPrice
}

// Candidate is a banded call quote with its buy-write economics per share.
type Candidate struct {
	domain.OptionQuote

	// Mid is (bid+ask)/2
	Mid float64 `json:"mid"`
	// NetDebit is the capital per share after netting the option sale
	NetDebit float64 `json:"net_debit"`
	// Premium is the time value captured if exercised: strike + mid - stock price
	Premium float64 `json:"premium"`
}

// NewCandidate computes the economics of quote against stockPrice.
// It returns false when the quote has no usable mid-price.
func NewCandidate(quote domain.OptionQuote, stockPrice float64) (Candidate, bool) {
	mid, ok := quote.Mid()
	if !ok {
		return Candidate{}, false
	}
	return Candidate{
		OptionQuote: quote,
		Mid:         mid,
		NetDebit:    stockPrice - mid,
		Premium:     quote.Strike + mid - stockPrice,
	}, true
}

// FilterCandidates keeps the quotes that have both a bid and an ask and whose
// strike is inside band, preserving chain order. An empty result is valid.
func FilterCandidates(chain []domain.OptionQuote, stockPrice float64, band Band) []Candidate {
	candidates := make([]Candidate, 0, len(chain))
	for _, quote := range chain {
		candidate, ok := NewCandidate(quote, stockPrice)
		if !ok {
			continue
		}
		if !band.Contains(quote.Strike, stockPrice) {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// QuotesOf returns the source quotes of candidates, in order.
func QuotesOf(candidates []Candidate) []domain.OptionQuote {
	quotes := make([]domain.OptionQuote, len(candidates))
	for i, c := range candidates {
		quotes[i] = c.OptionQuote
	}
	return quotes
}
