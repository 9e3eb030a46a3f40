// Package marketdata fetches prices, dividends and option chains from EODHD
// and serves them to the evaluation core through domain.MarketDataProvider.
package marketdata

import (
	"fmt"
	"time"
)

// EODData is a single day's end-of-day price data.
type EODData struct {
	Date          time.Time `json:"-"`
	DateStr       string    `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}

// DividendData is one dividend record; Date is the ex-dividend date.
type DividendData struct {
	Date            time.Time `json:"-"`
	DateStr         string    `json:"date"`
	DeclarationDate string    `json:"declarationDate"`
	RecordDate      string    `json:"recordDate"`
	PaymentDate     string    `json:"paymentDate"`
	Value           float64   `json:"value"`
	UnadjustedValue float64   `json:"unadjustedValue"`
	Currency        string    `json:"currency"`
}

// OptionsResponse is the options endpoint payload.
type OptionsResponse struct {
	Code           string             `json:"code"`
	Exchange       string             `json:"exchange"`
	LastTradeDate  string             `json:"lastTradeDate"`
	LastTradePrice float64            `json:"lastTradePrice"`
	Data           []OptionExpiration `json:"data"`
}

// OptionExpiration groups the contracts of one expiration date.
type OptionExpiration struct {
	ExpirationDate string                        `json:"expirationDate"`
	Options        map[string][]OptionContract `json:"options"`
}

// Calls returns the call contracts of the expiration.
func (e OptionExpiration) Calls() []OptionContract {
	return e.Options["CALL"]
}

// OptionContract is one quoted contract. Bid and Ask are nil when unquoted.
type OptionContract struct {
	ContractName   string   `json:"contractName"`
	ExpirationDate string   `json:"expirationDate"`
	Type           string   `json:"type"`
	Strike         float64  `json:"strike"`
	Bid            *float64 `json:"bid"`
	Ask            *float64 `json:"ask"`
	LastPrice      float64  `json:"lastPrice"`
	OpenInterest   int64    `json:"openInterest"`
	Volume         int64    `json:"volume"`
}

// QueryOption sets an optional query parameter.
type QueryOption func(*queryParams)

type queryParams struct {
	From time.Time
	To   time.Time
}

// WithDateRange limits results to [from, to]. Zero bounds are omitted.
func WithDateRange(from, to time.Time) QueryOption {
	return func(p *queryParams) {
		p.From = from
		p.To = to
	}
}

// APIError is a non-200 response from EODHD.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError means the local rate limiter gave up waiting.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("EODHD rate limit wait aborted: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}
