// Package evaluation runs a buy-write evaluation for one position: it fetches
// market data, scores every in-band call across the expiration window and
// ranks the results.
package evaluation

import (
	"time"

	"github.com/aristath/buywrite/internal/modules/dividends"
	"github.com/aristath/buywrite/internal/modules/options"
	"github.com/aristath/buywrite/internal/modules/scoring"
	"github.com/google/uuid"
)

// Request identifies the position to evaluate.
type Request struct {
	Symbol             string    `json:"symbol"`
	Shares             int       `json:"shares"`
	PurchaseDate       time.Time `json:"purchase_date"`
	IncludeDiagnostics bool      `json:"include_diagnostics"`
}

// Row is one scored call option.
type Row struct {
	Symbol       string    `json:"symbol"`
	PurchaseDate time.Time `json:"purchase_date"`
	StockPrice   float64   `json:"stock_price"`
	Expiration   time.Time `json:"expiration"`

	ContractName string  `json:"contract_name,omitempty"`
	Strike       float64 `json:"strike"`
	Bid          float64 `json:"bid"`
	Ask          float64 `json:"ask"`
	Mid          float64 `json:"mid"`
	OpenInterest int64   `json:"open_interest"`
	NetDebit     float64 `json:"net_debit"`
	Premium      float64 `json:"premium"`

	Hold      scoring.ScenarioResult `json:"hold"`
	EarlyCall scoring.ScenarioResult `json:"early_call"`

	ForwardDividend         float64    `json:"forward_dividend"`
	ForwardDividendPercent  float64    `json:"forward_dividend_percent"`
	DividendFrequency       int        `json:"dividend_frequency"`
	NextDividendDate        *time.Time `json:"next_dividend_date,omitempty"`
	DividendAtStrikePercent float64    `json:"dividend_at_strike_percent"`
	PremiumLessDividend     float64    `json:"premium_less_dividend"`

	Diagnostics *scoring.ExpirationTrace `json:"diagnostics,omitempty"`
}

// Result is the complete outcome of one evaluation run.
type Result struct {
	RunID        uuid.UUID                 `json:"run_id"`
	Symbol       string                    `json:"symbol"`
	Shares       int                       `json:"shares"`
	PurchaseDate time.Time                 `json:"purchase_date"`
	StockPrice   float64                   `json:"stock_price"`
	Profile      dividends.Profile         `json:"dividend_profile"`
	Policy       PolicySnapshot            `json:"policy"`
	Rows         []Row                     `json:"rows"`
	BestIndex    int                       `json:"best_index"`
	Warnings     []ExpirationWarning       `json:"warnings,omitempty"`
	Traces       []scoring.ExpirationTrace `json:"traces,omitempty"`
}

// PolicySnapshot records the modeling parameters a result was produced with.
type PolicySnapshot struct {
	Band               options.Band   `json:"band"`
	Window             options.Window `json:"window"`
	EarlyCallOffsetDay float64        `json:"early_call_offset_days"`
}

// Best returns the best-ranked row, or false when there are no rows.
func (r *Result) Best() (Row, bool) {
	if r == nil || r.BestIndex < 0 || r.BestIndex >= len(r.Rows) {
		return Row{}, false
	}
	return r.Rows[r.BestIndex], true
}

// Partial reports whether some expirations were skipped.
func (r *Result) Partial() bool {
	return len(r.Warnings) > 0
}
