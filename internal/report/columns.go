package report

import (
	"strconv"

	"github.com/aristath/buywrite/internal/modules/evaluation"
)

// column is one exported field of a row.
type column struct {
	header string
	value  func(evaluation.Row) string
	// compact columns are shown in the terminal table
	compact bool
}

var columns = []column{
	{"Date Purchased", func(r evaluation.Row) string { return Date(r.PurchaseDate) }, false},
	{"Stock", func(r evaluation.Row) string { return r.Symbol }, false},
	{"Stock Price", func(r evaluation.Row) string { return Money(r.StockPrice) }, false},
	{"Forward Dividend $", func(r evaluation.Row) string { return Money(r.ForwardDividend) }, false},
	{"Forward Dividend %", func(r evaluation.Row) string { return Percent(r.ForwardDividendPercent) }, false},
	{"Dividend Frequency", func(r evaluation.Row) string { return strconv.Itoa(r.DividendFrequency) }, false},
	{"Next Dividend Date", func(r evaluation.Row) string { return OptionalDate(r.NextDividendDate) }, false},
	{"Option Expiration", func(r evaluation.Row) string { return Date(r.Expiration) }, true},
	{"Strike", func(r evaluation.Row) string { return Money(r.Strike) }, true},
	{"Option Price", func(r evaluation.Row) string { return Money(r.Mid) }, true},
	{"Net Debit", func(r evaluation.Row) string { return Money(r.NetDebit) }, true},
	{"Option Premium", func(r evaluation.Row) string { return Money(r.Premium) }, true},
	{"Premium - Single Dividend", func(r evaluation.Row) string { return Money(r.PremiumLessDividend) }, true},
	{"Dividend at Strike Price", func(r evaluation.Row) string { return Percent(r.DividendAtStrikePercent) }, true},
	{"Open Interest", func(r evaluation.Row) string { return strconv.FormatInt(r.OpenInterest, 10) }, true},
	{"Hold Dividend: Dividend + Premium", func(r evaluation.Row) string { return Money(r.Hold.DividendAndPremium) }, true},
	{"Hold Dividend: Total %", func(r evaluation.Row) string { return Percent(r.Hold.TotalReturnPercent) }, true},
	{"Hold Dividend: Annualized %", func(r evaluation.Row) string { return Percent(r.Hold.AnnualizedReturnPercent) }, true},
	{"Called Early: Dividend + Premium", func(r evaluation.Row) string { return Money(r.EarlyCall.DividendAndPremium) }, true},
	{"Called Early: Total %", func(r evaluation.Row) string { return Percent(r.EarlyCall.TotalReturnPercent) }, true},
	{"Called Early: Annualized %", func(r evaluation.Row) string { return Percent(r.EarlyCall.AnnualizedReturnPercent) }, true},
}

// Headers returns the export column headers in order.
func Headers() []string {
	return headers(false)
}

func headers(compact bool) []string {
	var out []string
	for _, c := range columns {
		if compact && !c.compact {
			continue
		}
		out = append(out, c.header)
	}
	return out
}

func record(row evaluation.Row, compact bool) []string {
	var out []string
	for _, c := range columns {
		if compact && !c.compact {
			continue
		}
		out = append(out, c.value(row))
	}
	return out
}
