// Package report renders evaluation results for people: a terminal table with
// the best row highlighted, and CSV exports.
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Percent formats v with two decimals and a percent sign.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// Money formats v with two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Date formats t as YYYY-MM-DD, or "" for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// OptionalDate formats t, or "N/A" when nil.
func OptionalDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return Date(*t)
}
