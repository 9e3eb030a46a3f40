package options

import (
	"sort"
	"time"

	"github.com/aristath/buywrite/pkg/formulas"
)

// Window bounds how far out an expiration may be, in days from the purchase date.
type Window struct {
	MinDays int `json:"min_days" yaml:"min_days"`
	MaxDays int `json:"max_days" yaml:"max_days"`
}

// DefaultWindow approximates 10 to 18 months as 30-day months.
var DefaultWindow = Window{MinDays: 10 * 30, MaxDays: 18 * 30}

// Contains reports whether expiration falls inside the window.
func (w Window) Contains(purchaseDate, expiration time.Time) bool {
	days := formulas.DaysBetween(purchaseDate, expiration)
	return days >= w.MinDays && days <= w.MaxDays
}

// SelectExpirations returns the expirations inside window, ascending and
// without duplicates.
func SelectExpirations(expirations []time.Time, purchaseDate time.Time, window Window) []time.Time {
	selected := make([]time.Time, 0, len(expirations))
	seen := make(map[int64]bool, len(expirations))
	for _, exp := range expirations {
		if !window.Contains(purchaseDate, exp) {
			continue
		}
		key := exp.UnixNano()
		if seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, exp)
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Before(selected[j])
	})
	return selected
}
