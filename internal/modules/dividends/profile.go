// Package dividends infers a dividend payment pattern from sparse history and
// projects future payment dates from it.
//
// A Profile is computed once per (symbol, purchase date) and is read-only
// afterwards; schedules are projected fresh for every option expiration.
package dividends

import (
	"fmt"
	"time"

	"github.com/aristath/buywrite/internal/domain"
	"github.com/aristath/buywrite/pkg/formulas"
)

const (
	// DaysPerYear is the fallback basis for the average payment interval.
	DaysPerYear = 365.25

	// Next-payment extrapolation steps by frequency tier
	monthlyFrequency    = 12
	semiannualFrequency = 6
	monthlyStepDays     = 30
	semiannualStepDays  = 180
	quarterlyStepDays   = 90
)

// Profile summarizes the dividend pattern as of a purchase date.
type Profile struct {
	YearlyAmount        float64    `json:"yearly_amount"`
	Frequency           int        `json:"frequency"`
	AverageIntervalDays float64    `json:"average_interval_days"`
	LastKnownPayment    time.Time  `json:"last_known_payment"`
	HasHistory          bool       `json:"has_history"`
	Projectable         bool       `json:"projectable"`
	RecentPayments      int        `json:"recent_payments"`
	NextPaymentEstimate *time.Time `json:"next_payment_estimate,omitempty"`
}

// SingleDividend is the per-payment amount implied by the trailing year.
func (p Profile) SingleDividend() float64 {
	if p.Frequency <= 0 {
		return 0
	}
	return p.YearlyAmount / float64(p.Frequency)
}

// ComputeProfile derives the dividend profile for purchaseDate.
//
// Payments dated on or after purchaseDate minus one year form the trailing
// window that sets the yearly amount, the frequency and the average interval.
// The last known payment is the latest date in the whole history. Without any
// trailing payment the profile has frequency 1, a zero yearly amount and no
// projectable schedule.
func ComputeProfile(history []domain.Dividend, purchaseDate time.Time) (Profile, error) {
	sorted := domain.SortDividends(history)
	windowStart := purchaseDate.AddDate(-1, 0, 0)

	var recent []domain.Dividend
	for _, d := range sorted {
		if !d.Date.Before(windowStart) {
			recent = append(recent, d)
		}
	}

	profile := Profile{
		Frequency:      1,
		RecentPayments: len(recent),
	}

	if len(recent) > 0 {
		profile.Frequency = len(recent)
		amounts := make([]float64, len(recent))
		for i, d := range recent {
			amounts[i] = d.Amount
		}
		profile.YearlyAmount = formulas.Sum(amounts)
	}

	profile.AverageIntervalDays = averageInterval(recent, profile.Frequency)

	if len(sorted) > 0 {
		profile.HasHistory = true
		profile.LastKnownPayment = sorted[len(sorted)-1].Date
		next := estimateNextPayment(sorted, purchaseDate, profile.Frequency)
		profile.NextPaymentEstimate = &next
	}

	profile.Projectable = profile.HasHistory && len(recent) > 0
	if profile.Projectable && !(profile.AverageIntervalDays > 0) {
		return Profile{}, fmt.Errorf("%w: %.4f days from %d trailing payments",
			ErrDegenerateSchedule, profile.AverageIntervalDays, len(recent))
	}

	return profile, nil
}

// averageInterval is the mean whole-day gap between consecutive trailing
// payments, or DaysPerYear/frequency with fewer than two of them.
func averageInterval(recent []domain.Dividend, frequency int) float64 {
	if len(recent) < 2 {
		if frequency <= 0 {
			return DaysPerYear
		}
		return DaysPerYear / float64(frequency)
	}

	gaps := make([]float64, 0, len(recent)-1)
	for i := 1; i < len(recent); i++ {
		gaps = append(gaps, float64(formulas.DaysBetween(recent[i-1].Date, recent[i].Date)))
	}
	return formulas.Mean(gaps)
}

// estimateNextPayment returns the first historical payment after purchaseDate,
// else extrapolates from the last payment by frequency tier.
func estimateNextPayment(sorted []domain.Dividend, purchaseDate time.Time, frequency int) time.Time {
	for _, d := range sorted {
		if d.Date.After(purchaseDate) {
			return d.Date
		}
	}

	last := sorted[len(sorted)-1].Date
	switch {
	case frequency >= monthlyFrequency:
		return last.AddDate(0, 0, monthlyStepDays)
	case frequency == semiannualFrequency:
		return last.AddDate(0, 0, semiannualStepDays)
	default:
		return last.AddDate(0, 0, quarterlyStepDays)
	}
}
