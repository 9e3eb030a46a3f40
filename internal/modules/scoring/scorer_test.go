package scoring

import (
	"testing"
	"time"

	"github.com/aristath/buywrite/internal/domain"
	"github.com/aristath/buywrite/internal/modules/dividends"
	"github.com/aristath/buywrite/internal/modules/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var purchase = date(2025, 1, 2)

// quarterlyProfile pays $1 per payment every interval days from 2024-12-01.
func quarterlyProfile(interval float64) dividends.Profile {
	return dividends.Profile{
		YearlyAmount:        4,
		Frequency:           4,
		AverageIntervalDays: interval,
		LastKnownPayment:    date(2024, 12, 1),
		HasHistory:          true,
		Projectable:         true,
		RecentPayments:      4,
	}
}

func candidate(t *testing.T, strike, bid, ask, stockPrice float64) options.Candidate {
	t.Helper()
	c, ok := options.NewCandidate(domain.OptionQuote{
		Strike: strike,
		Bid:    domain.Float(bid),
		Ask:    domain.Float(ask),
	}, stockPrice)
	require.True(t, ok)
	return c
}

func TestScore_ConcreteScenario(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())
	expiration := purchase.AddDate(0, 0, 300)

	got, err := scorer.Score(candidate(t, 35, 1.5, 2.5, 50), quarterlyProfile(120), purchase, expiration)
	require.NoError(t, err)

	// Projected payments: 2025-03-31 and 2025-07-29
	hold := got.Hold
	assert.Equal(t, Hold, hold.Kind)
	assert.Equal(t, 2, hold.DividendCount)
	assert.Equal(t, 300, hold.DaysHeld)
	assert.InDelta(t, 2.0, hold.DividendsPerShare, 1e-9)
	assert.InDelta(t, -1100.0, hold.DividendAndPremium, 1e-9)
	assert.InDelta(t, -22.9167, hold.TotalReturnPercent, 1e-4)
	assert.InDelta(t, -27.8819, hold.AnnualizedReturnPercent, 1e-4)
	assert.Equal(t, expiration, hold.ExitDate)

	// Called away on 2025-07-22, one week before the second payment
	early := got.EarlyCall
	assert.Equal(t, EarlyCall, early.Kind)
	assert.Equal(t, date(2025, 7, 22), early.ExitDate)
	assert.Equal(t, 1, early.DividendCount)
	assert.Equal(t, 201, early.DaysHeld)
	assert.InDelta(t, -1200.0, early.DividendAndPremium, 1e-9)
	assert.InDelta(t, -25.0, early.TotalReturnPercent, 1e-9)
	assert.InDelta(t, -25.0*365/201, early.AnnualizedReturnPercent, 1e-9)
}

func TestScore_NoDividendsEarlyCallEqualsHold(t *testing.T) {
	history := []domain.Dividend{{Date: date(2019, 6, 1), Amount: 0.5}}
	profile, err := dividends.ComputeProfile(history, purchase)
	require.NoError(t, err)
	require.Equal(t, 1, profile.Frequency)
	require.Zero(t, profile.YearlyAmount)

	scorer := NewScorer(100, DefaultPolicy())
	expiration := purchase.AddDate(0, 0, 400)

	got, err := scorer.Score(candidate(t, 40, 11, 12, 50), profile, purchase, expiration)
	require.NoError(t, err)

	assert.Zero(t, got.Hold.DividendCount)
	assert.Zero(t, got.Hold.DividendsPerShare)

	early := got.EarlyCall
	early.Kind = Hold
	assert.Equal(t, got.Hold, early)
	assert.Equal(t, expiration, got.EarlyCall.ExitDate)
}

func TestScore_EmptyHistory(t *testing.T) {
	profile, err := dividends.ComputeProfile(nil, purchase)
	require.NoError(t, err)

	scorer := NewScorer(10, DefaultPolicy())
	got, err := scorer.Score(candidate(t, 40, 11, 12, 50), profile, purchase, purchase.AddDate(0, 0, 365))
	require.NoError(t, err)

	// premium 40+11.5-50 = 1.5 on a net debit of 38.5
	assert.InDelta(t, 15.0, got.Hold.DividendAndPremium, 1e-9)
	assert.InDelta(t, 1.5/38.5*100, got.Hold.TotalReturnPercent, 1e-9)
	assert.InDelta(t, got.Hold.TotalReturnPercent, got.Hold.AnnualizedReturnPercent, 1e-9)
	assert.Equal(t, got.Hold.TotalReturnPercent, got.EarlyCall.TotalReturnPercent)
}

func TestScore_OneDayHold(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())
	profile := dividends.Profile{Frequency: 1, AverageIntervalDays: dividends.DaysPerYear}

	got, err := scorer.Score(candidate(t, 40, 11, 12, 50), profile, purchase, purchase.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, got.Hold.DaysHeld)
	assert.InDelta(t, got.Hold.TotalReturnPercent*365, got.Hold.AnnualizedReturnPercent, 1e-9)
}

func TestScore_DaysHeldNeverBelowOne(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())
	profile := dividends.Profile{Frequency: 1, AverageIntervalDays: dividends.DaysPerYear}

	tests := []struct {
		name       string
		expiration time.Time
	}{
		{"same day", purchase},
		{"before purchase", purchase.AddDate(0, 0, -10)},
		{"hours after purchase", purchase.Add(5 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scorer.Score(candidate(t, 40, 11, 12, 50), profile, purchase, tt.expiration)
			require.NoError(t, err)
			assert.Equal(t, 1, got.Hold.DaysHeld)
			assert.Equal(t, 1, got.EarlyCall.DaysHeld)
		})
	}
}

func TestScore_EarlyCallBeforePurchase(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())

	// Single projected payment on 2025-01-05 puts the call date before purchase
	got, err := scorer.Score(candidate(t, 40, 11, 12, 50), quarterlyProfile(35), purchase, date(2025, 1, 20))
	require.NoError(t, err)

	assert.Equal(t, 1, got.Hold.DividendCount)
	assert.Equal(t, date(2024, 12, 29), got.EarlyCall.ExitDate)
	assert.Zero(t, got.EarlyCall.DividendCount)
	assert.Equal(t, 1, got.EarlyCall.DaysHeld)
}

func TestScore_CustomEarlyCallOffset(t *testing.T) {
	scorer := NewScorer(100, Policy{EarlyCallOffset: 0})
	expiration := purchase.AddDate(0, 0, 300)

	got, err := scorer.Score(candidate(t, 35, 1.5, 2.5, 50), quarterlyProfile(120), purchase, expiration)
	require.NoError(t, err)

	// Exiting on the payment date itself still forfeits it
	assert.Equal(t, date(2025, 7, 29), got.EarlyCall.ExitDate)
	assert.Equal(t, 1, got.EarlyCall.DividendCount)
}

func TestScore_MonotonicInPremium(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())
	expiration := purchase.AddDate(0, 0, 300)
	profile := quarterlyProfile(120)

	base := candidate(t, 35, 1.5, 2.5, 50)
	prev := -1e18
	for _, premium := range []float64{-20, -13, -5, 0, 3, 10} {
		c := base
		c.Premium = premium
		got, err := scorer.Score(c, profile, purchase, expiration)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Hold.TotalReturnPercent, prev)
		prev = got.Hold.TotalReturnPercent
	}
}

func TestScore_MonotonicInDividendCount(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())
	expiration := purchase.AddDate(0, 0, 300)
	c := candidate(t, 35, 1.5, 2.5, 50)

	one, err := scorer.Score(c, quarterlyProfile(200), purchase, expiration)
	require.NoError(t, err)
	two, err := scorer.Score(c, quarterlyProfile(120), purchase, expiration)
	require.NoError(t, err)

	require.Equal(t, 1, one.Hold.DividendCount)
	require.Equal(t, 2, two.Hold.DividendCount)
	assert.Greater(t, two.Hold.TotalReturnPercent, one.Hold.TotalReturnPercent)
}

func TestScore_EarlyCallNeverCollectsMore(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())
	c := candidate(t, 35, 1.5, 2.5, 50)

	for _, interval := range []float64{3, 30, 45, 91.3, 120, 200, 400} {
		for _, days := range []int{1, 30, 300, 540} {
			got, err := scorer.Score(c, quarterlyProfile(interval), purchase, purchase.AddDate(0, 0, days))
			require.NoError(t, err)
			assert.LessOrEqual(t, got.EarlyCall.DividendCount, got.Hold.DividendCount,
				"interval %.1f, %d days", interval, days)
		}
	}
}

func TestScoreExpiration_Trace(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())
	expiration := purchase.AddDate(0, 0, 300)
	candidates := []options.Candidate{
		candidate(t, 35, 1.5, 2.5, 50),
		candidate(t, 42, 9, 10, 50),
	}

	results, trace, err := scorer.ScoreExpiration(candidates, quarterlyProfile(120), purchase, expiration)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, expiration, trace.Expiration)
	assert.Equal(t, 2, trace.Candidates)
	assert.Equal(t, []time.Time{date(2025, 3, 31), date(2025, 7, 29)}, trace.DividendsInPeriod)
	assert.InDelta(t, 1.0, trace.SingleDividend, 1e-9)
	assert.InDelta(t, 2.0, trace.HoldDividends, 1e-9)
	assert.Equal(t, date(2025, 7, 22), trace.EarlyCallDate)
	assert.Equal(t, 1, trace.EarlyDividends)
	assert.Equal(t, 300, trace.DaysHeld)
	assert.Equal(t, 201, trace.DaysHeldEarly)

	// Second candidate: premium 42+9.5-50 = 1.5, net debit 40.5
	assert.InDelta(t, 1.5*100+2*100, results[1].Hold.DividendAndPremium, 1e-9)
}

func TestScoreExpiration_DegenerateSchedule(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())

	_, _, err := scorer.ScoreExpiration(nil, quarterlyProfile(0), purchase, purchase.AddDate(0, 0, 300))

	assert.ErrorIs(t, err, dividends.ErrDegenerateSchedule)
}

func TestScore_ZeroNetDebit(t *testing.T) {
	scorer := NewScorer(100, DefaultPolicy())
	c := candidate(t, 35, 1.5, 2.5, 50)
	c.NetDebit = 0

	got, err := scorer.Score(c, quarterlyProfile(120), purchase, purchase.AddDate(0, 0, 300))
	require.NoError(t, err)

	assert.Zero(t, got.Hold.TotalReturnPercent)
	assert.Zero(t, got.Hold.AnnualizedReturnPercent)
}
