// Package scoring computes buy-write returns for option candidates under the
// hold-to-expiration and called-away-early scenarios.
package scoring

import (
	"fmt"
	"time"

	"github.com/aristath/buywrite/internal/modules/dividends"
	"github.com/aristath/buywrite/internal/modules/options"
	"github.com/aristath/buywrite/pkg/formulas"
)

// ScenarioKind names a holding scenario.
type ScenarioKind string

const (
	// Hold keeps the position until expiration and collects every projected dividend
	Hold ScenarioKind = "hold"
	// EarlyCall assumes assignment shortly before the last projected dividend
	EarlyCall ScenarioKind = "early_call"
)

// DefaultEarlyCallOffset is how long before the last in-period dividend the
// early-call scenario assumes the shares are called away.
const DefaultEarlyCallOffset = 7 * formulas.Day

// Policy holds the modeling assumptions of the scorer.
type Policy struct {
	EarlyCallOffset time.Duration
}

// DefaultPolicy returns the standard one-week early-call assumption.
func DefaultPolicy() Policy {
	return Policy{EarlyCallOffset: DefaultEarlyCallOffset}
}

// ScenarioResult is the outcome of one scenario for one candidate.
type ScenarioResult struct {
	Kind                    ScenarioKind `json:"kind"`
	DividendAndPremium      float64      `json:"dividend_and_premium"`
	TotalReturnPercent      float64      `json:"total_return_percent"`
	AnnualizedReturnPercent float64      `json:"annualized_return_percent"`
	DaysHeld                int          `json:"days_held"`
	DividendCount           int          `json:"dividend_count"`
	DividendsPerShare       float64      `json:"dividends_per_share"`
	ExitDate                time.Time    `json:"exit_date"`
}

// Scenarios pairs the two outcomes of one candidate.
type Scenarios struct {
	Hold      ScenarioResult `json:"hold"`
	EarlyCall ScenarioResult `json:"early_call"`
}

// ExpirationTrace records the intermediate values used to score one expiration.
type ExpirationTrace struct {
	Expiration        time.Time   `json:"expiration"`
	Candidates        int         `json:"candidates"`
	DividendsInPeriod []time.Time `json:"dividends_in_period"`
	SingleDividend    float64     `json:"single_dividend"`
	HoldDividends     float64     `json:"hold_dividends_per_share"`
	DaysHeld          int         `json:"days_held"`
	EarlyCallDate     time.Time   `json:"early_call_date"`
	EarlyDividends    int         `json:"early_dividend_count"`
	DaysHeldEarly     int         `json:"days_held_early"`
}

// Scorer scores candidates for a fixed share count. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	policy Policy
	shares float64
}

// NewScorer creates a scorer for a position of shares.
func NewScorer(shares int, policy Policy) *Scorer {
	return &Scorer{policy: policy, shares: float64(shares)}
}

// Policy returns the scorer's modeling assumptions.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Score projects the dividend schedule up to expiration and scores candidate
// under both scenarios.
func (s *Scorer) Score(candidate options.Candidate, profile dividends.Profile, purchaseDate, expiration time.Time) (Scenarios, error) {
	results, _, err := s.ScoreExpiration([]options.Candidate{candidate}, profile, purchaseDate, expiration)
	if err != nil {
		return Scenarios{}, err
	}
	return results[0], nil
}

// ScoreExpiration projects the schedule once for expiration and scores every
// candidate of that expiration, in order.
func (s *Scorer) ScoreExpiration(candidates []options.Candidate, profile dividends.Profile, purchaseDate, expiration time.Time) ([]Scenarios, ExpirationTrace, error) {
	schedule, err := dividends.ProjectSchedule(profile, expiration)
	if err != nil {
		return nil, ExpirationTrace{}, fmt.Errorf("projecting dividends to %s: %w", expiration.Format("2006-01-02"), err)
	}

	p := s.plan(profile, purchaseDate, expiration, schedule)
	trace := ExpirationTrace{
		Expiration:        expiration,
		Candidates:        len(candidates),
		DividendsInPeriod: p.inPeriod,
		SingleDividend:    p.single,
		HoldDividends:     p.holdDividends,
		DaysHeld:          p.daysHeld,
		EarlyCallDate:     p.earlyCallDate,
		EarlyDividends:    p.earlyCount,
		DaysHeldEarly:     p.daysHeldEarly,
	}

	results := make([]Scenarios, len(candidates))
	for i, c := range candidates {
		results[i] = Scenarios{
			Hold:      s.scenario(Hold, c, len(p.inPeriod), p.holdDividends, p.daysHeld, expiration),
			EarlyCall: s.scenario(EarlyCall, c, p.earlyCount, p.earlyDividends, p.daysHeldEarly, p.earlyCallDate),
		}
	}
	return results, trace, nil
}

// plan holds the candidate-independent values of one expiration.
type plan struct {
	inPeriod       []time.Time
	single         float64
	holdDividends  float64
	daysHeld       int
	earlyCallDate  time.Time
	earlyCount     int
	earlyDividends float64
	daysHeldEarly  int
}

func (s *Scorer) plan(profile dividends.Profile, purchaseDate, expiration time.Time, schedule []time.Time) plan {
	inPeriod := dividends.PaymentsInPeriod(schedule, purchaseDate, expiration)
	single := profile.SingleDividend()

	p := plan{
		inPeriod:      inPeriod,
		single:        single,
		holdDividends: single * float64(len(inPeriod)),
		daysHeld:      formulas.MinDays(formulas.DaysBetween(purchaseDate, expiration), 1),
	}

	if len(inPeriod) == 0 {
		p.earlyCallDate = expiration
		p.daysHeldEarly = p.daysHeld
		return p
	}

	p.earlyCallDate = inPeriod[len(inPeriod)-1].Add(-s.policy.EarlyCallOffset)
	for _, d := range inPeriod {
		if d.Before(p.earlyCallDate) {
			p.earlyCount++
		}
	}
	p.earlyDividends = single * float64(p.earlyCount)
	p.daysHeldEarly = formulas.MinDays(formulas.DaysBetween(purchaseDate, p.earlyCallDate), 1)
	return p
}

func (s *Scorer) scenario(kind ScenarioKind, c options.Candidate, count int, dividendsPerShare float64, days int, exit time.Time) ScenarioResult {
	gain := c.Premium*s.shares + dividendsPerShare*s.shares
	total := formulas.TotalReturnPercent(gain, s.shares*c.NetDebit)
	return ScenarioResult{
		Kind:                    kind,
		DividendAndPremium:      gain,
		TotalReturnPercent:      total,
		AnnualizedReturnPercent: formulas.Annualize(total, days),
		DaysHeld:                days,
		DividendCount:           count,
		DividendsPerShare:       dividendsPerShare,
		ExitDate:                exit,
	}
}
