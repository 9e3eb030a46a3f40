package options

import (
	"testing"
	"time"

	"github.com/aristath/buywrite/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(strike, bid, ask float64) domain.OptionQuote {
	return domain.OptionQuote{Strike: strike, Bid: domain.Float(bid), Ask: domain.Float(ask), OpenInterest: 10}
}

func TestNewCandidate_Economics(t *testing.T) {
	c, ok := NewCandidate(quote(35, 1.5, 2.5), 50)
	require.True(t, ok)

	assert.InDelta(t, 2.0, c.Mid, 1e-9)
	assert.InDelta(t, 48.0, c.NetDebit, 1e-9)
	assert.InDelta(t, -13.0, c.Premium, 1e-9)
	assert.Equal(t, 35.0, c.Strike)
}

func TestFilterCandidates_BandIsInclusive(t *testing.T) {
	chain := []domain.OptionQuote{
		quote(29.99, 20, 21), // below 0.6 * 50
		quote(30, 19, 20),    // lower bound
		quote(40, 10, 11),
		quote(45, 6, 7), // upper bound
		quote(45.01, 5, 6),
		quote(55, 1, 2), // out of the money
	}

	got := FilterCandidates(chain, 50, DefaultBand)

	require.Len(t, got, 3)
	assert.Equal(t, 30.0, got[0].Strike)
	assert.Equal(t, 40.0, got[1].Strike)
	assert.Equal(t, 45.0, got[2].Strike)
}

func TestFilterCandidates_DropsUnquotedBeforeBanding(t *testing.T) {
	chain := []domain.OptionQuote{
		{Strike: 35, Ask: domain.Float(2)},
		{Strike: 36, Bid: domain.Float(2)},
		{Strike: 37},
		quote(38, 1, 2),
	}

	got := FilterCandidates(chain, 50, DefaultBand)

	require.Len(t, got, 1)
	assert.Equal(t, 38.0, got[0].Strike)
}

func TestFilterCandidates_PreservesOrder(t *testing.T) {
	chain := []domain.OptionQuote{quote(44, 1, 2), quote(31, 1, 2), quote(40, 1, 2)}

	got := FilterCandidates(chain, 50, DefaultBand)

	require.Len(t, got, 3)
	assert.Equal(t, []float64{44, 31, 40}, []float64{got[0].Strike, got[1].Strike, got[2].Strike})
}

func TestFilterCandidates_EmptyIsValid(t *testing.T) {
	assert.Empty(t, FilterCandidates(nil, 50, DefaultBand))
	assert.Empty(t, FilterCandidates([]domain.OptionQuote{quote(60, 1, 2)}, 50, DefaultBand))
}

func TestFilterCandidates_Idempotent(t *testing.T) {
	chain := []domain.OptionQuote{
		quote(25, 1, 2), quote(30, 1, 2), {Strike: 35}, quote(40, 3, 4), quote(47, 1, 2),
	}

	once := FilterCandidates(chain, 50, DefaultBand)
	twice := FilterCandidates(QuotesOf(once), 50, DefaultBand)

	assert.Equal(t, once, twice)
}

func TestBand_Custom(t *testing.T) {
	band := Band{Lower: 0.8, Upper: 0.95}

	assert.True(t, band.Contains(40, 50))
	assert.True(t, band.Contains(47.5, 50))
	assert.False(t, band.Contains(39.99, 50))
}

func TestSelectExpirations(t *testing.T) {
	purchase := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	at := func(days int) time.Time { return purchase.AddDate(0, 0, days) }

	got := SelectExpirations([]time.Time{
		at(541), at(299), at(400), at(300), at(540), at(400), at(30),
	}, purchase, DefaultWindow)

	assert.Equal(t, []time.Time{at(300), at(400), at(540)}, got)
}

func TestSelectExpirations_NoneInWindow(t *testing.T) {
	purchase := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	got := SelectExpirations([]time.Time{purchase.AddDate(0, 1, 0)}, purchase, DefaultWindow)

	assert.Empty(t, got)
}
