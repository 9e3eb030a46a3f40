package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/aristath/buywrite/internal/modules/dividends"
	"github.com/aristath/buywrite/internal/modules/evaluation"
	"github.com/aristath/buywrite/internal/modules/options"
	"github.com/aristath/buywrite/internal/modules/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleResult() *evaluation.Result {
	next := date(2025, 1, 30)
	row := func(exp time.Time, strike, holdAnn float64) evaluation.Row {
		return evaluation.Row{
			Symbol:                  "KO",
			PurchaseDate:            date(2025, 1, 2),
			StockPrice:              50,
			Expiration:              exp,
			Strike:                  strike,
			Mid:                     2,
			NetDebit:                48,
			Premium:                 -13,
			OpenInterest:            1200,
			ForwardDividend:         4,
			ForwardDividendPercent:  8,
			DividendFrequency:       4,
			NextDividendDate:        &next,
			DividendAtStrikePercent: 4 / strike * 100,
			PremiumLessDividend:     -14,
			Hold: scoring.ScenarioResult{
				DividendAndPremium:      -1100,
				TotalReturnPercent:      -22.916666,
				AnnualizedReturnPercent: holdAnn,
			},
			EarlyCall: scoring.ScenarioResult{
				DividendAndPremium:      -1200,
				TotalReturnPercent:      -25,
				AnnualizedReturnPercent: -45.398,
			},
		}
	}

	return &evaluation.Result{
		Symbol:       "KO",
		Shares:       100,
		PurchaseDate: date(2025, 1, 2),
		StockPrice:   50,
		Profile:      dividends.Profile{YearlyAmount: 4, Frequency: 4, NextPaymentEstimate: &next},
		Policy: evaluation.PolicySnapshot{
			Band:   options.DefaultBand,
			Window: options.DefaultWindow,
		},
		Rows: []evaluation.Row{
			row(date(2025, 10, 30), 35, -27.881944),
			row(date(2026, 2, 6), 41, 3.5),
		},
		BestIndex: 1,
		Warnings: []evaluation.ExpirationWarning{
			{Expiration: date(2026, 5, 1), Reason: evaluation.SkipEmptyBand, Message: "expiration 2026-05-01 skipped: empty_band"},
		},
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "-22.92%", Percent(-22.916666))
	assert.Equal(t, "-27.88%", Percent(-27.881944))
	assert.Equal(t, "0.00%", Percent(0))
	assert.Equal(t, "48.00", Money(48))
	assert.Equal(t, "1.57", Money(1.5678))
	assert.Equal(t, "2025-01-30", Date(date(2025, 1, 30)))
	assert.Equal(t, "", Date(time.Time{}))
	assert.Equal(t, "N/A", OptionalDate(nil))
}

func TestWriteCSV(t *testing.T) {
	result := sampleResult()
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, result.Rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Headers(), records[0])
	assert.Len(t, records[0], 21)

	first := records[1]
	assert.Equal(t, "2025-01-02", first[0])
	assert.Equal(t, "KO", first[1])
	assert.Equal(t, "8.00%", first[4])
	assert.Equal(t, "2025-01-30", first[6])
	assert.Equal(t, "2025-10-30", first[7])
	assert.Equal(t, "35.00", first[8])
	assert.Equal(t, "1200", first[14])
	assert.Equal(t, "-1100.00", first[15])
	assert.Equal(t, "-22.92%", first[16])
	assert.Equal(t, "-27.88%", first[17])
	assert.Equal(t, "-25.00%", first[19])
}

func TestWriteBestCSV(t *testing.T) {
	result := sampleResult()
	var buf bytes.Buffer

	require.NoError(t, WriteBestCSV(&buf, result))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "41.00", records[1][8])
}

func TestWriteBestCSV_NoRows(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBestCSV(&buf, &evaluation.Result{BestIndex: -1})
	assert.Error(t, err)
}

func TestRenderer_Render(t *testing.T) {
	out := NewRenderer(DefaultTheme).Render(sampleResult())

	assert.Contains(t, out, "KO Buy-Write")
	assert.Contains(t, out, "Best Overall Option")
	assert.Contains(t, out, "Hold Dividend: Annualized %")
	assert.Contains(t, out, "-27.88%")
	assert.Contains(t, out, "3.50%")
	assert.Contains(t, out, "Next Dividend Date")
	assert.Contains(t, out, "2025-01-30")
	assert.Contains(t, out, "expiration 2026-05-01 skipped")

	// The best row shows up in the full table and again on its own
	assert.Equal(t, 2, strings.Count(out, "41.00"))
	assert.Equal(t, 1, strings.Count(out, "35.00"))
}

func TestRenderer_Traces(t *testing.T) {
	result := sampleResult()
	result.Traces = []scoring.ExpirationTrace{
		{
			Expiration:        date(2025, 10, 30),
			Candidates:        3,
			DividendsInPeriod: []time.Time{date(2025, 3, 31), date(2025, 7, 29)},
			SingleDividend:    1,
			HoldDividends:     2,
			DaysHeld:          301,
			EarlyCallDate:     date(2025, 7, 22),
			EarlyDividends:    1,
			DaysHeldEarly:     201,
		},
		{Expiration: date(2026, 2, 6)},
	}

	out := NewRenderer(DefaultTheme).Render(result)

	assert.Contains(t, out, "Expiration Diagnostics")
	assert.Contains(t, out, "2025-07-29")
	assert.Contains(t, out, "2025-07-22")
	assert.Contains(t, out, "201")
	assert.Contains(t, out, "none")
}

func TestRenderer_NoTracesSection(t *testing.T) {
	out := NewRenderer(DefaultTheme).Render(sampleResult())

	assert.NotContains(t, out, "Expiration Diagnostics")
}
