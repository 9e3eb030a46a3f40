package formulas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{91}, 91},
		{"quarterly gaps", []float64{91, 92, 91}, 91.333333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Mean(tt.data), 1e-6)
		})
	}
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.InDelta(t, 4.0, Sum([]float64{1, 1, 1, 1}), 1e-9)
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(base, base))
	assert.Equal(t, 1, DaysBetween(base, base.AddDate(0, 0, 1)))
	assert.Equal(t, 300, DaysBetween(base, base.AddDate(0, 0, 300)))
	assert.Equal(t, -1, DaysBetween(base, base.Add(-time.Hour)), "negative spans floor")
	assert.Equal(t, 0, DaysBetween(base, base.Add(23*time.Hour)), "partial days floor")
}

func TestMinDays(t *testing.T) {
	assert.Equal(t, 1, MinDays(0, 1))
	assert.Equal(t, 1, MinDays(-12, 1))
	assert.Equal(t, 30, MinDays(30, 1))
}

func TestAddDays(t *testing.T) {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, base.AddDate(0, 0, 91), AddDays(base, 91))
	assert.Equal(t, base.Add(36*time.Hour), AddDays(base, 1.5))
	assert.Equal(t, base.AddDate(0, 0, -7), AddDays(base, -7))
}

func TestStartOfDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	in := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
	got := StartOfDay(in, ny)

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, ny), got)
}

func TestTotalReturnPercent(t *testing.T) {
	assert.InDelta(t, -22.9167, TotalReturnPercent(-1100, 4800), 1e-4)
	assert.Equal(t, 0.0, TotalReturnPercent(100, 0))
}

func TestAnnualize(t *testing.T) {
	assert.InDelta(t, -27.8819, Annualize(-22.916667, 300), 1e-3)
	assert.InDelta(t, 365.0, Annualize(1, 1), 1e-9)
	assert.InDelta(t, 365.0, Annualize(1, 0), 1e-9, "days below one clamp to one")
}

func TestPercentOf(t *testing.T) {
	assert.InDelta(t, 8.0, PercentOf(4, 50), 1e-9)
	assert.Equal(t, 0.0, PercentOf(4, 0))
}
