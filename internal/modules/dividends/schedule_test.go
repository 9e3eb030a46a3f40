package dividends

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectable(last time.Time, interval float64) Profile {
	return Profile{
		Frequency:           4,
		YearlyAmount:        4,
		AverageIntervalDays: interval,
		LastKnownPayment:    last,
		HasHistory:          true,
		Projectable:         true,
	}
}

func TestProjectSchedule_StepsFromLastKnownPayment(t *testing.T) {
	profile := projectable(date(2024, 11, 1), 91)

	schedule, err := ProjectSchedule(profile, date(2025, 8, 1))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		date(2025, 1, 31),
		date(2025, 5, 2),
		date(2025, 8, 1),
	}, schedule, "a projected date equal to upto is included")
}

func TestProjectSchedule_StrictlyIncreasingAndBounded(t *testing.T) {
	upto := date(2026, 6, 19)
	profile := projectable(date(2024, 11, 1), 91.333333)

	schedule, err := ProjectSchedule(profile, upto)
	require.NoError(t, err)
	require.NotEmpty(t, schedule)

	for i, d := range schedule {
		assert.False(t, d.After(upto), "element %d beyond upto", i)
		if i > 0 {
			assert.True(t, d.After(schedule[i-1]), "element %d not increasing", i)
		}
	}
}

func TestProjectSchedule_EmptyWhenFirstStepPastUpto(t *testing.T) {
	profile := projectable(date(2024, 11, 1), 91)

	schedule, err := ProjectSchedule(profile, date(2025, 1, 30))
	require.NoError(t, err)
	assert.Empty(t, schedule)
}

func TestProjectSchedule_NotProjectable(t *testing.T) {
	profile := Profile{Frequency: 1, AverageIntervalDays: DaysPerYear}

	schedule, err := ProjectSchedule(profile, date(2030, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, schedule)
}

func TestProjectSchedule_RejectsNonPositiveInterval(t *testing.T) {
	for _, interval := range []float64{0, -30, math.NaN()} {
		_, err := ProjectSchedule(projectable(date(2024, 11, 1), interval), date(2026, 1, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDegenerateSchedule))
	}
}

func TestProjectSchedule_IterationBound(t *testing.T) {
	// One minute between payments would need far more than MaxProjectionSteps
	profile := projectable(date(2024, 11, 1), 1.0/1440)

	_, err := ProjectSchedule(profile, date(2025, 11, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateSchedule))
}

func TestPaymentsInPeriod(t *testing.T) {
	schedule := []time.Time{date(2025, 1, 2), date(2025, 4, 2), date(2025, 7, 2), date(2025, 10, 2)}

	in := PaymentsInPeriod(schedule, date(2025, 1, 2), date(2025, 7, 2))

	assert.Equal(t, []time.Time{date(2025, 4, 2), date(2025, 7, 2)}, in,
		"purchase date is exclusive and expiration inclusive")
	assert.Empty(t, PaymentsInPeriod(nil, date(2025, 1, 1), date(2026, 1, 1)))
}
