package dividends

import (
	"errors"
	"fmt"
	"time"

	"github.com/aristath/buywrite/pkg/formulas"
)

// MaxProjectionSteps bounds the projection loop regardless of the interval.
const MaxProjectionSteps = 10000

// ErrDegenerateSchedule means the average payment interval cannot drive a
// terminating projection. It is fatal to an evaluation run.
var ErrDegenerateSchedule = errors.New("degenerate dividend schedule")

// ProjectSchedule projects payment dates forward from the last known payment,
// one average interval at a time, keeping every date on or before upto.
// A profile without a projectable schedule yields an empty result.
func ProjectSchedule(profile Profile, upto time.Time) ([]time.Time, error) {
	if !profile.Projectable {
		return nil, nil
	}
	if !(profile.AverageIntervalDays > 0) {
		return nil, fmt.Errorf("%w: average interval %.4f days", ErrDegenerateSchedule, profile.AverageIntervalDays)
	}

	var schedule []time.Time
	next := formulas.AddDays(profile.LastKnownPayment, profile.AverageIntervalDays)
	for steps := 0; !next.After(upto); steps++ {
		if steps >= MaxProjectionSteps {
			return nil, fmt.Errorf("%w: more than %d payments before %s",
				ErrDegenerateSchedule, MaxProjectionSteps, upto.Format("2006-01-02"))
		}
		schedule = append(schedule, next)
		next = formulas.AddDays(next, profile.AverageIntervalDays)
	}

	return schedule, nil
}

// PaymentsInPeriod keeps the dates strictly after `after` and on or before `through`.
func PaymentsInPeriod(schedule []time.Time, after, through time.Time) []time.Time {
	var in []time.Time
	for _, d := range schedule {
		if d.After(after) && !d.After(through) {
			in = append(in, d)
		}
	}
	return in
}
