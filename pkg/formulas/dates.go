package formulas

import (
	"math"
	"time"
)

// Day is one calendar day as an absolute duration.
const Day = 24 * time.Hour

// DaysBetween returns the whole number of days from `from` to `to`, floored.
// A negative span floors away from zero (-1h is -1 day), so callers that need a
// positive holding period clamp with MinDays.
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// MinDays clamps a day count to at least floor.
func MinDays(days, floor int) int {
	if days < floor {
		return floor
	}
	return days
}

// AddDays shifts t by a possibly fractional number of days.
func AddDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(days * float64(Day)))
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	in := t.In(loc)
	return time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, loc)
}
