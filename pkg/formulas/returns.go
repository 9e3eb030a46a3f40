package formulas

// DaysPerYear is the annualization basis for holding-period returns.
const DaysPerYear = 365.0

// TotalReturnPercent expresses gain as a percentage of capital.
// Zero capital yields 0 rather than an infinite return.
func TotalReturnPercent(gain, capital float64) float64 {
	if capital == 0 {
		return 0
	}
	return gain / capital * 100
}

// Annualize scales a holding-period percentage to a 365-day basis.
// Day counts below one are treated as one day.
func Annualize(percent float64, days int) float64 {
	if days < 1 {
		days = 1
	}
	return percent * (DaysPerYear / float64(days))
}

// PercentOf returns part as a percentage of whole, or 0 when whole is 0.
func PercentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
