package evaluation

// BestIndex returns the index of the row with the highest hold-scenario
// annualized return. The first row wins ties; -1 means no rows.
func BestIndex(rows []Row) int {
	best := -1
	for i := range rows {
		if best < 0 || rows[i].Hold.AnnualizedReturnPercent > rows[best].Hold.AnnualizedReturnPercent {
			best = i
		}
	}
	return best
}
