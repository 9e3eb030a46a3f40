package report

import (
	"strconv"
	"strings"

	"github.com/aristath/buywrite/internal/modules/scoring"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var traceHeaders = []string{
	"Expiration", "Candidates", "Dividends in Period", "Single Dividend",
	"Hold Dividends", "Days Held", "Early Call Date", "Early Dividends", "Days Held Early",
}

// traceRecord lists the projected dividend dates of a period, one per line.
func traceRecord(t scoring.ExpirationTrace) []string {
	dates := make([]string, len(t.DividendsInPeriod))
	for i, d := range t.DividendsInPeriod {
		dates[i] = Date(d)
	}
	inPeriod := strings.Join(dates, "\n")
	if inPeriod == "" {
		inPeriod = "none"
	}

	return []string{
		Date(t.Expiration),
		strconv.Itoa(t.Candidates),
		inPeriod,
		Money(t.SingleDividend),
		Money(t.HoldDividends),
		strconv.Itoa(t.DaysHeld),
		Date(t.EarlyCallDate),
		strconv.Itoa(t.EarlyDividends),
		strconv.Itoa(t.DaysHeldEarly),
	}
}

// Traces renders the per-expiration diagnostics.
func (r *Renderer) Traces(traces []scoring.ExpirationTrace) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(r.theme.Header).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(r.theme.Muted).Padding(0, 1)

	records := make([][]string, len(traces))
	for i, t := range traces {
		records[i] = traceRecord(t)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Headers(traceHeaders...).
		Rows(records...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
