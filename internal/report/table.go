package report

import (
	"fmt"
	"strings"

	"github.com/aristath/buywrite/internal/modules/evaluation"
	"github.com/aristath/buywrite/pkg/formulas"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Theme holds the colors of the terminal report.
type Theme struct {
	Border  lipgloss.Color
	Header  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Best    lipgloss.Color
	BestBg  lipgloss.Color
	Warning lipgloss.Color
}

// DefaultTheme uses the CharmTone palette.
var DefaultTheme = Theme{
	Border:  lipgloss.Color("#4D4C57"),
	Header:  lipgloss.Color("#6B50FF"),
	Text:    lipgloss.Color("#DFDBDD"),
	Muted:   lipgloss.Color("#858392"),
	Best:    lipgloss.Color("#201F26"),
	BestBg:  lipgloss.Color("#00FFB2"),
	Warning: lipgloss.Color("#FFD300"),
}

// Renderer turns results into terminal text.
type Renderer struct {
	theme Theme
}

// NewRenderer creates a renderer with theme.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Render returns the summary, the table of all rows with the best one
// highlighted, the best row on its own, diagnostics when present and any
// skipped expirations.
func (r *Renderer) Render(result *evaluation.Result) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(r.theme.Header)

	sections := []string{
		title.Render(fmt.Sprintf("%s Buy-Write (%d-%d days, strikes %s-%s of price)",
			result.Symbol,
			result.Policy.Window.MinDays, result.Policy.Window.MaxDays,
			Percent(result.Policy.Band.Lower*100), Percent(result.Policy.Band.Upper*100))),
		r.summary(result),
		r.table(result.Rows, result.BestIndex),
	}

	if best, ok := result.Best(); ok {
		sections = append(sections,
			title.Render("Best Overall Option (Hold Dividend scenario)"),
			r.table([]evaluation.Row{best}, -1))
	}

	if len(result.Traces) > 0 {
		sections = append(sections, title.Render("Expiration Diagnostics"), r.Traces(result.Traces))
	}

	if len(result.Warnings) > 0 {
		warn := lipgloss.NewStyle().Foreground(r.theme.Warning)
		lines := make([]string, len(result.Warnings))
		for i, w := range result.Warnings {
			lines[i] = warn.Render("! " + w.Message)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func (r *Renderer) summary(result *evaluation.Result) string {
	label := lipgloss.NewStyle().Foreground(r.theme.Muted)
	value := lipgloss.NewStyle().Foreground(r.theme.Text)

	p := result.Profile
	pairs := [][2]string{
		{"Date Purchased", Date(result.PurchaseDate)},
		{"Shares", fmt.Sprintf("%d", result.Shares)},
		{"Stock Price", Money(result.StockPrice)},
		{"Forward Dividend", fmt.Sprintf("%s (%s)", Money(p.YearlyAmount), Percent(formulas.PercentOf(p.YearlyAmount, result.StockPrice)))},
		{"Dividend Frequency", fmt.Sprintf("%d", p.Frequency)},
		{"Next Dividend Date", OptionalDate(p.NextPaymentEstimate)},
	}

	parts := make([]string, len(pairs))
	for i, kv := range pairs {
		parts[i] = label.Render(kv[0]+": ") + value.Render(kv[1])
	}
	return strings.Join(parts, "   ")
}

func (r *Renderer) table(rows []evaluation.Row, bestIndex int) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(r.theme.Header).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(r.theme.Text).Padding(0, 1)
	bestStyle := cellStyle.Foreground(r.theme.Best).Background(r.theme.BestBg).Bold(true)

	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = record(row, true)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Headers(headers(true)...).
		Rows(records...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == bestIndex:
				return bestStyle
			default:
				return cellStyle
			}
		})

	return t.String()
}
