package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetplan/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	amountStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	badStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if len(h) > widths[i] {
				widths[i] = len(h)
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

// RenderProgressBar renders a text progress bar for a 0-100 percentage.
func RenderProgressBar(pct decimal.Decimal, width int) string {
	if width <= 0 {
		return ""
	}

	frac := pct.Div(decimal.NewFromInt(100)).InexactFloat64()
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}

	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", mutedStyle.Render(bar), FormatPercent(pct))
}

// RenderReport renders a full plan: summary, untouched and adjusted
// categories, savings goals and notes.
func RenderReport(title string, r model.BudgetReport) string {
	cur := r.Currency
	var b strings.Builder

	b.WriteString(RenderTitle(title))
	b.WriteString("\n\n")

	summary := Table{
		Title:   "Summary",
		Headers: []string{"", "Amount"},
		Rows: [][]string{
			{"Income", FormatMoney(r.Income, cur)},
			{"Savings (" + FormatRate(r.SavingsRate) + ")", FormatMoney(r.EssentialSavings, cur)},
			{"Available for spending", FormatMoney(r.Available, cur)},
			{"---"},
			{"Original expenses", FormatMoney(r.OriginalTotal, cur)},
			{"Optimized expenses", FormatMoney(r.OptimizedTotal, cur)},
			{"Total reduction", FormatReduction(r.TotalReduction, cur)},
			{"---"},
			{"Remaining balance", FormatMoney(r.RemainingBalance, cur)},
			{"Daily burn rate", FormatMoney(r.DailyBurnRate, cur)},
		},
	}
	if r.Shortfall.IsPositive() {
		summary.Rows = append(summary.Rows, []string{"Shortfall", FormatMoney(r.Shortfall, cur)})
	}
	b.WriteString(RenderTable(summary))

	if len(r.Adjustments) > 0 {
		adj := Table{
			Title:   "Adjusted",
			Headers: []string{"Category", "Original", "Optimized", "Cut", "Reason"},
		}
		for _, a := range r.Adjustments {
			adj.Rows = append(adj.Rows, []string{
				a.Category,
				FormatMoney(a.Original, cur),
				FormatMoney(a.Optimized, cur),
				FormatPercent(a.ReductionPct),
				a.Reason,
			})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(adj))
	}

	if len(r.UntouchedCategories) > 0 {
		kept := Table{
			Title:   "Untouched",
			Headers: []string{"Category", "Amount", "Reason"},
		}
		for _, u := range r.UntouchedCategories {
			kept.Rows = append(kept.Rows, []string{u.Category, FormatMoney(u.Amount, cur), u.Reason})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(kept))
	}

	if len(r.SavingsGoals) > 0 {
		b.WriteString("\n  ")
		b.WriteString(headerStyle.Render("Savings Goals"))
		b.WriteString("\n")
		for _, g := range r.SavingsGoals {
			fmt.Fprintf(&b, "  %-14s %s  %s / %s  %s\n",
				g.Name,
				RenderProgressBar(g.ProgressPct, 20),
				amountStyle.Render(FormatMoney(g.Saved, cur)),
				FormatMoney(g.Target, cur),
				dimStyle.Render(FormatMonths(g.MonthsToTarget)),
			)
		}
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n")
		for _, n := range r.Notes {
			b.WriteString("  ")
			b.WriteString(noteStyle(n).Render(n))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func noteStyle(note string) lipgloss.Style {
	switch {
	case strings.HasPrefix(note, "Warning:"):
		return warnStyle
	case strings.HasPrefix(note, "Shortfall:"):
		return badStyle
	case strings.HasPrefix(note, "You're on track"):
		return goodStyle
	}
	return valueStyle
}
