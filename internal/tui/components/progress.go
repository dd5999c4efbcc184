package components

import (
	"fmt"

	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// SavingsBar renders the savings score as a tier-colored bar. pct is 0-100 and is
// clamped for display only; the label always shows the real value.
func SavingsBar(pct float64, tier model.Tier, width int) string {
	t := theme.Active
	color := t.TierColor(tier)

	fill := clampUnit(pct / 100)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return bar.ViewAs(fill) + " " + pctStyle.Render(fmt.Sprintf("%.1f%%", pct))
}

// SpendBar renders how much of the budget has been spent, turning red past 100%.
func SpendBar(spent, budget float64, width int) string {
	t := theme.Active

	ratio := 0.0
	if budget > 0 {
		ratio = spent / budget
	}

	var color lipgloss.Color
	switch {
	case ratio > 1:
		color = t.Red
	case ratio >= 0.9:
		color = t.Orange
	case ratio >= 0.8:
		color = t.Yellow
	default:
		color = t.Accent
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	label := lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%3.0f%%", ratio*100))
	return bar.ViewAs(clampUnit(ratio)) + " " + label
}

func clampUnit(f float64) float64 {
	if f != f || f < 0 { // NaN or negative
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
