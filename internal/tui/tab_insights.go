package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/cli"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/tui/components"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)

	insights := pipeline.SurfaceInsights(a.result.Insights, a.surface)

	var b strings.Builder
	if len(insights) == 0 {
		b.WriteString(components.AccentCard("Insights",
			lipgloss.NewStyle().Foreground(t.Green).Render("✓ No category is above 20% of your budget."),
			t.Green, cw))
		b.WriteString("\n")
	}

	for _, c := range insights {
		amt := a.expenses.Get(c)
		body := valueStyle.Render(cli.FormatMoney(amt))
		if a.budget > 0 {
			body += mutedStyle.Render(fmt.Sprintf(" · %s of your budget", cli.FormatPercent(amt/a.budget*100)))
		}
		body += "\n" + cli.InsightMessage(c)
		b.WriteString(components.AccentCard("▲ "+string(c), body, t.Orange, cw))
		b.WriteString("\n")
	}

	// Flagged categories hidden by insights.surface still get a mention.
	if hidden := hiddenInsights(a.result.Insights, insights); len(hidden) > 0 {
		names := make([]string, len(hidden))
		for i, c := range hidden {
			names[i] = string(c)
		}
		b.WriteString(mutedStyle.Render("  Also over 20%: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}

	return b.String()
}

func hiddenInsights(all, shown []model.Category) []model.Category {
	var out []model.Category
	for _, c := range all {
		found := false
		for _, s := range shown {
			if s == c {
				found = true
				break
			}
		}
		if !found {
			out = append(out, c)
		}
	}
	return out
}
