package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/cli"
	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/tui/components"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBreakdownTab(cw int) string {
	set := a.ev.Categories()
	shares := a.shares
	title := "Expense Breakdown"
	if a.sortByAmount {
		shares = pipeline.SortByAmount(shares)
		title += " (by amount)"
	}

	innerW := components.CardInnerWidth(cw)
	var b strings.Builder

	b.WriteString(components.ContentCard(title,
		components.BreakdownChart(shares, set, innerW, cli.FormatMoney), cw))
	b.WriteString("\n")

	dist := components.ShareBar(shares, set, innerW) + "\n" +
		components.ShareLegend(shares, set, innerW, cli.FormatShare)
	b.WriteString(components.ContentCard("Spending Distribution", dist, cw))
	b.WriteString("\n")

	if !a.isCompactLayout() {
		b.WriteString(a.renderCategoryTable(cw))
	}
	return b.String()
}

// renderCategoryTable lists each category with its amount, share of spending,
// and share of the budget.
func (a App) renderCategoryTable(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	flagStyle := lipgloss.NewStyle().Foreground(t.Orange).Bold(true)

	fixed := 12 + 8 + 9 + 2
	nameW := innerW - fixed - 3
	if nameW < 14 {
		nameW = 14
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %12s %8s %9s", nameW, "Category", "Amount", "Share", "Of budget")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", nameW+fixed+1)))
	body.WriteString("\n")

	shares := a.shares
	if a.sortByAmount {
		shares = pipeline.SortByAmount(shares)
	}
	for _, s := range shares {
		ofBudget := "-"
		if a.budget > 0 {
			ofBudget = cli.FormatPercent(s.Amount / a.budget * 100)
		}
		nameStyle := lipgloss.NewStyle().Foreground(t.CategoryColor(a.ev.Categories(), s.Category))
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, s.Category)))
		body.WriteString(rowStyle.Render(fmt.Sprintf(" %12s %8s %9s",
			cli.FormatMoney(s.Amount), cli.FormatShare(s.SharePercent), ofBudget)))
		if s.Flagged {
			body.WriteString(flagStyle.Render(" ▲"))
		}
		body.WriteString("\n")
	}

	return components.ContentCard("Categories", body.String(), cw)
}
