package tui

import (
	"strings"

	"github.com/theirongolddev/smartbudget/internal/cli"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/tui/components"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	res := a.result
	tierColor := t.TierColor(res.Tier)
	var b strings.Builder

	// Row 1: Metric cards
	remainingColor := t.Green
	if res.Overspent() {
		remainingColor = t.Red
	}
	spentNote := ""
	if a.budget > 0 {
		spentNote = cli.FormatShare(res.TotalExpenses/a.budget*100) + " of budget"
	}
	cards := []components.Metric{
		{Label: "Budget", Value: cli.FormatMoney(a.budget)},
		{Label: "Total Expenses", Value: cli.FormatMoney(res.TotalExpenses), Note: spentNote},
		{Label: "Remaining", Value: cli.FormatMoney(res.RemainingBudget), Color: remainingColor},
		{Label: "Savings", Value: cli.FormatPercent(res.SavingsPercentage), Note: string(res.Tier), Color: tierColor},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: Savings score
	innerW := components.CardInnerWidth(cw)
	barW := innerW - 8
	if barW < 10 {
		barW = 10
	}

	tierStyle := lipgloss.NewStyle().Foreground(tierColor).Bold(true)
	goodStyle := lipgloss.NewStyle().Foreground(t.Green)
	badStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)

	var score strings.Builder
	score.WriteString(components.SavingsBar(res.SavingsPercentage, res.Tier, barW))
	score.WriteString("\n\n")
	score.WriteString(tierStyle.Render(cli.TierGlyph(res.Tier) + " " + cli.TierMessage(res.Tier, res.SavingsPercentage)))
	switch {
	case cli.Celebrates(res):
		score.WriteString("\n")
		score.WriteString(goodStyle.Render(cli.CelebrationMessage))
	case res.Tier == model.TierLow:
		score.WriteString("\n")
		score.WriteString(badStyle.Render(cli.AlertMessage(res)))
	}
	b.WriteString(components.AccentCard("Savings Score", score.String(), tierColor, cw))
	b.WriteString("\n")

	// Row 3: Budget used
	b.WriteString(components.ContentCard("Budget Used", components.SpendBar(res.TotalExpenses, a.budget, barW), cw))

	return b.String()
}
