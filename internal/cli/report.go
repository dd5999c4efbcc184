package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/tui/components"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Report is everything the table presenter needs for one evaluation.
type Report struct {
	Budget   float64
	Expenses model.ExpenseMap
	Result   model.Result
	Shares   []model.CategoryShare
	Surface  []model.Category // insights to show; empty shows all
}

// NewReport pairs an evaluated result with its per-category breakdown.
func NewReport(ev *pipeline.Evaluator, budget float64, expenses model.ExpenseMap, res model.Result, surface []model.Category) Report {
	return Report{
		Budget:   budget,
		Expenses: expenses,
		Result:   res,
		Shares:   ev.Breakdown(budget, expenses),
		Surface:  surface,
	}
}

const reportWidth = 57

// RenderReport renders the full human-readable analysis.
func RenderReport(r Report, set model.CategorySet) string {
	t := theme.Active
	res := r.Result
	tierColor := t.TierColor(res.Tier)

	tierStyle := lipgloss.NewStyle().Foreground(tierColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange)
	goodStyle := lipgloss.NewStyle().Foreground(t.Green)
	badStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(RenderTitle("Smart Budget Analysis"))
	b.WriteString("\n\n")

	b.WriteString(RenderTable(Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Budget", FormatMoney(r.Budget)},
			{"Total Expenses", FormatMoney(res.TotalExpenses)},
			{"Remaining Budget", FormatMoney(res.RemainingBudget)},
			{"---"},
			{"Savings", FormatPercent(res.SavingsPercentage)},
			{"Tier", TierGlyph(res.Tier) + " " + string(res.Tier)},
		},
	}))
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Savings Score"))
	b.WriteString("\n  ")
	b.WriteString(components.SavingsBar(res.SavingsPercentage, res.Tier, 40))
	b.WriteString("\n  ")
	b.WriteString(tierStyle.Render(TierGlyph(res.Tier) + " " + TierMessage(res.Tier, res.SavingsPercentage)))
	b.WriteString("\n")
	switch {
	case Celebrates(res):
		b.WriteString("  ")
		b.WriteString(goodStyle.Render(CelebrationMessage))
		b.WriteString("\n")
	case res.Tier == model.TierLow:
		b.WriteString("  ")
		b.WriteString(badStyle.Render(AlertMessage(res)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Expense Breakdown"))
	b.WriteString("\n")
	b.WriteString(indent(components.BreakdownChart(r.Shares, set, reportWidth-2, FormatMoney), "  "))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Spending Distribution"))
	b.WriteString("\n  ")
	b.WriteString(components.ShareBar(r.Shares, set, reportWidth-2))
	b.WriteString("\n")
	b.WriteString(indent(components.ShareLegend(r.Shares, set, reportWidth-2, FormatShare), "  "))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Insights"))
	b.WriteString("\n")
	insights := pipeline.SurfaceInsights(res.Insights, r.Surface)
	if len(insights) == 0 {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render("No category is above 20% of your budget."))
		b.WriteString("\n")
	}
	for _, c := range insights {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render(fmt.Sprintf("▲ %s: %s", c, InsightMessage(c))))
		b.WriteString("\n")
	}
	b.WriteString("\n  ")
	b.WriteString(mutedStyle.Render(SummaryLine(res)))
	b.WriteString("\n\n")

	return b.String()
}

// BatchRow is one evaluated document in a multi-file run. Err is set when the
// document was rejected.
type BatchRow struct {
	Label  string
	Budget float64
	Result model.Result
	Err    error
}

// RenderBatch renders one table row per document, with rejected documents inline.
func RenderBatch(rows []BatchRow) string {
	t := Table{
		Title:   "Budgets",
		Headers: []string{"Document", "Budget", "Expenses", "Remaining", "Savings", "Tier", "Insights"},
	}
	failed := 0
	for _, r := range rows {
		if r.Err != nil {
			failed++
			t.Rows = append(t.Rows, []string{r.Label, FormatCompactMoney(r.Budget), "-", "-", "-", "error", truncate(r.Err.Error(), 32)})
			continue
		}
		t.Rows = append(t.Rows, []string{
			r.Label,
			FormatCompactMoney(r.Budget),
			FormatCompactMoney(r.Result.TotalExpenses),
			FormatCompactMoney(r.Result.RemainingBudget),
			FormatPercent(r.Result.SavingsPercentage),
			TierGlyph(r.Result.Tier) + " " + string(r.Result.Tier),
			joinCategories(r.Result.Insights),
		})
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(RenderTable(t))
	fmt.Fprintf(&b, "  %d documents, %d rejected\n\n", len(rows), failed)
	return b.String()
}

func joinCategories(cs []model.Category) string {
	if len(cs) == 0 {
		return "-"
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "…"
}
