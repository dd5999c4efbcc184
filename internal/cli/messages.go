package cli

import (
	"fmt"

	"github.com/theirongolddev/smartbudget/internal/model"
)

// TierMessage is the headline shown next to the savings score.
func TierMessage(tier model.Tier, pct float64) string {
	switch tier {
	case model.TierExcellent:
		return fmt.Sprintf("Excellent! You're saving %.1f%% of your income!", pct)
	case model.TierModerate:
		return fmt.Sprintf("You're saving %.1f%%. Try to increase savings!", pct)
	default:
		return fmt.Sprintf("Low savings (%.1f%%). Consider reducing expenses!", pct)
	}
}

// TierGlyph is a one-character status marker for a tier.
func TierGlyph(tier model.Tier) string {
	switch tier {
	case model.TierExcellent:
		return "✓"
	case model.TierModerate:
		return "!"
	default:
		return "✗"
	}
}

var insightAdvice = map[model.Category]string{
	model.Entertainment: "Reduce entertainment expenses to save more!",
	model.Shopping:      "Cut down on shopping for better budgeting!",
}

// InsightMessage is the advice line for a flagged category.
func InsightMessage(c model.Category) string {
	if msg, ok := insightAdvice[c]; ok {
		return msg
	}
	return fmt.Sprintf("%s is over 20%% of your budget. Look for savings there.", c)
}

// Celebrates reports whether the result earns the celebration banner.
func Celebrates(r model.Result) bool {
	return r.SavingsPercentage > 10
}

// CelebrationMessage accompanies results that clear 10% savings.
const CelebrationMessage = "🎈 Nice work, your savings clear 10%!"

// AlertMessage accompanies Low-tier results.
func AlertMessage(r model.Result) string {
	if r.Overspent() {
		return fmt.Sprintf("Over budget by %s.", FormatMoney(-r.RemainingBudget))
	}
	return "Savings are under 10% of your budget."
}

// SummaryLine is the one-line totals footer.
func SummaryLine(r model.Result) string {
	return fmt.Sprintf("Total Expenses: %s | Remaining Budget: %s",
		FormatMoney(r.TotalExpenses), FormatMoney(r.RemainingBudget))
}
