package model

// Tier is the qualitative savings classification.
type Tier string

// Savings tiers, best to worst.
const (
	TierExcellent Tier = "Excellent"
	TierModerate  Tier = "Moderate"
	TierLow       Tier = "Low"
)

// Result is the output contract of one evaluation. It is never mutated after creation.
type Result struct {
	TotalExpenses     float64    `json:"totalExpenses" yaml:"totalExpenses"`
	RemainingBudget   float64    `json:"remainingBudget" yaml:"remainingBudget"`
	SavingsPercentage float64    `json:"savingsPercentage" yaml:"savingsPercentage"`
	Tier              Tier       `json:"tier" yaml:"tier"`
	Insights          []Category `json:"insights" yaml:"insights"`
}

// Overspent reports whether expenses exceed the budget.
func (r Result) Overspent() bool {
	return r.RemainingBudget < 0
}

// CategoryShare holds one category's slice of total spending, for charts.
type CategoryShare struct {
	Category     Category
	Amount       float64
	SharePercent float64 // 0-100 of total expenses
	Flagged      bool    // spend exceeds the insight threshold
}
