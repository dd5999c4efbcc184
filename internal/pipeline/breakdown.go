package pipeline

import (
	"sort"

	"github.com/theirongolddev/smartbudget/internal/model"

	"github.com/shopspring/decimal"
)

// Breakdown returns each category's share of total spending in set order.
// Shares are zero when nothing was spent. Input must already be valid.
func (e *Evaluator) Breakdown(budget float64, expenses model.ExpenseMap) []model.CategoryShare {
	total := decimal.Zero
	for _, c := range e.categories {
		total = total.Add(decimal.NewFromFloat(expenses.Get(c)))
	}
	threshold := decimal.NewFromFloat(budget).Mul(insightShare)

	shares := make([]model.CategoryShare, 0, len(e.categories))
	for _, c := range e.categories {
		amt := decimal.NewFromFloat(expenses.Get(c))
		share := decimal.Zero
		if total.IsPositive() {
			share = amt.Mul(hundred).Div(total)
		}
		shares = append(shares, model.CategoryShare{
			Category:     c,
			Amount:       amt.InexactFloat64(),
			SharePercent: share.InexactFloat64(),
			Flagged:      amt.GreaterThan(threshold),
		})
	}
	return shares
}

// SortByAmount orders shares largest first, keeping set order for ties.
func SortByAmount(shares []model.CategoryShare) []model.CategoryShare {
	out := make([]model.CategoryShare, len(shares))
	copy(out, shares)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// SurfaceInsights keeps only the insights a presenter has been told to show.
// An empty surface list shows everything.
func SurfaceInsights(insights []model.Category, surface []model.Category) []model.Category {
	if len(surface) == 0 {
		out := make([]model.Category, len(insights))
		copy(out, insights)
		return out
	}
	out := make([]model.Category, 0, len(insights))
	for _, c := range insights {
		for _, s := range surface {
			if c == s {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
