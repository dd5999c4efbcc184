// Package pipeline turns a budget and per-category spend into an evaluated result.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/theirongolddev/smartbudget/internal/model"

	"github.com/shopspring/decimal"
)

// Classification thresholds, in percent of the budget.
var (
	excellentAbove = decimal.NewFromInt(20)
	moderateFrom   = decimal.NewFromInt(10)
	insightShare   = decimal.New(20, -2) // 0.20 of the budget
	hundred        = decimal.NewFromInt(100)
)

// ErrInvalidInput matches any *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError identifies the offending key or value of a rejected request.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason == reasonUnknown {
		return fmt.Sprintf("invalid input: %s %q", e.Reason, e.Field)
	}
	return fmt.Sprintf("invalid input: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

const (
	reasonUnknown  = "unknown category"
	reasonNegative = "amount must be non-negative"
	reasonNaN      = "amount must be a finite number"
)

// Evaluator classifies budgets against a fixed category set. It holds no mutable
// state, so one value can serve any number of goroutines.
type Evaluator struct {
	categories model.CategorySet
}

// NewEvaluator returns an evaluator for the given set.
func NewEvaluator(categories model.CategorySet) (*Evaluator, error) {
	if len(categories) == 0 {
		return nil, errors.New("category set is empty")
	}
	if dups := categories.Duplicates(); len(dups) > 0 {
		return nil, fmt.Errorf("duplicate categories: %v", dups)
	}
	set := make(model.CategorySet, len(categories))
	copy(set, categories)
	return &Evaluator{categories: set}, nil
}

var defaultEvaluator = &Evaluator{categories: model.DefaultCategories}

// Default returns the evaluator for model.DefaultCategories.
func Default() *Evaluator {
	return defaultEvaluator
}

// Evaluate runs the default evaluator.
func Evaluate(budget float64, expenses model.ExpenseMap) (model.Result, error) {
	return defaultEvaluator.Evaluate(budget, expenses)
}

// Categories returns a copy of the evaluator's category set.
func (e *Evaluator) Categories() model.CategorySet {
	out := make(model.CategorySet, len(e.categories))
	copy(out, e.categories)
	return out
}

// Evaluate computes totals, savings percentage, tier and insight flags.
// Validation happens before any arithmetic; a rejected request returns *InvalidInputError.
func (e *Evaluator) Evaluate(budget float64, expenses model.ExpenseMap) (model.Result, error) {
	if err := e.Validate(budget, expenses); err != nil {
		return model.Result{}, err
	}

	b := decimal.NewFromFloat(budget)
	total := decimal.Zero
	for _, c := range e.categories {
		total = total.Add(decimal.NewFromFloat(expenses.Get(c)))
	}
	remaining := b.Sub(total)

	pct := decimal.Zero
	if b.IsPositive() {
		pct = remaining.Mul(hundred).Div(b)
	}

	threshold := b.Mul(insightShare)
	insights := make([]model.Category, 0)
	for _, c := range e.categories {
		if decimal.NewFromFloat(expenses.Get(c)).GreaterThan(threshold) {
			insights = append(insights, c)
		}
	}

	return model.Result{
		TotalExpenses:     total.InexactFloat64(),
		RemainingBudget:   remaining.InexactFloat64(),
		SavingsPercentage: pct.InexactFloat64(),
		Tier:              classify(pct),
		Insights:          insights,
	}, nil
}

// Validate checks a request without evaluating it. Unknown keys are reported
// before bad amounts, each in a stable order.
func (e *Evaluator) Validate(budget float64, expenses model.ExpenseMap) error {
	if math.IsNaN(budget) || math.IsInf(budget, 0) {
		return &InvalidInputError{Field: "budget", Value: budget, Reason: reasonNaN}
	}

	var unknown []string
	for c := range expenses {
		if !e.categories.Contains(c) {
			unknown = append(unknown, string(c))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &InvalidInputError{Field: unknown[0], Reason: reasonUnknown}
	}

	for _, c := range e.categories {
		v, ok := expenses[c]
		if !ok {
			continue
		}
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return &InvalidInputError{Field: string(c), Value: v, Reason: reasonNaN}
		case v < 0:
			return &InvalidInputError{Field: string(c), Value: v, Reason: reasonNegative}
		}
	}
	return nil
}

func classify(pct decimal.Decimal) model.Tier {
	switch {
	case pct.GreaterThan(excellentAbove):
		return model.TierExcellent
	case pct.GreaterThanOrEqual(moderateFrom):
		return model.TierModerate
	default:
		return model.TierLow
	}
}
