package pipeline

import (
	"errors"
	"maps"
	"math"
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/theirongolddev/smartbudget/internal/model"

	"github.com/shopspring/decimal"
)

func zeroExpenses() model.ExpenseMap {
	m := make(model.ExpenseMap, len(model.DefaultCategories))
	for _, c := range model.DefaultCategories {
		m[c] = 0
	}
	return m
}

func mustEvaluate(t *testing.T, budget float64, expenses model.ExpenseMap) model.Result {
	t.Helper()
	res, err := Evaluate(budget, expenses)
	if err != nil {
		t.Fatalf("Evaluate(%v, %v) error: %v", budget, expenses, err)
	}
	return res
}

func TestEvaluate_ExcellentScenario(t *testing.T) {
	res := mustEvaluate(t, 2000, model.ExpenseMap{
		model.Food:           400,
		model.Rent:           800,
		model.Entertainment:  100,
		model.Transportation: 100,
		model.Shopping:       50,
		model.Savings:        0,
		model.Other:          50,
	})

	if res.TotalExpenses != 1500 {
		t.Fatalf("TotalExpenses = %v, want 1500", res.TotalExpenses)
	}
	if res.RemainingBudget != 500 {
		t.Fatalf("RemainingBudget = %v, want 500", res.RemainingBudget)
	}
	if res.SavingsPercentage != 25 {
		t.Fatalf("SavingsPercentage = %v, want 25", res.SavingsPercentage)
	}
	if res.Tier != model.TierExcellent {
		t.Fatalf("Tier = %s, want Excellent", res.Tier)
	}
	if res.Insights == nil || len(res.Insights) != 0 {
		t.Fatalf("Insights = %#v, want empty non-nil slice", res.Insights)
	}
}

func TestEvaluate_ZeroBudget(t *testing.T) {
	res := mustEvaluate(t, 0, zeroExpenses())

	if res.TotalExpenses != 0 || res.RemainingBudget != 0 || res.SavingsPercentage != 0 {
		t.Fatalf("got %+v, want all-zero figures", res)
	}
	if res.Tier != model.TierLow {
		t.Fatalf("Tier = %s, want Low", res.Tier)
	}
	if len(res.Insights) != 0 {
		t.Fatalf("Insights = %v, want none", res.Insights)
	}
}

func TestEvaluate_ZeroBudgetWithSpend(t *testing.T) {
	res := mustEvaluate(t, 0, model.ExpenseMap{model.Food: 120, model.Rent: 30})

	if res.SavingsPercentage != 0 {
		t.Fatalf("SavingsPercentage = %v, want 0 when budget is 0", res.SavingsPercentage)
	}
	if res.RemainingBudget != -150 {
		t.Fatalf("RemainingBudget = %v, want -150", res.RemainingBudget)
	}
	if res.Tier != model.TierLow {
		t.Fatalf("Tier = %s, want Low", res.Tier)
	}
	// any spend exceeds 20% of nothing
	if len(res.Insights) != 2 || res.Insights[0] != model.Food || res.Insights[1] != model.Rent {
		t.Fatalf("Insights = %v, want [Food Rent]", res.Insights)
	}
}

func TestEvaluate_NegativeSavings(t *testing.T) {
	res := mustEvaluate(t, 100, model.ExpenseMap{model.Food: 150})

	if res.RemainingBudget != -50 {
		t.Fatalf("RemainingBudget = %v, want -50", res.RemainingBudget)
	}
	if res.SavingsPercentage != -50 {
		t.Fatalf("SavingsPercentage = %v, want -50", res.SavingsPercentage)
	}
	if res.Tier != model.TierLow {
		t.Fatalf("Tier = %s, want Low", res.Tier)
	}
	if !res.Overspent() {
		t.Fatal("Overspent() = false, want true")
	}
}

func TestEvaluate_TierBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		spend float64
		pct   float64
		tier  model.Tier
	}{
		{"just above twenty", 799.99, 20.001, model.TierExcellent},
		{"exactly twenty", 800, 20, model.TierModerate},
		{"exactly ten", 900, 10, model.TierModerate},
		{"just below ten", 900.01, 9.999, model.TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustEvaluate(t, 1000, model.ExpenseMap{model.Rent: tt.spend})
			if res.SavingsPercentage != tt.pct {
				t.Fatalf("SavingsPercentage = %v, want %v", res.SavingsPercentage, tt.pct)
			}
			if res.Tier != tt.tier {
				t.Fatalf("Tier = %s, want %s", res.Tier, tt.tier)
			}
		})
	}
}

func TestEvaluate_DecimalSums(t *testing.T) {
	res := mustEvaluate(t, 3, model.ExpenseMap{model.Food: 0.1, model.Rent: 0.2, model.Other: 2.4})

	if res.TotalExpenses != 2.7 {
		t.Fatalf("TotalExpenses = %v, want 2.7", res.TotalExpenses)
	}
	// 0.3 / 3 is exactly ten percent, which must land in Moderate.
	if res.SavingsPercentage != 10 || res.Tier != model.TierModerate {
		t.Fatalf("got %v%% %s, want 10%% Moderate", res.SavingsPercentage, res.Tier)
	}
}

func TestEvaluate_InsightFlags(t *testing.T) {
	res := mustEvaluate(t, 1000, model.ExpenseMap{model.Entertainment: 250})

	if !slices.Contains(res.Insights, model.Entertainment) {
		t.Fatalf("Insights = %v, want Entertainment flagged", res.Insights)
	}
	if slices.Contains(res.Insights, model.Shopping) {
		t.Fatalf("Insights = %v, Shopping should not be flagged", res.Insights)
	}
}

func TestEvaluate_InsightThresholdIsStrict(t *testing.T) {
	res := mustEvaluate(t, 1000, model.ExpenseMap{model.Shopping: 200})
	if slices.Contains(res.Insights, model.Shopping) {
		t.Fatal("spend equal to 20% of budget should not be flagged")
	}
}

func TestEvaluate_InsightsCoverEveryCategory(t *testing.T) {
	res := mustEvaluate(t, 1000, model.ExpenseMap{
		model.Other: 300,
		model.Rent:  500,
		model.Food:  201,
	})

	want := []model.Category{model.Food, model.Rent, model.Other}
	if !reflect.DeepEqual(res.Insights, want) {
		t.Fatalf("Insights = %v, want %v (set order)", res.Insights, want)
	}
}

func TestEvaluate_MissingEntriesAreZero(t *testing.T) {
	sparse := mustEvaluate(t, 500, model.ExpenseMap{model.Food: 100})
	full := zeroExpenses()
	full[model.Food] = 100
	dense := mustEvaluate(t, 500, full)

	if !reflect.DeepEqual(sparse, dense) {
		t.Fatalf("sparse %+v != dense %+v", sparse, dense)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	expenses := model.ExpenseMap{model.Food: 123.45, model.Rent: 678.9, model.Shopping: 33.3}
	first := mustEvaluate(t, 1234.56, expenses)
	for i := 0; i < 50; i++ {
		again := mustEvaluate(t, 1234.56, expenses)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: %+v != %+v", i, again, first)
		}
		if math.Float64bits(first.SavingsPercentage) != math.Float64bits(again.SavingsPercentage) {
			t.Fatalf("run %d: savings bits differ", i)
		}
	}
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	expenses := model.ExpenseMap{model.Food: 10}
	before := maps.Clone(expenses)
	mustEvaluate(t, 100, expenses)
	if !reflect.DeepEqual(expenses, before) {
		t.Fatalf("expenses mutated: %v", expenses)
	}
}

func TestEvaluate_UnknownCategory(t *testing.T) {
	_, err := Evaluate(1000, model.ExpenseMap{model.Food: 10, "Luxury": 50})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}

	var inv *InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("error %T is not *InvalidInputError", err)
	}
	if inv.Field != "Luxury" {
		t.Fatalf("Field = %q, want Luxury", inv.Field)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatal("errors.Is(err, ErrInvalidInput) = false")
	}
}

func TestEvaluate_NegativeAmount(t *testing.T) {
	_, err := Evaluate(1000, model.ExpenseMap{model.Rent: -1})

	var inv *InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("error = %v, want *InvalidInputError", err)
	}
	if inv.Field != "Rent" || inv.Value != -1 {
		t.Fatalf("got Field=%q Value=%v, want Rent/-1", inv.Field, inv.Value)
	}
}

func TestEvaluate_NonFiniteValues(t *testing.T) {
	if _, err := Evaluate(math.NaN(), zeroExpenses()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("NaN budget: err = %v", err)
	}
	if _, err := Evaluate(100, model.ExpenseMap{model.Food: math.Inf(1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Inf expense: err = %v", err)
	}
}

func TestEvaluate_UnknownReportedBeforeNegative(t *testing.T) {
	_, err := Evaluate(100, model.ExpenseMap{model.Food: -3, "Zebra": 1, "Alpha": 2})

	var inv *InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v", err)
	}
	if inv.Field != "Alpha" {
		t.Fatalf("Field = %q, want Alpha (first unknown, sorted)", inv.Field)
	}
}

func TestEvaluate_Concurrent(t *testing.T) {
	want := mustEvaluate(t, 2000, model.ExpenseMap{model.Food: 400, model.Rent: 800})

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Evaluate(2000, model.ExpenseMap{model.Food: 400, model.Rent: 800})
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestNewEvaluator_RejectsBadSets(t *testing.T) {
	if _, err := NewEvaluator(nil); err == nil {
		t.Fatal("expected error for empty set")
	}
	if _, err := NewEvaluator(model.CategorySet{model.Food, model.Food}); err == nil {
		t.Fatal("expected error for duplicate categories")
	}
}

func TestNewEvaluator_CustomSet(t *testing.T) {
	ev, err := NewEvaluator(model.CategorySet{"Fuel", "Tolls"})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	res, err := ev.Evaluate(100, model.ExpenseMap{"Fuel": 30})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.SavingsPercentage != 70 || res.Tier != model.TierExcellent {
		t.Fatalf("got %v%% %s, want 70%% Excellent", res.SavingsPercentage, res.Tier)
	}
	if _, err := ev.Evaluate(100, model.ExpenseMap{model.Food: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Food should be unknown to a custom set, err = %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		pct  float64
		want model.Tier
	}{
		{150, model.TierExcellent},
		{20.0000001, model.TierExcellent},
		{20, model.TierModerate},
		{15, model.TierModerate},
		{10, model.TierModerate},
		{9.999, model.TierLow},
		{0, model.TierLow},
		{-40, model.TierLow},
	}
	for _, tt := range tests {
		if got := classify(decimal.NewFromFloat(tt.pct)); got != tt.want {
			t.Errorf("classify(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}
