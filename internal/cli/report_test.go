package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"
	"gopkg.in/yaml.v3"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func evalReport(t *testing.T, budget float64, expenses model.ExpenseMap, surface []model.Category) Report {
	t.Helper()
	ev := pipeline.Default()
	res, err := ev.Evaluate(budget, expenses)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return NewReport(ev, budget, expenses, res, surface)
}

func TestTierMessage(t *testing.T) {
	tests := []struct {
		tier model.Tier
		pct  float64
		want string
	}{
		{model.TierExcellent, 25, "Excellent! You're saving 25.0% of your income!"},
		{model.TierModerate, 15, "You're saving 15.0%. Try to increase savings!"},
		{model.TierLow, -50, "Low savings (-50.0%). Consider reducing expenses!"},
	}
	for _, tt := range tests {
		if got := TierMessage(tt.tier, tt.pct); got != tt.want {
			t.Errorf("TierMessage(%s) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestInsightMessage(t *testing.T) {
	if got := InsightMessage(model.Entertainment); got != "Reduce entertainment expenses to save more!" {
		t.Errorf("Entertainment advice = %q", got)
	}
	if got := InsightMessage(model.Shopping); got != "Cut down on shopping for better budgeting!" {
		t.Errorf("Shopping advice = %q", got)
	}
	if got := InsightMessage(model.Rent); !strings.Contains(got, "Rent") {
		t.Errorf("generic advice should name the category: %q", got)
	}
}

func TestRenderReport_Sections(t *testing.T) {
	theme.SetActive("terminal")
	r := evalReport(t, 2000, model.ExpenseMap{
		model.Food: 400, model.Rent: 800, model.Entertainment: 100,
		model.Transportation: 100, model.Shopping: 50, model.Other: 50,
	}, nil)

	out := RenderReport(r, model.DefaultCategories)
	for _, want := range []string{
		"Smart Budget Analysis",
		"$2,000.00",
		"$1,500.00",
		"25.0%",
		"Excellent! You're saving 25.0% of your income!",
		CelebrationMessage,
		"Expense Breakdown",
		"Spending Distribution",
		"No category is above 20% of your budget.",
		"Total Expenses: $1,500.00 | Remaining Budget: $500.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderReport_LowTierAlert(t *testing.T) {
	theme.SetActive("terminal")
	r := evalReport(t, 100, model.ExpenseMap{model.Food: 150}, nil)

	out := RenderReport(r, model.DefaultCategories)
	if !strings.Contains(out, "Over budget by $50.00.") {
		t.Errorf("missing overspend alert:\n%s", out)
	}
	if strings.Contains(out, CelebrationMessage) {
		t.Error("low tier should not celebrate")
	}
	if !strings.Contains(out, "Food: ") {
		t.Error("Food at 150% of budget should be listed as an insight")
	}
}

func TestRenderReport_SurfaceFiltersInsights(t *testing.T) {
	theme.SetActive("terminal")
	r := evalReport(t, 1000, model.ExpenseMap{model.Entertainment: 250, model.Rent: 500}, []model.Category{model.Entertainment})

	out := RenderReport(r, model.DefaultCategories)
	if !strings.Contains(out, "Reduce entertainment expenses to save more!") {
		t.Error("surfaced Entertainment insight missing")
	}
	if strings.Contains(out, "Rent is over 20%") {
		t.Error("Rent insight should be hidden by the surface list")
	}
}

func TestRenderBatch(t *testing.T) {
	ok, _ := pipeline.Evaluate(1000, model.ExpenseMap{model.Food: 100})
	out := RenderBatch([]BatchRow{
		{Label: "jan.json", Budget: 1000, Result: ok},
		{Label: "feb.json", Budget: 500, Err: errors.New(`invalid input: unknown category "Luxury"`)},
	})
	if !strings.Contains(out, "jan.json") || !strings.Contains(out, "Excellent") {
		t.Errorf("missing evaluated row:\n%s", out)
	}
	if !strings.Contains(out, "2 documents, 1 rejected") {
		t.Errorf("missing footer:\n%s", out)
	}
}

func TestWriteEncoded(t *testing.T) {
	res, err := pipeline.Evaluate(1000, model.ExpenseMap{model.Entertainment: 250})
	if err != nil {
		t.Fatal(err)
	}
	env := Envelope{Budget: 1000, Result: res}

	var buf bytes.Buffer
	if err := WriteEncoded(&buf, FormatJSON, env); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded struct {
		Budget float64        `json:"budget"`
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Result["tier"] != "Excellent" || decoded.Result["savingsPercentage"] != 75.0 {
		t.Fatalf("json result = %v", decoded.Result)
	}

	buf.Reset()
	if err := WriteEncoded(&buf, FormatYAML, env); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var y struct {
		Result struct {
			Insights []string `yaml:"insights"`
		} `yaml:"result"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &y); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if len(y.Result.Insights) != 1 || y.Result.Insights[0] != "Entertainment" {
		t.Fatalf("yaml insights = %v", y.Result.Insights)
	}

	if err := WriteEncoded(&buf, "xml", env); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
