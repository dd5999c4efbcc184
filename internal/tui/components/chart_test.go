package components

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"
)

func sampleShares() []model.CategoryShare {
	return []model.CategoryShare{
		{Category: model.Food, Amount: 400, SharePercent: 26.666, Flagged: false},
		{Category: model.Rent, Amount: 800, SharePercent: 53.333, Flagged: true},
		{Category: model.Entertainment, Amount: 300, SharePercent: 20.001},
		{Category: model.Savings, Amount: 0, SharePercent: 0},
	}
}

func plainMoney(v float64) string { return fmt.Sprintf("$%.0f", v) }

func TestShareCellsSumToWidth(t *testing.T) {
	for _, width := range []int{1, 7, 40, 83} {
		cells := ShareCells(sampleShares(), width)
		sum := 0
		for _, c := range cells {
			sum += c
		}
		if sum != width {
			t.Fatalf("width %d: cells sum to %d (%v)", width, sum, cells)
		}
		if cells[3] != 0 {
			t.Fatalf("width %d: zero share got %d cells", width, cells[3])
		}
	}
}

func TestShareCellsNothingSpent(t *testing.T) {
	if cells := ShareCells([]model.CategoryShare{{Category: model.Food}}, 20); cells != nil {
		t.Fatalf("cells = %v, want nil", cells)
	}
}

func TestShareBarWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	bar := ShareBar(sampleShares(), model.DefaultCategories, 50)
	if w := lipgloss.Width(bar); w != 50 {
		t.Fatalf("ShareBar width = %d, want 50", w)
	}
	empty := ShareBar(nil, model.DefaultCategories, 12)
	if w := lipgloss.Width(empty); w != 12 {
		t.Fatalf("empty ShareBar width = %d, want 12", w)
	}
}

func TestBreakdownChartRows(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := BreakdownChart(sampleShares(), model.DefaultCategories, 60, plainMoney)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if !strings.Contains(lines[1], "Rent") || !strings.Contains(lines[1], "$800") || !strings.Contains(lines[1], "▲") {
		t.Errorf("Rent row missing label, value or flag: %q", lines[1])
	}
	if strings.Contains(lines[0], "▲") {
		t.Errorf("Food row should not be flagged: %q", lines[0])
	}
	// Unflagged rows share one width; the flag adds two cells.
	if lipgloss.Width(lines[0]) != lipgloss.Width(lines[2]) {
		t.Errorf("row widths differ: %d vs %d", lipgloss.Width(lines[0]), lipgloss.Width(lines[2]))
	}
}

func TestShareLegendSkipsZero(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := ShareLegend(sampleShares(), model.DefaultCategories, 200, func(f float64) string { return fmt.Sprintf("%.0f%%", f) })
	if strings.Contains(out, "Savings") {
		t.Fatalf("legend lists zero-spend category: %q", out)
	}
	if !strings.Contains(out, "Rent 53%") {
		t.Fatalf("legend missing Rent share: %q", out)
	}

	narrow := ShareLegend(sampleShares(), model.DefaultCategories, 20, func(f float64) string { return fmt.Sprintf("%.0f%%", f) })
	if len(strings.Split(narrow, "\n")) < 2 {
		t.Fatalf("narrow legend should wrap: %q", narrow)
	}
}

func TestSavingsBarShowsRealValue(t *testing.T) {
	theme.SetActive("flexoki-dark")
	over := SavingsBar(-50, model.TierLow, 20)
	if !strings.Contains(over, "-50.0%") {
		t.Fatalf("bar label should keep negative value: %q", over)
	}
	full := SavingsBar(150, model.TierExcellent, 20)
	if !strings.Contains(full, "150.0%") {
		t.Fatalf("bar label should keep value above 100: %q", full)
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-0.5, 0}, {0.25, 0.25}, {1.7, 1},
	}
	for _, tt := range tests {
		if got := clampUnit(tt.in); got != tt.want {
			t.Errorf("clampUnit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should return -1")
	}
}
