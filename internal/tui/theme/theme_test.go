package theme

import (
	"testing"

	"github.com/theirongolddev/smartbudget/internal/model"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		th, ok := Lookup(name)
		if !ok || th.Name != name {
			t.Fatalf("Lookup(%q) = %q, %v", name, th.Name, ok)
		}
	}
	if _, ok := Lookup("solarized"); ok {
		t.Fatal("Lookup should reject unknown themes")
	}
	if got := ByName("solarized"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName fallback = %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestTierColor(t *testing.T) {
	th := TokyoNight
	if th.TierColor(model.TierExcellent) != th.Green {
		t.Error("Excellent should be green")
	}
	if th.TierColor(model.TierModerate) != th.Yellow {
		t.Error("Moderate should be yellow")
	}
	if th.TierColor(model.TierLow) != th.Red {
		t.Error("Low should be red")
	}
}

func TestCategoryColorIsStable(t *testing.T) {
	th := FlexokiDark
	set := model.DefaultCategories
	for i, c := range set {
		if got := th.CategoryColor(set, c); got != th.SeriesColor(i) {
			t.Fatalf("CategoryColor(%s) = %v, want %v", c, got, th.SeriesColor(i))
		}
	}
	if th.CategoryColor(set, "Luxury") != th.TextMuted {
		t.Fatal("unknown category should fall back to muted text")
	}
}
