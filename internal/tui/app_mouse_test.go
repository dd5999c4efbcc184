package tui

import "testing"

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := 0; active < 3; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < 3; i++ {
			w := tabWidthForTest(i)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < 2 {
				pos++ // separator
			}
		}
	}
}

func TestTabAtXOutsideTabs(t *testing.T) {
	a := App{}
	if got := a.tabAtX(500); got != -1 {
		t.Fatalf("tabAtX(500) = %d, want -1", got)
	}
	// The separator after Overview belongs to no tab.
	if got := a.tabAtX(tabWidthForTest(0)); got != -1 {
		t.Fatalf("tabAtX(separator) = %d, want -1", got)
	}
}

func tabWidthForTest(tabIdx int) int {
	nameWidths := []int{
		len("Overview"),
		len("Breakdown"),
		len("Insights"),
	}
	return nameWidths[tabIdx] + 2 // horizontal padding in tab renderer
}
