package components

import (
	"strings"

	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the results view.
type Tab struct {
	Name string
	Key  rune // shortcut; always the first letter of Name, lower-cased
}

// Tabs defines the result tabs in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Breakdown", Key: 'b'},
	{Name: "Insights", Key: 'i'},
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Padding(0, 1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	var parts []string
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		// Shortcut letter highlighted in place, so width matches the active tab.
		parts = append(parts, inactiveStyle.Render(keyStyle.Render(tab.Name[:1])+tab.Name[1:]))
	}

	row := strings.Join(parts, " ")
	return lipgloss.NewStyle().Width(width).Render(row)
}

// TabVisualWidth is the rendered width of one tab, padding included.
func TabVisualWidth(tab Tab, _ bool) int {
	return lipgloss.Width(tab.Name) + 2
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
