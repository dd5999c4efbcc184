package components

import (
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// KeyHint is one "[key] action" pair in the status bar.
type KeyHint struct {
	Key, Desc string
}

// RenderStatusBar renders the bottom status bar: key hints on the left, right text flush right.
func RenderStatusBar(width int, hints []KeyHint, right string) string {
	t := theme.Active

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	rightStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	left := " "
	for i, h := range hints {
		if i > 0 {
			left += "  "
		}
		left += keyStyle.Render("["+h.Key+"]") + descStyle.Render(h.Desc)
	}

	rendered := rightStyle.Render(right + " ")
	padding := width - lipgloss.Width(left) - lipgloss.Width(rendered)
	if padding < 1 {
		return lipgloss.NewStyle().MaxWidth(width).Render(left)
	}

	return left + lipgloss.NewStyle().Width(padding).Render("") + rendered
}
