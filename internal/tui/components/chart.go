package components

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// ValueFormatter renders an amount for chart labels.
type ValueFormatter func(float64) string

// BreakdownChart renders one horizontal bar per category, scaled to the largest
// amount. Flagged categories get a warning marker after their value.
func BreakdownChart(shares []model.CategoryShare, set model.CategorySet, width int, format ValueFormatter) string {
	if len(shares) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	valueW := 0
	peak := 0.0
	for _, s := range shares {
		labelW = max(labelW, lipgloss.Width(string(s.Category)))
		valueW = max(valueW, lipgloss.Width(format(s.Amount)))
		peak = math.Max(peak, s.Amount)
	}

	// label + space + bar + space + value + marker
	barW := width - labelW - valueW - 4
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	flagStyle := lipgloss.NewStyle().Foreground(t.Orange).Bold(true)
	trackStyle := lipgloss.NewStyle().Foreground(t.SurfaceBright)

	var b strings.Builder
	for i, s := range shares {
		n := 0
		if peak > 0 && s.Amount > 0 {
			n = int(math.Round(s.Amount / peak * float64(barW)))
			if n == 0 {
				n = 1
			}
		}
		barStyle := lipgloss.NewStyle().Foreground(t.CategoryColor(set, s.Category))

		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, s.Category)))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", n)))
		b.WriteString(trackStyle.Render(strings.Repeat("·", barW-n)))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("%*s", valueW, format(s.Amount))))
		if s.Flagged {
			b.WriteString(flagStyle.Render(" ▲"))
		}
		if i < len(shares)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ShareBar renders the spending distribution as one stacked bar of exactly width
// cells. Cells are split by largest remainder so small shares are not lost to rounding.
func ShareBar(shares []model.CategoryShare, set model.CategorySet, width int) string {
	t := theme.Active
	if width <= 0 {
		return ""
	}

	cells := ShareCells(shares, width)
	if cells == nil {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render(strings.Repeat("░", width))
	}

	var b strings.Builder
	for i, s := range shares {
		if cells[i] == 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(t.CategoryColor(set, s.Category))
		b.WriteString(style.Render(strings.Repeat("█", cells[i])))
	}
	return b.String()
}

// ShareCells distributes width cells across shares in proportion to SharePercent.
// Returns nil when nothing was spent.
func ShareCells(shares []model.CategoryShare, width int) []int {
	total := 0.0
	for _, s := range shares {
		total += s.SharePercent
	}
	if total <= 0 || width <= 0 {
		return nil
	}

	cells := make([]int, len(shares))
	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, 0, len(shares))
	used := 0
	for i, s := range shares {
		exact := s.SharePercent / total * float64(width)
		cells[i] = int(exact)
		used += cells[i]
		rems = append(rems, rem{idx: i, frac: exact - float64(cells[i])})
	}

	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for i := 0; used < width && i < len(rems); i++ {
		if shares[rems[i].idx].SharePercent <= 0 {
			continue
		}
		cells[rems[i].idx]++
		used++
	}
	return cells
}

// ShareLegend lists each non-zero category with its color swatch and share,
// packed into rows no wider than width.
func ShareLegend(shares []model.CategoryShare, set model.CategorySet, width int, format func(float64) string) string {
	t := theme.Active
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var items []string
	for _, s := range shares {
		if s.Amount <= 0 {
			continue
		}
		sw := lipgloss.NewStyle().Foreground(t.CategoryColor(set, s.Category)).Render("■")
		items = append(items, sw+" "+textStyle.Render(fmt.Sprintf("%s %s", s.Category, format(s.SharePercent))))
	}
	if len(items) == 0 {
		return textStyle.Render("No spending recorded")
	}

	var lines []string
	line := ""
	for _, it := range items {
		switch {
		case line == "":
			line = it
		case lipgloss.Width(line)+3+lipgloss.Width(it) > width:
			lines = append(lines, line)
			line = it
		default:
			line += "   " + it
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
