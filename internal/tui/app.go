// Package tui provides the interactive Bubble Tea budget dashboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/smartbudget/internal/cli"
	"github.com/theirongolddev/smartbudget/internal/config"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/tui/components"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// AnalyzedMsg is sent when an evaluation finishes.
type AnalyzedMsg struct {
	Budget   float64
	Expenses model.ExpenseMap
	Result   model.Result
	Err      error
}

type appState int

const (
	stateSetup appState = iota
	stateEntry
	stateAnalyzing
	stateResults
)

// Options configures a new dashboard.
type Options struct {
	Config     config.Config
	Evaluator  *pipeline.Evaluator
	NeedSetup  bool
	SaveConfig func(config.Config) error // nil disables persisting setup answers
}

// App is the root Bubble Tea model.
type App struct {
	cfg        config.Config
	ev         *pipeline.Evaluator
	saveConfig func(config.Config) error
	surface    []model.Category
	delay      time.Duration

	state appState

	// Forms
	setupForm *huh.Form
	setupVals *SetupValues
	entryForm *huh.Form
	entryVals *entryValues
	entryErr  error

	// Last evaluation
	budget   float64
	expenses model.ExpenseMap
	result   model.Result
	shares   []model.CategoryShare
	hasRun   bool

	// UI state
	width        int
	height       int
	activeTab    int
	showHelp     bool
	sortByAmount bool
	spinner      spinner.Model
}

const (
	minTerminalWidth = 60
	compactWidth     = 100
	maxContentWidth  = 140

	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	ev := opts.Evaluator
	if ev == nil {
		ev = pipeline.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	surface, err := opts.Config.SurfaceCategories()
	if err != nil {
		surface = nil
	}

	a := App{
		cfg:        opts.Config,
		ev:         ev,
		saveConfig: opts.SaveConfig,
		surface:    surface,
		delay:      time.Duration(opts.Config.TUI.AnalyzeDelayMS) * time.Millisecond,
		spinner:    sp,
	}

	if opts.NeedSetup {
		a.state = stateSetup
		a.setupVals = NewSetupValues(opts.Config)
		a.setupForm = NewSetupForm(a.setupVals)
	} else {
		a.openEntry()
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if f := a.activeForm(); f != nil {
		cmds = append(cmds, f.Init())
	}
	return tea.Batch(cmds...)
}

// openEntry shows the budget entry form, pre-filled from the last run or the
// configured default budget.
func (a *App) openEntry() {
	set := a.ev.Categories()
	budget := a.cfg.Budget.Monthly
	if a.hasRun {
		b := a.budget
		budget = &b
	}
	a.entryVals = newEntryValues(set, budget, a.expenses)
	a.entryForm = newEntryForm(set, a.entryVals)
	if a.width > 0 {
		a.entryForm = a.entryForm.WithWidth(a.formWidth()).WithHeight(a.height - 4)
	}
	a.state = stateEntry
}

func (a App) activeForm() *huh.Form {
	switch a.state {
	case stateSetup:
		return a.setupForm
	case stateEntry:
		return a.entryForm
	}
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(a.formWidth()).WithHeight(msg.Height - 4)
		}
		if a.entryForm != nil {
			a.entryForm = a.entryForm.WithWidth(a.formWidth()).WithHeight(msg.Height - 4)
		}
		return a, nil

	case tea.MouseMsg:
		if a.state != stateResults || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.state {
		case stateSetup:
			return a.updateSetupForm(msg)
		case stateEntry:
			if key == "esc" && a.hasRun {
				a.entryForm = nil
				a.state = stateResults
				return a, nil
			}
			return a.updateEntryForm(msg)
		case stateAnalyzing:
			return a, nil
		}

		return a.updateResultsKey(key)

	case AnalyzedMsg:
		if msg.Err != nil {
			a.entryErr = msg.Err
			a.openEntry()
			return a, a.entryForm.Init()
		}
		a.budget = msg.Budget
		a.expenses = msg.Expenses
		a.result = msg.Result
		a.shares = a.ev.Breakdown(msg.Budget, msg.Expenses)
		a.hasRun = true
		a.entryErr = nil
		a.state = stateResults
		return a, nil

	case spinner.TickMsg:
		if a.state == stateAnalyzing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	switch a.state {
	case stateSetup:
		return a.updateSetupForm(msg)
	case stateEntry:
		return a.updateEntryForm(msg)
	}

	return a, nil
}

func (a App) updateResultsKey(key string) (tea.Model, tea.Cmd) {
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "e", "enter":
		a.openEntry()
		return a, a.entryForm.Init()
	case "s":
		a.sortByAmount = !a.sortByAmount
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		err := a.setupVals.Apply(&a.cfg)
		if err == nil {
			theme.SetActive(a.cfg.Appearance.Theme)
			if s, serr := a.cfg.SurfaceCategories(); serr == nil {
				a.surface = s
			}
			if a.saveConfig != nil {
				err = a.saveConfig(a.cfg)
			}
		}
		if err != nil {
			a.entryErr = fmt.Errorf("settings not saved: %w", err)
		}
		a.setupForm = nil
		a.openEntry()
		return a, a.entryForm.Init()

	case huh.StateAborted:
		a.setupForm = nil
		a.openEntry()
		return a, a.entryForm.Init()
	}

	return a, cmd
}

func (a App) updateEntryForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.entryForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.entryForm = f
	}

	switch a.entryForm.State {
	case huh.StateCompleted:
		budget, expenses, err := a.entryVals.request(a.ev.Categories())
		if err != nil {
			a.entryErr = err
			a.openEntry()
			return a, a.entryForm.Init()
		}
		a.entryForm = nil
		a.state = stateAnalyzing
		return a, tea.Batch(a.spinner.Tick, analyzeCmd(a.ev, budget, expenses, a.delay))

	case huh.StateAborted:
		if a.hasRun {
			a.entryForm = nil
			a.state = stateResults
			return a, nil
		}
		return a, tea.Quit
	}

	return a, cmd
}

// analyzeCmd evaluates after delay. The pause only exists so the spinner is seen.
func analyzeCmd(ev *pipeline.Evaluator, budget float64, expenses model.ExpenseMap, delay time.Duration) tea.Cmd {
	evaluate := func() tea.Msg {
		res, err := ev.Evaluate(budget, expenses)
		return AnalyzedMsg{Budget: budget, Expenses: expenses, Result: res, Err: err}
	}
	if delay <= 0 {
		return evaluate
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return evaluate()
	})
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) formWidth() int {
	w := a.width - 8
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	switch a.state {
	case stateSetup:
		return a.viewForm(a.setupForm, "First-run setup", nil)
	case stateEntry:
		return a.viewForm(a.entryForm, "Enter your budget", a.entryErr)
	case stateAnalyzing:
		return a.viewAnalyzing()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  smartbudget needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm(form *huh.Form, subtitle string, formErr error) string {
	t := theme.Active

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ smartbudget"))
	b.WriteString(subtitleStyle.Render(" · " + subtitle))
	b.WriteString("\n\n")
	if formErr != nil {
		b.WriteString(errStyle.Render("✗ " + formErr.Error()))
		b.WriteString("\n\n")
	}
	if form != nil {
		b.WriteString(form.View())
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (a App) viewAnalyzing() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ smartbudget"))
	b.WriteString(subtitleStyle.Render(" · Smart Budget Analysis"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Analyzing your budget..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"o b i", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"Tab", "Next tab"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"e", "Edit budget and expenses"},
		{"s", "Sort breakdown by amount"},
		{"Esc", "Back to results (while editing)"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + budget pill
	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	pillAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	tierStyle := lipgloss.NewStyle().
		Foreground(t.TierColor(a.result.Tier)).
		Background(t.Surface).
		Bold(true)

	pill := pillStyle.Render(" budget ") +
		pillAccentStyle.Render(cli.FormatMoney(a.budget)) +
		pillStyle.Render(" │ ") +
		tierStyle.Render(cli.TierGlyph(a.result.Tier)+" "+string(a.result.Tier)) +
		pillStyle.Render(" ")

	pillRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		pillRowStyle.Render(pill)

	// 2. Status bar
	hints := []components.KeyHint{
		{Key: "e", Desc: "dit"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "uit"},
	}
	if a.activeTab == 1 {
		hints = append(hints, components.KeyHint{Key: "s", Desc: "ort"})
	}
	statusBar := components.RenderStatusBar(w, hints, cli.SummaryLine(a.result))

	// 3. Content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case 0:
		content = a.renderOverviewTab(cw)
	case 1:
		content = a.renderBreakdownTab(cw)
	case 2:
		content = a.renderInsightsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line so gaps between cards get the background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// One column separator between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
