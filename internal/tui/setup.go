package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/smartbudget/internal/cli"
	"github.com/theirongolddev/smartbudget/internal/config"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the first-run wizard.
type SetupValues struct {
	Theme   string
	Budget  string
	Surface []string
}

// NewSetupValues seeds the wizard from an existing config.
func NewSetupValues(cfg config.Config) *SetupValues {
	v := &SetupValues{
		Theme:   cfg.Appearance.Theme,
		Surface: append([]string(nil), cfg.Insights.Surface...),
	}
	if cfg.Budget.Monthly != nil {
		v.Budget = strconv.FormatFloat(*cfg.Budget.Monthly, 'f', -1, 64)
	}
	return v
}

// NewSetupForm builds the first-run wizard. It is shared by the dashboard and
// the setup command.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	catOpts := make([]huh.Option[string], 0, len(model.DefaultCategories))
	for _, c := range model.DefaultCategories {
		catOpts = append(catOpts, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to smartbudget").
				Description("A couple of defaults and you're set.\nRun `smartbudget setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewInput().
				Title("Default monthly budget").
				Description("Pre-fills the budget field. Leave blank for none.").
				Placeholder("e.g. 2,500").
				Value(&vals.Budget).
				Validate(validateAmount),
			huh.NewMultiSelect[string]().
				Title("Categories to surface in insights").
				Description("Select none to see every flagged category.").
				Options(catOpts...).
				Value(&vals.Surface),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// Apply copies the wizard answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) error {
	if _, ok := theme.Lookup(v.Theme); ok {
		cfg.Appearance.Theme = v.Theme
	}

	cfg.Budget.Monthly = nil
	if v.Budget != "" {
		b, err := cli.ParseAmount(v.Budget)
		if err != nil {
			return fmt.Errorf("default budget: %w", err)
		}
		cfg.Budget.Monthly = &b
	}

	cfg.Insights.Surface = append([]string(nil), v.Surface...)
	return nil
}

// entryValues backs the budget entry form. Amounts is parallel to the category set.
type entryValues struct {
	Budget  string
	Amounts []string
}

func newEntryValues(set model.CategorySet, budget *float64, prev model.ExpenseMap) *entryValues {
	v := &entryValues{Amounts: make([]string, len(set))}
	if budget != nil {
		v.Budget = strconv.FormatFloat(*budget, 'f', -1, 64)
	}
	for i, c := range set {
		if amt, ok := prev[c]; ok {
			v.Amounts[i] = strconv.FormatFloat(amt, 'f', -1, 64)
		}
	}
	return v
}

func newEntryForm(set model.CategorySet, vals *entryValues) *huh.Form {
	expenseFields := make([]huh.Field, 0, len(set))
	for i, c := range set {
		expenseFields = append(expenseFields, huh.NewInput().
			Title(string(c)).
			Placeholder("0").
			Value(&vals.Amounts[i]).
			Validate(validateAmount))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly budget").
				Description("Your total income or spending ceiling for the month.").
				Placeholder("e.g. 2,500").
				Value(&vals.Budget).
				Validate(validateAmount),
		),
		huh.NewGroup(expenseFields...).
			Title("Expenses").
			Description("What you spent per category. Blank counts as zero."),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// request converts the form strings into evaluator input.
func (v *entryValues) request(set model.CategorySet) (float64, model.ExpenseMap, error) {
	budget, err := cli.ParseAmount(v.Budget)
	if err != nil {
		return 0, nil, fmt.Errorf("budget: %w", err)
	}

	expenses := make(model.ExpenseMap, len(set))
	for i, c := range set {
		amt, err := cli.ParseAmount(v.Amounts[i])
		if err != nil {
			return 0, nil, fmt.Errorf("%s: %w", c, err)
		}
		expenses[c] = amt
	}
	return budget, expenses, nil
}

var errNegative = errors.New("must not be negative")

func validateAmount(s string) error {
	v, err := cli.ParseAmount(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return errNegative
	}
	return nil
}
