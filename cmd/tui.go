package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/smartbudget/internal/config"
	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagNoSetup bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive budget dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagNoSetup, "no-setup", false, "Skip the first-run setup wizard")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	path := configFilePath()
	_, statErr := os.Stat(path)

	app := tui.NewApp(tui.Options{
		Config:    appCfg,
		Evaluator: pipeline.Default(),
		NeedSetup: os.IsNotExist(statErr) && !flagNoSetup,
		SaveConfig: func(cfg config.Config) error {
			return config.SaveTo(path, cfg)
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
