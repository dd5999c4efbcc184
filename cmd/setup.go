package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/smartbudget/internal/config"
	"github.com/theirongolddev/smartbudget/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	vals := tui.NewSetupValues(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if err := vals.Apply(&cfg); err != nil {
		return err
	}

	path := configFilePath()
	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logger.Info("config saved", zap.String("op", "cmd.runSetup"), zap.String("path", path))

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `smartbudget setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
