package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/cli"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	path := configFilePath()

	fmt.Printf("  Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default format: %s\n", cfg.General.DefaultFormat)
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.Monthly != nil {
		fmt.Printf("    Monthly budget: %s\n", cli.FormatMoney(*cfg.Budget.Monthly))
	} else {
		fmt.Println("    Monthly budget: not set")
	}
	fmt.Println()

	fmt.Println("  [Insights]")
	if len(cfg.Insights.Surface) == 0 {
		fmt.Println("    Surface: all categories")
	} else {
		fmt.Printf("    Surface: %s\n", strings.Join(cfg.Insights.Surface, ", "))
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Analyze delay: %dms\n", cfg.TUI.AnalyzeDelayMS)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:        %s\n", cfg.Server.Addr)
	fmt.Printf("    Max body bytes: %d\n", cfg.Server.MaxBodyBytes)
	fmt.Printf("    Batch workers:  %d\n", cfg.Server.BatchWorkers)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	if cfg.Logging.OutputFile != "" {
		fmt.Printf("    File:   %s\n", cfg.Logging.OutputFile)
	}
	fmt.Println()

	fmt.Println("  Environment overrides: SMARTBUDGET_THEME, SMARTBUDGET_ADDR, SMARTBUDGET_LOG_LEVEL, SMARTBUDGET_BUDGET")
	fmt.Println("  Run `smartbudget setup` to reconfigure.")
	return nil
}
