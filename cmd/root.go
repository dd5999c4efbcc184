// Package cmd implements the smartbudget CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/smartbudget/internal/config"
	"github.com/theirongolddev/smartbudget/internal/logging"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfigPath string
	flagQuiet      bool
	flagLogLevel   string
)

// Populated by loadRuntime before any command runs.
var (
	appCfg config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "smartbudget",
	Short: "Smart budget calculator",
	Long: "Check a monthly budget against what you spent: totals, savings score,\n" +
		"and which categories eat more than 20% of the budget.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runAnalyze,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	addAnalyzeFlags(rootCmd)
}

// loadRuntime reads config, applies the theme, and builds the logger.
func loadRuntime(_ *cobra.Command, _ []string) error {
	path := flagConfigPath
	if path == "" {
		path = config.ConfigPath()
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s:\n%w", path, err)
	}
	appCfg = cfg

	theme.SetActive(cfg.Appearance.Theme)

	if flagQuiet {
		logger = logging.Quiet()
	} else {
		l, err := logging.New(cfg.Logging, flagLogLevel)
		if err != nil {
			return err
		}
		logger = l
	}
	logger.Debug("config loaded", zap.String("op", "cmd.loadRuntime"), zap.String("path", path))
	return nil
}

// configFilePath is the file the current run reads and writes.
func configFilePath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	return config.ConfigPath()
}

// errRejected marks a run where some documents failed validation. The details
// were already printed.
var errRejected = errors.New("some documents were rejected")
