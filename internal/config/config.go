package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all smartbudget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Insights   InsightsConfig   `toml:"insights"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultFormat string `toml:"default_format"`
}

// BudgetConfig holds the optional default monthly budget.
type BudgetConfig struct {
	Monthly *float64 `toml:"monthly,omitempty"`
}

// InsightsConfig chooses which flagged categories presenters show.
// An empty list shows every flagged category.
type InsightsConfig struct {
	Surface []string `toml:"surface"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds interactive dashboard settings.
type TUIConfig struct {
	AnalyzeDelayMS int `toml:"analyze_delay_ms"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
	BatchWorkers int    `toml:"batch_workers"`
}

// LoggingConfig holds zap logger settings.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	OutputFile string `toml:"output_file,omitempty"`
}

// Output formats accepted by analyze.
var Formats = []string{"table", "json", "yaml"}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultFormat: "table",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AnalyzeDelayMS: 2000,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			MaxBodyBytes: 1 << 20,
			BatchWorkers: 8,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "smartbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "smartbudget")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, then applies .env and environment overrides.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SMARTBUDGET_THEME"); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv("SMARTBUDGET_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SMARTBUDGET_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SMARTBUDGET_BUDGET"); v != "" {
		b, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("SMARTBUDGET_BUDGET: %w", err)
		}
		cfg.Budget.Monthly = &b
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate reports every problem with cfg at once.
func (c Config) Validate() error {
	var errs []error

	if _, ok := theme.Lookup(c.Appearance.Theme); !ok {
		errs = append(errs, fmt.Errorf("appearance.theme: unknown theme %q", c.Appearance.Theme))
	}
	if !validFormat(c.General.DefaultFormat) {
		errs = append(errs, fmt.Errorf("general.default_format: must be one of %s", strings.Join(Formats, ", ")))
	}
	if c.Budget.Monthly != nil && *c.Budget.Monthly < 0 {
		errs = append(errs, errors.New("budget.monthly: must be >= 0"))
	}
	if _, err := c.SurfaceCategories(); err != nil {
		errs = append(errs, err)
	}
	if c.TUI.AnalyzeDelayMS < 0 {
		errs = append(errs, errors.New("tui.analyze_delay_ms: must be >= 0"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes: must be > 0"))
	}
	if c.Server.BatchWorkers <= 0 {
		errs = append(errs, errors.New("server.batch_workers: must be > 0"))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// SurfaceCategories resolves insights.surface against the default category set.
func (c Config) SurfaceCategories() ([]model.Category, error) {
	out := make([]model.Category, 0, len(c.Insights.Surface))
	for _, name := range c.Insights.Surface {
		cat, ok := model.DefaultCategories.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("insights.surface: unknown category %q", name)
		}
		out = append(out, cat)
	}
	return out, nil
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}
