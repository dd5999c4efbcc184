package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SMARTBUDGET_THEME", "")
	t.Setenv("SMARTBUDGET_BUDGET", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	def := DefaultConfig()
	if cfg.Appearance.Theme != def.Appearance.Theme {
		t.Fatalf("Theme = %q, want %q", cfg.Appearance.Theme, def.Appearance.Theme)
	}
	if cfg.TUI.AnalyzeDelayMS != 2000 {
		t.Fatalf("AnalyzeDelayMS = %d, want 2000", cfg.TUI.AnalyzeDelayMS)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFrom_ParsesFile(t *testing.T) {
	t.Setenv("SMARTBUDGET_THEME", "")
	t.Setenv("SMARTBUDGET_BUDGET", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[budget]
monthly = 2500.5

[insights]
surface = ["Entertainment", "shopping"]

[appearance]
theme = "tokyo-night"

[tui]
analyze_delay_ms = 0
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Budget.Monthly == nil || *cfg.Budget.Monthly != 2500.5 {
		t.Fatalf("Budget.Monthly = %v, want 2500.5", cfg.Budget.Monthly)
	}
	if cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("Theme = %q", cfg.Appearance.Theme)
	}
	if cfg.TUI.AnalyzeDelayMS != 0 {
		t.Fatalf("AnalyzeDelayMS = %d, want 0", cfg.TUI.AnalyzeDelayMS)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.BatchWorkers != 8 {
		t.Fatalf("BatchWorkers = %d, want default 8", cfg.Server.BatchWorkers)
	}

	cats, err := cfg.SurfaceCategories()
	if err != nil {
		t.Fatalf("SurfaceCategories: %v", err)
	}
	if len(cats) != 2 || cats[1] != "Shopping" {
		t.Fatalf("SurfaceCategories = %v", cats)
	}
}

func TestLoadFrom_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[budget\nmonthly ="), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing error", err)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SMARTBUDGET_THEME", "terminal")
	t.Setenv("SMARTBUDGET_ADDR", ":9999")
	t.Setenv("SMARTBUDGET_LOG_LEVEL", "debug")
	t.Setenv("SMARTBUDGET_BUDGET", "1200")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Appearance.Theme != "terminal" || cfg.Server.Addr != ":9999" || cfg.Logging.Level != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Budget.Monthly == nil || *cfg.Budget.Monthly != 1200 {
		t.Fatalf("Budget.Monthly = %v, want 1200", cfg.Budget.Monthly)
	}
}

func TestLoadFrom_BadBudgetEnv(t *testing.T) {
	t.Setenv("SMARTBUDGET_BUDGET", "lots")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Fatal("expected error for non-numeric SMARTBUDGET_BUDGET")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	t.Setenv("SMARTBUDGET_THEME", "")
	t.Setenv("SMARTBUDGET_BUDGET", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	b := 900.0
	cfg.Budget.Monthly = &b
	cfg.Insights.Surface = []string{"Entertainment"}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perm = %v, want 0600", info.Mode().Perm())
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Budget.Monthly == nil || *got.Budget.Monthly != 900 {
		t.Fatalf("Budget.Monthly = %v", got.Budget.Monthly)
	}
	if len(got.Insights.Surface) != 1 || got.Insights.Surface[0] != "Entertainment" {
		t.Fatalf("Surface = %v", got.Insights.Surface)
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Appearance.Theme = "neon"
	cfg.General.DefaultFormat = "xml"
	cfg.Insights.Surface = []string{"Luxury"}
	cfg.Server.BatchWorkers = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"appearance.theme", "general.default_format", "insights.surface", "server.batch_workers", "logging.level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestValidate_NegativeBudget(t *testing.T) {
	t.Setenv("SMARTBUDGET_BUDGET", "-5")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "budget.monthly") {
		t.Fatalf("Validate = %v, want a budget.monthly error", err)
	}

	zero := 0.0
	cfg.Budget.Monthly = &zero
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero budget should validate: %v", err)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := ConfigPath(); got != filepath.Join(dir, "smartbudget", "config.toml") {
		t.Fatalf("ConfigPath = %q", got)
	}
}
