package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func newCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	RegisterFlags(cmd)
	RegisterScrapeFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADP_USER_AGENT", "")
	t.Setenv("ADP_OUTPUT_DIR", "")

	cfg, err := Load(newCmd(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WaitTimeout != 15*time.Second || cfg.SettleDelay != 3*time.Second {
		t.Errorf("unexpected wait defaults: %s / %s", cfg.WaitTimeout, cfg.SettleDelay)
	}
	if cfg.PreviewRows != 10 || cfg.OutputFormat != "csv" || cfg.OutputDir != "." {
		t.Errorf("unexpected output defaults: %+v", cfg)
	}
	if !strings.Contains(cfg.UserAgent, "Edg/") {
		t.Errorf("default user agent should identify as Edge, got %q", cfg.UserAgent)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_EnvThenFlags(t *testing.T) {
	t.Setenv("ADP_USER_AGENT", "EnvAgent")
	t.Setenv("ADP_OUTPUT_DIR", "/env/dir")
	t.Setenv("ADP_PROXY", "http://env:1")

	cfg, err := Load(newCmd(t, "--out-dir", "/flag/dir", "--wait-timeout", "5s", "--preview", "3", "-v", "--headless=false"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UserAgent != "EnvAgent" {
		t.Errorf("UserAgent = %q, want env value", cfg.UserAgent)
	}
	if cfg.Proxy != "http://env:1" {
		t.Errorf("Proxy = %q, want env value", cfg.Proxy)
	}
	if cfg.OutputDir != "/flag/dir" {
		t.Errorf("OutputDir = %q, flag should win over env", cfg.OutputDir)
	}
	if cfg.WaitTimeout != 5*time.Second || cfg.PreviewRows != 3 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.BrowserHeadless {
		t.Errorf("LogLevel=%q headless=%v", cfg.LogLevel, cfg.BrowserHeadless)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := [][]string{
		{"--timeout", "nope"},
		{"--wait-timeout", "2m"},
		{"--format", "xml"},
		{"--preview=-1"},
		{"--settle=-1s"},
	}
	for _, args := range tests {
		if _, err := Load(newCmd(t, args...)); err == nil {
			t.Errorf("expected Load(%v) to fail", args)
		}
	}
}

func TestValidate_WindowSize(t *testing.T) {
	cfg := Default()
	cfg.WindowSize = "big"
	if err := validate(cfg); err == nil {
		t.Error("expected invalid window size to fail")
	}
	cfg.WindowSize = "1280,720"
	if err := validate(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
