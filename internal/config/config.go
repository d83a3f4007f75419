package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Page loading
	PageTimeout   time.Duration
	WaitTimeout   time.Duration
	SettleDelay   time.Duration
	ContainerID   string
	ReadySelector string

	// Browser
	UserAgent       string
	Proxy           string
	ChromePath      string
	BrowserHeadless bool
	WindowSize      string

	// Output
	OutputDir    string
	OutputFormat string
	PreviewRows  int

	// Rate limiting between sources on one host
	RateLimitRPS   float64
	RateLimitBurst int
}

// Default returns a Config populated with the package defaults.
func Default() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		JSONLog:         DefaultJSONLog,
		PageTimeout:     DefaultPageTimeout,
		WaitTimeout:     DefaultWaitTimeout,
		SettleDelay:     DefaultSettleDelay,
		ContainerID:     DefaultContainerID,
		ReadySelector:   DefaultReadySelector,
		UserAgent:       DefaultUserAgent,
		BrowserHeadless: DefaultBrowserHeadless,
		WindowSize:      DefaultWindowSize,
		OutputDir:       DefaultOutputDir,
		OutputFormat:    DefaultOutputFormat,
		PreviewRows:     DefaultPreviewRows,
		RateLimitRPS:    DefaultRateLimitRPS,
		RateLimitBurst:  DefaultRateLimitBurst,
	}
}

// Load builds a Config by combining defaults, environment variables, and CLI flags.
// Caller should pass the command being run so its flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	if v := os.Getenv("ADP_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("ADP_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ADP_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("ADP_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	if cmd != nil {
		if err := applyFlags(cmd, cfg); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()
	changed := func(name string) (string, bool) {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			return "", false
		}
		return f.Value.String(), true
	}

	if v, ok := changed("verbose"); ok && v == "true" {
		cfg.LogLevel = "debug"
	}
	if v, ok := changed("quiet"); ok && v == "true" {
		cfg.LogLevel = "error"
	}
	if v, ok := changed("json"); ok {
		cfg.JSONLog = v == "true"
	}
	if v, ok := changed("user-agent"); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := changed("proxy"); ok {
		cfg.Proxy = v
	}
	if v, ok := changed("chrome-path"); ok {
		cfg.ChromePath = v
	}
	if v, ok := changed("headless"); ok {
		cfg.BrowserHeadless = v == "true"
	}
	if v, ok := changed("out-dir"); ok {
		cfg.OutputDir = v
	}
	if v, ok := changed("format"); ok {
		cfg.OutputFormat = v
	}

	durations := map[string]*time.Duration{
		"timeout":      &cfg.PageTimeout,
		"wait-timeout": &cfg.WaitTimeout,
		"settle":       &cfg.SettleDelay,
	}
	for name, dst := range durations {
		if v, ok := changed(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid --%s %q: %w", name, v, err)
			}
			*dst = d
		}
	}

	if v, ok := changed("preview"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid --preview %q: %w", v, err)
		}
		cfg.PreviewRows = n
	}
	return nil
}
