package config

import (
	"fmt"
	"regexp"
)

var windowSizePattern = regexp.MustCompile(`^\d+,\d+$`)

func validate(c *Config) error {
	if c.PageTimeout <= 0 {
		return fmt.Errorf("page timeout must be > 0")
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be > 0")
	}
	if c.WaitTimeout > c.PageTimeout {
		return fmt.Errorf("wait timeout (%s) must not exceed page timeout (%s)", c.WaitTimeout, c.PageTimeout)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay must be >= 0")
	}
	if c.PreviewRows < 0 {
		return fmt.Errorf("preview rows must be >= 0")
	}
	switch c.OutputFormat {
	case "csv", "json":
	default:
		return fmt.Errorf("output format must be csv or json, got %q", c.OutputFormat)
	}
	if c.WindowSize != "" && !windowSizePattern.MatchString(c.WindowSize) {
		return fmt.Errorf("window size must look like 1920,1080, got %q", c.WindowSize)
	}
	if c.ContainerID == "" || c.ReadySelector == "" {
		return fmt.Errorf("container id and ready selector are required")
	}
	return nil
}
