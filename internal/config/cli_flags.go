package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all log output except errors")
	pf.Bool("json", false, "Write logs as JSON lines")
	pf.String("out-dir", DefaultOutputDir, "Directory for snapshot files")
}

// RegisterScrapeFlags registers the browser and page flags used when scraping
func RegisterScrapeFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	f := cmd.Flags()
	f.String("proxy", "", "Set HTTP/SOCKS5 proxy for the browser (e.g., http://localhost:8080)")
	f.String("timeout", DefaultPageTimeout.String(), "Hard timeout for loading one page")
	f.String("wait-timeout", DefaultWaitTimeout.String(), "How long to wait for the table to render")
	f.String("settle", DefaultSettleDelay.String(), "Extra delay after the table renders")
	f.String("user-agent", "", "Custom user agent string")
	f.String("chrome-path", "", "Path to a Chrome, Chromium or Edge binary")
	f.Bool("headless", DefaultBrowserHeadless, "Run the browser without a window")
	f.String("format", DefaultOutputFormat, "Output format: csv or json")
	f.Int("preview", DefaultPreviewRows, "Number of players to preview (0 disables)")
}
