package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	DefaultSourceName = "underdog"
	DefaultSourceURL  = "https://www.draftsharks.com/adp/underdog"

	DefaultContainerID   = "adp-table-container"
	DefaultReadySelector = ".player-name"

	DefaultPageTimeout = 60 * time.Second
	DefaultWaitTimeout = 15 * time.Second
	DefaultSettleDelay = 3 * time.Second

	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0"
	DefaultBrowserHeadless = true
	DefaultWindowSize      = "1920,1080"

	DefaultOutputDir    = "."
	DefaultOutputFormat = "csv"
	DefaultPreviewRows  = 10

	DefaultRateLimitRPS   = 0.2
	DefaultRateLimitBurst = 1
)
