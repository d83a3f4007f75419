package dynamic

import (
	"context"
	"sync"
	"time"

	"github.com/bestball/adp/internal/engine"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// SessionOptions configures the browser process
type SessionOptions struct {
	ChromePath string
	Headless   bool
	UserAgent  string
	Proxy      string
	WindowSize string // "width,height"
	ExtraArgs  []chromedp.ExecAllocatorOption
}

// Session owns one browser process. Open starts it and Close releases it;
// every Open must be paired with exactly one Close, which is safe to call
// more than once.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
	closeErr    error
	execPath    string
}

// allocatorOptions builds the exec allocator flags for opts
func allocatorOptions(opts SessionOptions, execPath string) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("log-level", "3"),
	}

	if execPath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(execPath)}, allocOpts...)
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.WindowSize != "" {
		allocOpts = append(allocOpts, chromedp.Flag("window-size", opts.WindowSize))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	return append(allocOpts, opts.ExtraArgs...)
}

// Open launches the browser. The returned Session stays alive until Close
// is called or ctx is cancelled.
func Open(ctx context.Context, opts SessionOptions) (*Session, error) {
	start := time.Now()
	execPath := FindChrome(opts.ChromePath)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(opts, execPath)...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the process so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, engine.Classify(err, false).WithDetail("exec_path", execPath)
	}

	// --version spawns a process, so only ask for it when debugging
	if ev := log.Debug(); ev.Enabled() {
		ev.Str("exec_path", execPath).
			Str("version", BrowserVersion(execPath)).
			Bool("headless", opts.Headless).
			Dur("elapsed_ms", time.Since(start)).
			Msg("Browser started")
	}

	return &Session{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		execPath:    execPath,
	}, nil
}

// ExecPath returns the browser binary in use ("" when chromedp chose it).
func (s *Session) ExecPath() string {
	return s.execPath
}

// NewTab opens a tab in the session's browser. Cancel the returned
// function to close the tab.
func (s *Session) NewTab() (context.Context, context.CancelFunc) {
	return chromedp.NewContext(s.ctx)
}

// Close shuts the browser down and waits for the process to exit.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.cancel()
		s.allocCancel()
		if s.closeErr != nil {
			log.Warn().Err(s.closeErr).Msg("Error closing browser")
		} else {
			log.Debug().Msg("Browser closed")
		}
	})
	return s.closeErr
}
