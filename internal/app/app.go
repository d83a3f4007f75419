// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bestball/adp/internal/config"
	"github.com/bestball/adp/internal/engine"
	"github.com/bestball/adp/internal/engine/dynamic"
	"github.com/bestball/adp/internal/engine/static"
	"github.com/bestball/adp/internal/extract"
	"github.com/bestball/adp/internal/ratelimit"
	"github.com/bestball/adp/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command run. The browser is not part of it: a
// browser Session is opened per scrape with OpenBrowser and must be closed
// by the caller.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	RateLimiter ratelimit.RateLimiter
	HTTPClient  *http.Client
	Extractor   *extract.Extractor
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := configureLogging(cfg)

	extractor, err := extract.New(extract.DefaultLayout())
	if err != nil {
		return nil, err
	}

	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	httpClient := &http.Client{
		Timeout: cfg.PageTimeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
	}

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		RateLimiter: rateLimiter,
		HTTPClient:  httpClient,
		Extractor:   extractor,
		startTime:   time.Now(),
	}

	logger.Debug().Msg("Application initialized")
	return app, nil
}

// configureLogging sets the global zerolog level and output from cfg
func configureLogging(cfg *config.Config) zerolog.Logger {
	// "info" is the quiet default: info logs only show with -v
	level := zerolog.WarnLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	if cfg.JSONLog {
		w = os.Stderr
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	log.Logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return log.Logger
}

// OpenBrowser launches a browser with the configured options. The caller
// owns the returned Session and must Close it on every path.
func (a *Application) OpenBrowser(ctx context.Context) (*dynamic.Session, error) {
	return dynamic.Open(ctx, dynamic.SessionOptions{
		ChromePath: a.Config.ChromePath,
		Headless:   a.Config.BrowserHeadless,
		UserAgent:  a.Config.UserAgent,
		Proxy:      a.Config.Proxy,
		WindowSize: a.Config.WindowSize,
	})
}

// BrowserLoader returns a Loader that renders pages in session.
func (a *Application) BrowserLoader(session *dynamic.Session) *dynamic.Loader {
	return dynamic.NewLoader(session, a.RateLimiter)
}

// StaticLoader returns a Loader for saved or pre-rendered markup.
func (a *Application) StaticLoader() engine.Loader {
	return static.New(a.HTTPClient, a.RateLimiter, a.Config.UserAgent)
}

// LoadOptions builds the page load options for url from the config.
func (a *Application) LoadOptions(url string) models.LoadOptions {
	return models.LoadOptions{
		URL:           url,
		ContainerID:   a.Config.ContainerID,
		ReadySelector: a.Config.ReadySelector,
		WaitTimeout:   a.Config.WaitTimeout,
		SettleDelay:   a.Config.SettleDelay,
		Timeout:       a.Config.PageTimeout,
	}
}

// Close releases the application's resources.
func (a *Application) Close() error {
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}
	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}
