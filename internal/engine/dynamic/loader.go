// internal/engine/dynamic/loader.go
package dynamic

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bestball/adp/internal/engine"
	"github.com/bestball/adp/internal/ratelimit"
	"github.com/bestball/adp/pkg/models"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

var _ engine.Loader = (*Loader)(nil)

// Loader renders pages in a Session's browser, one tab per load.
type Loader struct {
	session  *Session
	limiter  ratelimit.RateLimiter
	progress engine.Progress
}

// NewLoader creates a Loader. limiter may be nil.
func NewLoader(s *Session, lim ratelimit.RateLimiter) *Loader {
	return &Loader{
		session:  s,
		limiter:  lim,
		progress: engine.NopProgress{},
	}
}

// SetProgress sets the receiver for stage updates.
func (l *Loader) SetProgress(p engine.Progress) {
	if p == nil {
		p = engine.NopProgress{}
	}
	l.progress = p
}

// Name returns the name of this loader
func (l *Loader) Name() string {
	return "BrowserLoader"
}

// Load navigates to opts.URL, waits for the container then for the first
// ready element, sleeps for the settle delay and captures the markup.
func (l *Loader) Load(ctx context.Context, opts models.LoadOptions) (*models.Page, error) {
	start := time.Now()

	if l.limiter != nil {
		if err := l.limiter.Wait(ctx, opts.URL); err != nil {
			return nil, engine.Classify(err, false)
		}
	}

	tabCtx, closeTab := l.session.NewTab()
	defer closeTab()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	tabCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	// Caller cancellation aborts the tab as well.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var status atomic.Int64
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if ev, ok := ev.(*network.EventResponseReceived); ok && ev.Type == network.ResourceTypeDocument {
			status.CompareAndSwap(0, ev.Response.Status)
		}
	})

	log.Debug().Str("url", opts.URL).Str("loader", l.Name()).Msg("Starting load")

	l.progress.Stage(engine.StageNavigate)
	if err := chromedp.Run(tabCtx, network.Enable(), chromedp.Navigate(opts.URL)); err != nil {
		return nil, engine.Classify(err, false).WithDetail("url", opts.URL)
	}

	if err := l.waitForTable(tabCtx, opts); err != nil {
		return nil, engine.Classify(err, true).
			WithDetail("url", opts.URL).
			WithDetail("container", opts.ContainerID).
			WithDetail("ready_selector", opts.ReadySelector)
	}

	var title, markup string
	l.progress.Stage(engine.StageSettle)
	err := chromedp.Run(tabCtx,
		chromedp.Sleep(opts.SettleDelay),
		chromedp.ActionFunc(func(context.Context) error {
			l.progress.Stage(engine.StageCapture)
			return nil
		}),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return nil, engine.Classify(err, false).WithDetail("url", opts.URL)
	}

	page := &models.Page{
		URL:          opts.URL,
		StatusCode:   int(status.Load()),
		Title:        title,
		HTML:         markup,
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}

	log.Info().
		Str("url", page.URL).
		Int("status", page.StatusCode).
		Int64("response_time_ms", page.ResponseTime).
		Int("bytes", len(page.HTML)).
		Msg("Load completed")

	return page, nil
}

// waitForTable waits, in order, for the container and the first ready
// element. Both waits share opts.WaitTimeout.
func (l *Loader) waitForTable(ctx context.Context, opts models.LoadOptions) error {
	if opts.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.WaitTimeout)
		defer cancel()
	}

	return chromedp.Run(ctx,
		chromedp.ActionFunc(func(context.Context) error {
			l.progress.Stage(engine.StageContainer)
			return nil
		}),
		chromedp.WaitReady(opts.ContainerID, chromedp.ByID),
		chromedp.ActionFunc(func(context.Context) error {
			l.progress.Stage(engine.StageRows)
			return nil
		}),
		chromedp.WaitReady(opts.ReadySelector, chromedp.ByQuery),
	)
}
