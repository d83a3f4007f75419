// internal/engine/static/loader.go
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bestball/adp/internal/dom"
	"github.com/bestball/adp/internal/engine"
	"github.com/bestball/adp/internal/ratelimit"
	"github.com/bestball/adp/pkg/models"
	"github.com/rs/zerolog/log"
)

var _ engine.Loader = (*Loader)(nil)

// Loader reads already-rendered markup over plain HTTP or from a local
// file. It runs no page scripts, so it suits saved pages and fixtures.
type Loader struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	userAgent string
}

// New creates a static Loader. client and lim may be nil.
func New(client *http.Client, lim ratelimit.RateLimiter, ua string) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{client: client, limiter: lim, userAgent: ua}
}

// Name returns the name of this loader
func (l *Loader) Name() string {
	return "StaticLoader"
}

// Load fetches opts.URL, or reads it from disk when it is a path or a
// file:// URL, then checks that the same elements the browser loader waits
// for are present.
func (l *Loader) Load(ctx context.Context, opts models.LoadOptions) (*models.Page, error) {
	start := time.Now()

	var (
		body   []byte
		status int
		err    error
	)
	switch {
	case strings.HasPrefix(opts.URL, "http://"), strings.HasPrefix(opts.URL, "https://"):
		body, status, err = l.fetch(ctx, opts)
	default:
		body, err = os.ReadFile(strings.TrimPrefix(opts.URL, "file://"))
		status = http.StatusOK
	}
	if err != nil {
		return nil, err
	}

	doc, err := dom.ParseString(string(body))
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeParse, "could not parse page", err)
	}
	if err := checkPresent(doc, opts); err != nil {
		return nil, err.WithDetail("url", opts.URL)
	}

	page := &models.Page{
		URL:          opts.URL,
		StatusCode:   status,
		Title:        doc.Title(),
		HTML:         string(body),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}

	log.Debug().
		Str("url", page.URL).
		Int("status", page.StatusCode).
		Int("bytes", len(body)).
		Msg("Static load completed")
	return page, nil
}

func (l *Loader) fetch(ctx context.Context, opts models.LoadOptions) ([]byte, int, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx, opts.URL); err != nil {
			return nil, 0, engine.Classify(err, false)
		}
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, 0, engine.NewEngineError(engine.ErrCodeValidation, "invalid request", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, 0, engine.Classify(err, false)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, engine.NewEngineError(engine.ErrCodeScrape,
			fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, engine.Classify(err, false)
	}
	return body, resp.StatusCode, nil
}

// checkPresent mirrors the browser waits: container first, then a ready element.
func checkPresent(doc *dom.Document, opts models.LoadOptions) *engine.EngineError {
	if opts.ContainerID != "" {
		if _, ok := doc.FindByID("", opts.ContainerID); !ok {
			return engine.NewEngineError(engine.ErrCodeTimeout, "container element not present", engine.ErrTimeout).
				WithDetail("container", opts.ContainerID)
		}
	}
	if opts.ReadySelector != "" {
		q, err := dom.Compile(opts.ReadySelector)
		if err != nil {
			return engine.NewEngineError(engine.ErrCodeValidation, "invalid ready selector", err)
		}
		if _, ok := doc.Root().First(q); !ok {
			return engine.NewEngineError(engine.ErrCodeTimeout, "no ready element present", engine.ErrTimeout).
				WithDetail("ready_selector", opts.ReadySelector)
		}
	}
	return nil
}
