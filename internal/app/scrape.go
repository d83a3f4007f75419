package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bestball/adp/internal/engine"
	"github.com/bestball/adp/internal/extract"
	"github.com/bestball/adp/internal/output"
	"github.com/bestball/adp/pkg/models"
)

// ErrNoData means a source produced no records, so nothing was saved.
var ErrNoData = errors.New("no data was scraped")

// SourceResult is the outcome of scraping one source.
type SourceResult struct {
	Source models.Source
	Page   *models.Page
	Result *extract.Result

	// Err is a load or extraction failure. Records are empty when set.
	Err error
}

// Records returns the extracted records, or nil.
func (r *SourceResult) Records() []models.Record {
	if r.Result == nil {
		return nil
	}
	return r.Result.Records
}

// Headers returns the extracted headers, or nil.
func (r *SourceResult) Headers() []string {
	if r.Result == nil {
		return nil
	}
	return r.Result.Headers
}

// HasData reports whether there is anything worth saving.
func (r *SourceResult) HasData() bool {
	return r.Err == nil && len(r.Records()) > 0
}

// ScrapeSource loads one source and extracts its records. Failures are
// recorded on the result rather than returned.
func (a *Application) ScrapeSource(ctx context.Context, loader engine.Loader, src models.Source) *SourceResult {
	res := &SourceResult{Source: src}
	logger := a.Logger.With().Str("source", src.Name).Str("url", src.URL).Logger()

	page, err := loader.Load(ctx, a.LoadOptions(src.URL))
	if err != nil {
		logger.Error().Err(err).Str("loader", loader.Name()).Msg("Load failed")
		res.Err = err
		return res
	}
	res.Page = page

	result, err := a.Extractor.ExtractHTML(page.HTML)
	res.Result = result
	if err != nil {
		logger.Error().Err(err).Msg("Extraction failed")
		msg := "could not parse page"
		if errors.Is(err, extract.ErrContainerNotFound) {
			msg = "page structure not recognised"
		}
		res.Err = engine.NewEngineError(engine.ErrCodeParse, msg, err)
		return res
	}

	logger.Info().
		Int("rows", len(result.Rows)).
		Int("records", len(result.Records)).
		Int("skipped", result.Skipped()).
		Msg("Extracted records")
	return res
}

// SaveOptions controls where a result is written.
type SaveOptions struct {
	// Path overrides the default dated filename when set.
	Path string
	// Dir holds the default-named file. Ignored when Path is set.
	Dir    string
	Format string
	Now    time.Time
}

// Save writes res in the configured format and returns the path written.
// A result with no records writes nothing and returns ErrNoData.
func (a *Application) Save(res *SourceResult, opts SaveOptions) (string, error) {
	if !res.HasData() {
		return "", ErrNoData
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	format := opts.Format
	if format == "" {
		format = a.Config.OutputFormat
	}

	path := opts.Path
	if path == "" {
		path = filepath.Join(opts.Dir, output.DefaultFilename(res.Source.Name, opts.Now, format))
	}

	var err error
	switch format {
	case "json":
		err = output.SaveJSON(output.Export{
			Source:    res.Source,
			ScrapedAt: opts.Now,
			Headers:   res.Headers(),
			Players:   res.Records(),
		}, path)
	default:
		err = output.SaveCSV(res.Headers(), res.Records(), path)
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("file", path).Msg("Error saving output")
		return path, fmt.Errorf("save %s: %w", path, err)
	}

	a.Logger.Info().Str("file", path).Int("records", len(res.Records())).Msg("Output saved")
	return path, nil
}

// DumpHTML writes the captured markup next to the dated output for
// inspecting page-structure changes.
func (a *Application) DumpHTML(res *SourceResult, dir string, now time.Time) (string, error) {
	if res.Page == nil || res.Page.HTML == "" {
		return "", nil
	}
	path := filepath.Join(dir, output.DefaultFilename(res.Source.Name, now, "html"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(res.Page.HTML), 0644); err != nil {
		return "", err
	}
	return path, nil
}
