package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bestball/adp/internal/app"
	"github.com/bestball/adp/internal/config"
	"github.com/bestball/adp/internal/engine"
	"github.com/bestball/adp/internal/ui"
	urlutil "github.com/bestball/adp/internal/utils/url"
	"github.com/bestball/adp/pkg/models"
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape ADP rankings and save a dated snapshot",
		Long: `Load each source page in a headless browser, wait for the ADP table to
render, extract the players and save them to <source>_adp_YYYY-MM-DD.csv.
Running again on the same day overwrites that day's file.`,
		Example: `  # Scrape the Underdog ADP page into the current directory
  adp scrape

  # Save under a snapshots directory as JSON
  adp scrape --out-dir snapshots --format json

  # Scrape two pages in one run
  adp scrape --source underdog=https://www.draftsharks.com/adp/underdog --source ppr=https://www.draftsharks.com/adp/ppr

  # Parse markup saved earlier with --dump-html, without a browser
  adp scrape --html underdog_adp_2025-08-01.html`,
		Args: cobra.NoArgs,
		RunE: runScrape,
	}
	config.RegisterScrapeFlags(cmd)
	registerSourceFlags(cmd)
	return cmd
}

func registerSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArray("source", nil, "Page to scrape as name=url (repeatable, default "+config.DefaultSourceName+")")
	f.StringP("output", "o", "", "Output file (single source only)")
	f.String("html", "", "Parse a saved HTML file instead of launching a browser")
	f.Bool("dump-html", false, "Save the captured page markup next to the output")
}

// scrapeOptions are the per-run flags that are not part of Config.
type scrapeOptions struct {
	sources  []models.Source
	output   string
	htmlFile string
	dumpHTML bool
}

func parseScrapeOptions(cmd *cobra.Command) (*scrapeOptions, error) {
	f := cmd.Flags()
	values, _ := f.GetStringArray("source")
	output, _ := f.GetString("output")
	htmlFile, _ := f.GetString("html")
	dumpHTML, _ := f.GetBool("dump-html")

	opts := &scrapeOptions{output: output, htmlFile: htmlFile, dumpHTML: dumpHTML}
	for _, value := range values {
		src, err := urlutil.ParseSource(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --source %q: %w", value, err)
		}
		opts.sources = append(opts.sources, src)
	}
	if len(opts.sources) == 0 {
		opts.sources = []models.Source{{Name: config.DefaultSourceName, URL: config.DefaultSourceURL}}
	}

	if len(opts.sources) > 1 {
		if output != "" {
			return nil, errors.New("--output can only be used with a single source")
		}
		if htmlFile != "" {
			return nil, errors.New("--html can only be used with a single source")
		}
	}
	if htmlFile != "" {
		// the saved file stands in for the page; the source keeps its name
		opts.sources[0].URL = htmlFile
	}
	return opts, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return errors.New("application not initialized")
	}
	opts, err := parseScrapeOptions(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	start := time.Now()

	ui.Banner(out, "DRAFTSHARKS UNDERDOG ADP SCRAPER")
	for _, src := range opts.sources {
		fmt.Fprintf(out, "Target URL: %s\n", src.URL)
	}
	fmt.Fprintln(out)

	loader, closeLoader, err := openLoader(ctx, a, opts, out)
	if err != nil {
		reportFailure(out, err)
		finish(out, 0, 0)
		return errReported
	}
	defer closeLoader()

	scraped, saved := 0, 0
	for _, src := range opts.sources {
		if ctx.Err() != nil {
			break
		}
		switch scrapeOne(ctx, cmd, a, loader, src, opts) {
		case outcomeSaved:
			scraped++
			saved++
		case outcomeUnsaved:
			scraped++
		}
	}

	log.Info().
		Int("sources", len(opts.sources)).
		Int("scraped", scraped).
		Int("saved", saved).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("Scrape finished")

	finish(out, scraped, saved)
	if saved == 0 {
		return errReported
	}
	return nil
}

// progressLoader is a Loader that can report its stages.
type progressLoader interface {
	engine.Loader
	SetProgress(engine.Progress)
}

// openLoader picks the static loader for --html and otherwise launches one
// browser session for the whole run. The returned func releases it.
func openLoader(ctx context.Context, a *app.Application, opts *scrapeOptions, out io.Writer) (engine.Loader, func(), error) {
	if opts.htmlFile != "" {
		return a.StaticLoader(), func() {}, nil
	}

	fmt.Fprintln(out, ui.Info("Starting browser..."))
	session, err := a.OpenBrowser(ctx)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("exec_path", session.ExecPath()).Msg("Browser session opened")

	release := func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing browser")
		}
	}
	return a.BrowserLoader(session), release, nil
}

// outcome is how far one source got.
type outcome int

const (
	outcomeFailed  outcome = iota // nothing scraped
	outcomeUnsaved                // records scraped, write failed
	outcomeSaved
)

// scrapeOne loads, previews and saves one source.
func scrapeOne(ctx context.Context, cmd *cobra.Command, a *app.Application, loader engine.Loader, src models.Source, opts *scrapeOptions) outcome {
	out := cmd.OutOrStdout()
	if len(opts.sources) > 1 {
		fmt.Fprintf(out, "\n%s\n", ui.Bold("["+src.Name+"]"))
	}
	fmt.Fprintln(out, ui.Info("Waiting for table to load..."))

	var spinner *ui.LoadProgress
	if pl, ok := loader.(progressLoader); ok && a.Config.LogLevel != "error" && !a.Config.JSONLog {
		spinner = ui.NewLoadProgress(cmd.ErrOrStderr(), src.Name)
		pl.SetProgress(spinner)
	}
	res := a.ScrapeSource(ctx, loader, src)
	if spinner != nil {
		spinner.Done()
	}

	now := time.Now()
	if opts.dumpHTML {
		if path, err := a.DumpHTML(res, a.Config.OutputDir, now); err != nil {
			log.Warn().Err(err).Msg("Could not save page markup")
		} else if path != "" {
			fmt.Fprintf(out, "Page markup saved to %s\n", path)
		}
	}

	if res.Err != nil {
		reportFailure(out, res.Err)
		return outcomeFailed
	}

	records := res.Records()
	fmt.Fprintf(out, "Found %d rows in table\n", len(res.Result.Rows))
	if len(records) == 0 {
		reportFailure(out, app.ErrNoData)
		return outcomeFailed
	}

	ui.Preview(out, res.Headers(), records, a.Config.PreviewRows)

	path, err := a.Save(res, app.SaveOptions{
		Path: opts.output,
		Dir:  a.Config.OutputDir,
		Now:  now,
	})
	if err != nil {
		fmt.Fprintf(out, "\n%s\n", ui.Error("✗ Error saving output: "+err.Error()))
		return outcomeUnsaved
	}

	fmt.Fprintf(out, "\n%s\n", ui.Success("✓ Data successfully saved to "+displayPath(path)))
	fmt.Fprintf(out, "%s\n", ui.Success(fmt.Sprintf("✓ Total players: %d", len(records))))
	return outcomeSaved
}

// reportFailure prints the error and the troubleshooting steps for its class.
func reportFailure(w io.Writer, err error) {
	fmt.Fprintf(w, "\n%s\n", ui.Error("✗ Error: "+err.Error()))
	fmt.Fprintf(w, "\n%s\n", ui.Bold("Troubleshooting steps:"))
	for i, step := range troubleshooting(err) {
		fmt.Fprintf(w, "%d. %s\n", i+1, step)
	}
}

func troubleshooting(err error) []string {
	switch {
	case errors.Is(err, engine.ErrBrowserNotFound):
		return []string{
			"Make sure Chrome, Chromium or Microsoft Edge is installed",
			"Point --chrome-path (or CHROME_PATH) at the browser binary",
		}
	case errors.Is(err, engine.ErrTimeout):
		return []string{
			"Check if the website is accessible in your browser",
			"Allow more time with --wait-timeout",
			"The website structure may have changed: inspect it with --dump-html",
		}
	case errors.Is(err, engine.ErrParseError), errors.Is(err, app.ErrNoData):
		return []string{
			"The website structure may have changed: inspect it with --dump-html",
			"Check if the website is accessible in your browser",
		}
	default:
		return []string{
			"Check your internet connection and any --proxy setting",
			"Check if the website is accessible in your browser",
			"The website structure may have changed",
		}
	}
}

func finish(w io.Writer, scraped, saved int) {
	switch {
	case saved > 0:
		fmt.Fprintf(w, "\n%s\n", ui.Success("✓ Scraping completed successfully!"))
	case scraped > 0:
		fmt.Fprintf(w, "\n%s\n", ui.Error("✗ Scraping finished but no file was saved."))
	default:
		fmt.Fprintf(w, "\n%s\n", ui.Error("✗ No data was scraped."))
	}
}

// displayPath shortens paths under the working directory.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
