package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bestball/adp/internal/app"
	"github.com/bestball/adp/internal/engine"
	"github.com/bestball/adp/internal/output"
	"github.com/bestball/adp/internal/ui"
	"github.com/google/go-cmp/cmp"
)

const fixture = `<html><head><title>Underdog ADP</title></head><body>
<div id="adp-table-container"><table>
	<tr><th>Rank</th><th>Player</th><th>ADP</th></tr>
	<tr><td class="player-name"><span class="name">Ja'Marr Chase</span><span class="position">WR</span><span class="team">CIN</span></td>
		<td class="average-draft-position"><span class="adp-value">1.1</span></td></tr>
	<tr><td class="player-name"><span class="name">Bijan Robinson</span><span class="position">RB</span><span class="team">ATL</span></td>
		<td class="average-draft-position"><span class="adp-value">2.4</span></td></tr>
	<tr><td class="player-name"><span class="name">Justin Jefferson</span><span class="position">WR</span><span class="team">MIN</span></td>
		<td class="average-draft-position"><span class="adp-value">3.0</span></td></tr>
</table></div>
</body></html>`

const emptyFixture = `<html><body><div id="adp-table-container"><table>
	<tr><td class="player-name"><span class="name">  </span></td></tr>
</table></div></body></html>`

func TestMain(m *testing.M) {
	ui.Enabled = false
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"-q"}, args...))
	err := run(context.Background(), root)
	if GetAppFromCmd(root) != nil {
		t.Error("application was not released")
	}
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScrape_SavedHTML(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.html", fixture)

	out, err := execute(t, "scrape", "--html", page, "--out-dir", dir, "--preview=2")
	if err != nil {
		t.Fatalf("scrape failed: %v\n%s", err, out)
	}

	for _, want := range []string{
		"Target URL: " + page,
		"Found 4 rows in table",
		"PREVIEW - First 2 players:",
		"... and 1 more players",
		"✓ Total players: 3",
		"✓ Scraping completed successfully!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	path := filepath.Join(dir, output.DefaultFilename("underdog", time.Now(), "csv"))
	headers, rows, err := output.ReadCSV(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if diff := cmp.Diff([]string{"Rank", "Player Name", "Position", "Team", "ADP"}, headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
	want := [][]string{
		{"2", "Ja'Marr Chase", "WR", "CIN", "1.1"},
		{"3", "Bijan Robinson", "RB", "ATL", "2.4"},
		{"4", "Justin Jefferson", "WR", "MIN", "3.0"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRoot_RunsScrape(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.html", fixture)
	target := filepath.Join(dir, "custom.csv")

	out, err := execute(t, "--html", page, "-o", target, "--preview=0")
	if err != nil {
		t.Fatalf("scrape failed: %v\n%s", err, out)
	}
	if strings.Contains(out, "PREVIEW") {
		t.Errorf("preview printed with --preview=0:\n%s", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("output file not written: %v", err)
	}
}

func TestScrape_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.html", fixture)

	if out, err := execute(t, "scrape", "--html", page, "--out-dir", dir, "--format", "json"); err != nil {
		t.Fatalf("scrape failed: %v\n%s", err, out)
	}
	path := filepath.Join(dir, output.DefaultFilename("underdog", time.Now(), "json"))
	if _, err := os.Stat(path); err != nil {
		t.Errorf("json output not written: %v", err)
	}
}

func TestScrape_NoRecordsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.html", emptyFixture)

	out, err := execute(t, "scrape", "--html", page, "--out-dir", dir)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	for _, want := range []string{"Troubleshooting steps:", "✗ No data was scraped."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.csv"))
	if len(matches) != 0 {
		t.Errorf("expected no CSV files, found %v", matches)
	}
}

func TestScrape_SaveFailureIsNotNoData(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.html", fixture)
	blocker := writeFile(t, dir, "blocker", "not a directory")

	out, err := execute(t, "scrape", "--html", page, "-o", filepath.Join(blocker, "out.csv"))
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	for _, want := range []string{"PREVIEW", "✗ Error saving output", "✗ Scraping finished but no file was saved."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No data was scraped") {
		t.Errorf("a write failure must not be reported as no data:\n%s", out)
	}
}

func TestScrape_DumpHTML(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.html", emptyFixture)

	out, _ := execute(t, "scrape", "--html", page, "--out-dir", dir, "--dump-html")
	dump := filepath.Join(dir, output.DefaultFilename("underdog", time.Now(), "html"))
	if !strings.Contains(out, "Page markup saved to") {
		t.Errorf("dump not reported:\n%s", out)
	}
	if _, err := os.Stat(dump); err != nil {
		t.Errorf("markup not saved: %v", err)
	}
}

func TestScrape_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "output with two sources",
			args: []string{"scrape", "--source", "a=https://example.com/a", "--source", "b=https://example.com/b", "-o", "x.csv"},
			want: "--output can only be used with a single source",
		},
		{
			name: "bad source",
			args: []string{"scrape", "--source", "ftp://example.com/adp"},
			want: "invalid --source",
		},
		{
			name: "bad format",
			args: []string{"scrape", "--format", "xml"},
			want: "invalid config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestTroubleshooting(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"dependency", engine.NewEngineError(engine.ErrCodeDependency, "no browser", nil), "--chrome-path"},
		{"timeout", engine.NewEngineError(engine.ErrCodeTimeout, "slow", nil), "--wait-timeout"},
		{"parse", engine.NewEngineError(engine.ErrCodeParse, "changed", nil), "--dump-html"},
		{"no data", app.ErrNoData, "--dump-html"},
		{"other", errors.New("connection reset"), "internet connection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := strings.Join(troubleshooting(tt.err), "\n")
			if !strings.Contains(steps, tt.want) {
				t.Errorf("steps for %v missing %q:\n%s", tt.err, tt.want, steps)
			}
		})
	}
}

const (
	olderCSV = "Rank,Player Name,Position,Team,ADP\n" +
		"1,Ja'Marr Chase,WR,CIN,1.5\n" +
		"2,Bijan Robinson,RB,ATL,4.0\n" +
		"3,Justin Jefferson,WR,MIN,2.0\n" +
		"4,Old Timer,QB,FA,90.0\n"
	newerCSV = "Rank,Player Name,Position,Team,ADP\n" +
		"1,Ja'Marr Chase,WR,CIN,1.5\n" +
		"2,Bijan Robinson,RB,ATL,2.0\n" +
		"3,Justin Jefferson,WR,MIN,3.5\n" +
		"4,New Rookie,RB,NYG,40.0\n"
)

func TestSnapshots(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "underdog_adp_2025-08-15.csv", newerCSV)
	writeFile(t, dir, "underdog_adp_2025-08-01.csv", olderCSV)
	writeFile(t, dir, "ppr_adp_2025-08-10.csv", olderCSV)

	out, err := execute(t, "snapshots", "--out-dir", dir)
	if err != nil {
		t.Fatalf("snapshots failed: %v", err)
	}
	first := strings.Index(out, "2025-08-01")
	second := strings.Index(out, "2025-08-15")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected snapshots oldest first:\n%s", out)
	}
	if strings.Contains(out, "ppr_adp") {
		t.Errorf("other prefix listed:\n%s", out)
	}
	if !strings.Contains(out, "latest") {
		t.Errorf("latest snapshot not marked:\n%s", out)
	}

	out, err = execute(t, "snapshots", "--out-dir", dir, "--all")
	if err != nil {
		t.Fatalf("snapshots --all failed: %v", err)
	}
	if !strings.Contains(out, "ppr_adp_2025-08-10.csv") {
		t.Errorf("--all should list every CSV:\n%s", out)
	}
}

func TestMovers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "underdog_adp_2025-08-01.csv", olderCSV)
	writeFile(t, dir, "underdog_adp_2025-08-15.csv", newerCSV)

	out, err := execute(t, "movers", "--out-dir", dir)
	if err != nil {
		t.Fatalf("movers failed: %v", err)
	}

	risers := strings.Index(out, "Risers")
	fallers := strings.Index(out, "Fallers")
	bijan := strings.Index(out, "Bijan Robinson")
	jefferson := strings.Index(out, "Justin Jefferson")
	if !(risers < bijan && bijan < fallers && fallers < jefferson) {
		t.Errorf("unexpected movers layout:\n%s", out)
	}
	if !strings.Contains(out, "+2.0") || !strings.Contains(out, "-1.5") {
		t.Errorf("deltas missing:\n%s", out)
	}
	if !strings.Contains(out, "3 players compared, 1 added, 1 dropped") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestMovers_PositionFilter(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "a.csv", olderCSV)
	newer := writeFile(t, dir, "b.csv", newerCSV)

	out, err := execute(t, "movers", "--from", older, "--to", newer, "--position", "wr")
	if err != nil {
		t.Fatalf("movers failed: %v", err)
	}
	if strings.Contains(out, "Bijan Robinson") {
		t.Errorf("RB shown with WR filter:\n%s", out)
	}
	if !strings.Contains(out, "Justin Jefferson") {
		t.Errorf("WR faller missing:\n%s", out)
	}
}

func TestMovers_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "underdog_adp_2025-08-01.csv", olderCSV)

	if _, err := execute(t, "movers", "--out-dir", dir); err == nil || !strings.Contains(err.Error(), "need at least two snapshots") {
		t.Errorf("expected too few snapshots error, got %v", err)
	}
	if _, err := execute(t, "movers", "--out-dir", dir, "--position", "LS"); err == nil || !strings.Contains(err.Error(), "unknown position") {
		t.Errorf("expected unknown position error, got %v", err)
	}
	if _, err := execute(t, "movers", "--from", "x.csv"); err == nil || !strings.Contains(err.Error(), "--from and --to") {
		t.Errorf("expected --from/--to error, got %v", err)
	}
}
