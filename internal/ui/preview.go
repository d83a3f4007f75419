package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bestball/adp/pkg/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Preview prints up to n records as a table followed by a count of the
// records not shown. n <= 0 prints nothing.
func Preview(w io.Writer, headers []string, records []models.Record, n int) {
	if n <= 0 {
		return
	}
	shown := records
	if len(shown) > n {
		shown = shown[:n]
	}

	fmt.Fprintf(w, "\n%s\n", Bold(fmt.Sprintf("PREVIEW - First %d players:", len(shown))))

	t := NewTable(w)
	header := make(table.Row, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for _, r := range shown {
		t.AppendRow(table.Row{r.Rank, r.Name, r.Position, r.Team, r.ADP})
	}
	t.Render()

	if rest := len(records) - len(shown); rest > 0 {
		fmt.Fprintf(w, "\n... and %d more players\n", rest)
	}
}

// NewTable returns a rounded table writer rendering to w. Headers keep
// their case.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	return t
}

// Banner prints a title framed by rules.
func Banner(w io.Writer, title string) {
	rule := strings.Repeat("=", 100)
	fmt.Fprintf(w, "%s\n%s\n%s\n", rule, Bold(title), rule)
}

// FormatDelta renders an ADP change with a sign and color.
func FormatDelta(d float64) string {
	s := strconv.FormatFloat(d, 'f', 1, 64)
	switch {
	case d > 0:
		return Success("+" + s)
	case d < 0:
		return Error(s)
	default:
		return s
	}
}
