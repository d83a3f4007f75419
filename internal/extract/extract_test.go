package extract

import (
	"errors"
	"testing"

	"github.com/bestball/adp/internal/dom"
	"github.com/bestball/adp/pkg/models"
	"github.com/google/go-cmp/cmp"
)

// Rows 1 and 4 are non-data rows, row 5 has an empty name, row 6 has no ADP.
const tableFixture = `<html><body>
<div id="adp-table-container">
<table>
	<thead><tr><th>Player</th><th>ADP</th></tr></thead>
	<tbody>
	<tr>
		<td class="player-name"><span class="name">Ja'Marr Chase</span><span class="position">WR</span><span class="team">CIN</span></td>
		<td class="average-draft-position"><span class="adp-value">1.2</span></td>
	</tr>
	<tr>
		<td class="player-name"><span class="name">Bijan Robinson</span><span class="position">RB</span><span class="team">ATL</span></td>
		<td class="average-draft-position"><span class="adp-value">2.5</span></td>
	</tr>
	<tr class="tier-break"><td colspan="2">Tier 2</td></tr>
	<tr>
		<td class="player-name"><span class="name">   </span><span class="position">TE</span></td>
		<td class="average-draft-position"><span class="adp-value">9.9</span></td>
	</tr>
	<tr>
		<td class="player-name"><span class="name">Puka Nacua</span><span class="team">LAR</span></td>
	</tr>
	</tbody>
</table>
</div>
</body></html>`

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(DefaultLayout())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func TestExtract_RanksCountAllRows(t *testing.T) {
	res, err := newExtractor(t).ExtractHTML(tableFixture)
	if err != nil {
		t.Fatalf("ExtractHTML failed: %v", err)
	}

	want := []models.Record{
		{Rank: 2, Name: "Ja'Marr Chase", Position: "WR", Team: "CIN", ADP: "1.2"},
		{Rank: 3, Name: "Bijan Robinson", Position: "RB", Team: "ATL", ADP: "2.5"},
		{Rank: 6, Name: "Puka Nacua", Position: "", Team: "LAR", ADP: ""},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(models.Headers, res.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_RowResults(t *testing.T) {
	res, err := newExtractor(t).ExtractHTML(tableFixture)
	if err != nil {
		t.Fatalf("ExtractHTML failed: %v", err)
	}

	if len(res.Rows) != 6 {
		t.Fatalf("expected 6 row results, got %d", len(res.Rows))
	}
	wantSkips := []SkipReason{SkipNoPlayerCell, SkipNone, SkipNone, SkipNoPlayerCell, SkipEmptyName, SkipNone}
	for i, rr := range res.Rows {
		if rr.Index != i+1 {
			t.Errorf("row %d: Index = %d", i, rr.Index)
		}
		if rr.Skip != wantSkips[i] {
			t.Errorf("row %d: Skip = %q, want %q", rr.Index, rr.Skip, wantSkips[i])
		}
		if rr.OK() != (wantSkips[i] == SkipNone) {
			t.Errorf("row %d: OK() = %v", rr.Index, rr.OK())
		}
	}
	if res.Skipped() != 3 {
		t.Errorf("Skipped() = %d, want 3", res.Skipped())
	}
}

func TestExtract_QualifyingRowCount(t *testing.T) {
	tests := []struct {
		name string
		rows string
		want int
	}{
		{name: "empty table", rows: "", want: 0},
		{name: "only headers", rows: `<tr><th>x</th></tr>`, want: 0},
		{name: "one player", rows: `<tr><td class="player-name"><span class="name">A</span></td></tr>`, want: 1},
		{
			name: "mixed",
			rows: `<tr><td class="player-name"><span class="name">A</span></td></tr>
				<tr><td>ad</td></tr>
				<tr><td class="player-name other"><span class="name">B</span></td></tr>
				<tr><td class="player-name"></td></tr>`,
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := `<div id="adp-table-container"><table>` + tt.rows + `</table></div>`
			res, err := newExtractor(t).ExtractHTML(markup)
			if err != nil {
				t.Fatalf("ExtractHTML failed: %v", err)
			}
			if len(res.Records) != tt.want {
				t.Errorf("got %d records, want %d", len(res.Records), tt.want)
			}
		})
	}
}

func TestExtract_MissingContainer(t *testing.T) {
	res, err := newExtractor(t).ExtractHTML(`<html><body><table><tr><td class="player-name"><span class="name">A</span></td></tr></table></body></html>`)
	if !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound, got %v", err)
	}
	if res == nil || len(res.Records) != 0 || res.Headers != nil {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestNew_InvalidLayout(t *testing.T) {
	layout := DefaultLayout()
	layout.RowTag = "tr[["
	if _, err := New(layout); err == nil {
		t.Error("expected invalid row selector to fail")
	}
}

func TestExtract_RowFaultSkipsOnlyThatRow(t *testing.T) {
	const markup = `<div id="adp-table-container"><table>
	<tr><td class="player-name"><span class="name">Ja'Marr Chase</span></td></tr>
	<tr><td class="player-name"><span class="name">Bijan Robinson</span></td></tr>
	<tr><td class="player-name"><span class="name">Justin Jefferson</span></td></tr>
</table></div>`

	e := newExtractor(t)
	e.textOf = func(n dom.Node, q dom.Query) string {
		v := text(n, q)
		if v == "Bijan Robinson" {
			panic("malformed cell")
		}
		return v
	}

	res, err := e.ExtractHTML(markup)
	if err != nil {
		t.Fatalf("ExtractHTML failed: %v", err)
	}

	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 row results, got %d", len(res.Rows))
	}
	faulted := res.Rows[1]
	if faulted.Skip != SkipFault || faulted.Err == nil || faulted.Record != nil {
		t.Errorf("row 2 should be a fault skip, got %+v", faulted)
	}

	want := []models.Record{
		{Rank: 1, Name: "Ja'Marr Chase"},
		{Rank: 3, Name: "Justin Jefferson"},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}
