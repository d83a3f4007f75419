// Package extract turns a rendered ADP table into player records.
package extract

import (
	"errors"
	"fmt"

	"github.com/bestball/adp/internal/dom"
	"github.com/bestball/adp/pkg/models"
	"github.com/rs/zerolog/log"
)

// ErrContainerNotFound is returned when the table container is absent.
var ErrContainerNotFound = errors.New("table container not found")

// SkipReason explains why a row produced no record.
type SkipReason string

const (
	SkipNone         SkipReason = ""
	SkipNoPlayerCell SkipReason = "no player-name cell"
	SkipEmptyName    SkipReason = "empty player name"
	SkipFault        SkipReason = "extraction fault"
)

// RowResult is the outcome for one table row.
type RowResult struct {
	// Index is the 1-based position of the row among all rows scanned.
	Index  int
	Record *models.Record
	Skip   SkipReason
	Err    error
}

// OK reports whether the row produced a record.
func (r RowResult) OK() bool {
	return r.Record != nil
}

// Result is the output of one extraction.
type Result struct {
	Headers []string
	Records []models.Record
	Rows    []RowResult
}

// Skipped counts rows that produced no record.
func (r *Result) Skipped() int {
	return len(r.Rows) - len(r.Records)
}

// Layout names the markup the extractor keys on.
type Layout struct {
	ContainerTag string
	ContainerID  string
	RowTag       string

	PlayerCell    string // td class holding name, position and team spans
	NameClass     string
	PositionClass string
	TeamClass     string

	ADPCell  string // td class holding the ADP span
	ADPValue string
}

// DefaultLayout matches the DraftSharks ADP table.
func DefaultLayout() Layout {
	return Layout{
		ContainerTag:  "div",
		ContainerID:   "adp-table-container",
		RowTag:        "tr",
		PlayerCell:    "player-name",
		NameClass:     "name",
		PositionClass: "position",
		TeamClass:     "team",
		ADPCell:       "average-draft-position",
		ADPValue:      "adp-value",
	}
}

// Extractor pulls records out of a parsed document using compiled queries.
type Extractor struct {
	layout    Layout
	container dom.Query
	row       dom.Query
	player    dom.Query
	name      dom.Query
	position  dom.Query
	team      dom.Query
	adpCell   dom.Query
	adpValue  dom.Query

	// textOf reads one field of a row cell.
	textOf func(dom.Node, dom.Query) string
}

// New compiles the queries for layout.
func New(layout Layout) (*Extractor, error) {
	e := &Extractor{layout: layout, textOf: text}

	var err error
	compile := func(dst *dom.Query, build func() (dom.Query, error)) {
		if err != nil {
			return
		}
		*dst, err = build()
	}
	compile(&e.container, func() (dom.Query, error) { return dom.ByID(layout.ContainerTag, layout.ContainerID) })
	compile(&e.row, func() (dom.Query, error) { return dom.Compile(layout.RowTag) })
	compile(&e.player, func() (dom.Query, error) { return dom.ByClass("td", layout.PlayerCell) })
	compile(&e.name, func() (dom.Query, error) { return dom.ByClass("span", layout.NameClass) })
	compile(&e.position, func() (dom.Query, error) { return dom.ByClass("span", layout.PositionClass) })
	compile(&e.team, func() (dom.Query, error) { return dom.ByClass("span", layout.TeamClass) })
	compile(&e.adpCell, func() (dom.Query, error) { return dom.ByClass("td", layout.ADPCell) })
	compile(&e.adpValue, func() (dom.Query, error) { return dom.ByClass("span", layout.ADPValue) })
	if err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return e, nil
}

// ExtractHTML parses markup and extracts records from it.
func (e *Extractor) ExtractHTML(markup string) (*Result, error) {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, err
	}
	return e.Extract(doc)
}

// Extract walks every row of the container. A row's rank is its 1-based
// index among all rows, so non-data rows leave gaps in the ranks.
func (e *Extractor) Extract(doc *dom.Document) (*Result, error) {
	container, ok := doc.Root().First(e.container)
	if !ok {
		log.Warn().Str("selector", e.container.String()).Msg("Could not find table container")
		return &Result{}, ErrContainerNotFound
	}

	rows := container.All(e.row)
	log.Debug().Int("rows", len(rows)).Msg("Found rows in table")

	res := &Result{
		Headers: append([]string(nil), models.Headers...),
		Records: make([]models.Record, 0, len(rows)),
		Rows:    make([]RowResult, 0, len(rows)),
	}

	for i, row := range rows {
		rr := e.extractRow(i+1, row)
		if rr.Err != nil {
			log.Warn().Err(rr.Err).Int("row", rr.Index).Msg("Error parsing row")
		}
		res.Rows = append(res.Rows, rr)
		if rr.OK() {
			res.Records = append(res.Records, *rr.Record)
		}
	}

	log.Debug().
		Int("records", len(res.Records)).
		Int("skipped", res.Skipped()).
		Msg("Extraction finished")

	return res, nil
}

func (e *Extractor) extractRow(idx int, row dom.Node) (rr RowResult) {
	rr.Index = idx
	defer func() {
		if r := recover(); r != nil {
			rr.Record = nil
			rr.Skip = SkipFault
			rr.Err = fmt.Errorf("row %d: %v", idx, r)
		}
	}()

	cell, ok := row.First(e.player)
	if !ok {
		rr.Skip = SkipNoPlayerCell
		return rr
	}

	rec := models.Record{
		Rank:     idx,
		Name:     e.textOf(cell, e.name),
		Position: e.textOf(cell, e.position),
		Team:     e.textOf(cell, e.team),
	}
	if adp, ok := row.First(e.adpCell); ok {
		rec.ADP = e.textOf(adp, e.adpValue)
	}

	if rec.Name == "" {
		rr.Skip = SkipEmptyName
		return rr
	}
	rr.Record = &rec
	return rr
}

// text returns the text of the first match of q under n, or "".
func text(n dom.Node, q dom.Query) string {
	found, ok := n.First(q)
	if !ok {
		return ""
	}
	return found.Text()
}
