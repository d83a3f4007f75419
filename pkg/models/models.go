package models

import (
	"strings"
	"time"
)

// Record is one extracted player row from an ADP table.
type Record struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	ADP      string `json:"adp"`
}

// Headers is the fixed column order used for every export.
var Headers = []string{"Rank", "Player Name", "Position", "Team", "ADP"}

// Source is a named ADP page to scrape. The name prefixes the output file.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page is a snapshot of a fully rendered document.
type Page struct {
	URL          string    `json:"url"`
	StatusCode   int       `json:"status_code"`
	Title        string    `json:"title,omitempty"`
	HTML         string    `json:"html,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	ResponseTime int64     `json:"response_time_ms"`
}

// LoadOptions contains options for loading a rendered page
type LoadOptions struct {
	URL string

	// ContainerID is the id of the element that must appear first.
	ContainerID string
	// ReadySelector must match at least one element once data has rendered.
	ReadySelector string

	// WaitTimeout bounds both element waits together.
	WaitTimeout time.Duration
	// SettleDelay is applied after the waits, before markup is captured.
	SettleDelay time.Duration
	// Timeout bounds the whole load including navigation.
	Timeout time.Duration
}

// Position is a fantasy roster position
type Position string

const (
	PosUnknown Position = "UNK"
	PosQB      Position = "QB"
	PosRB      Position = "RB"
	PosWR      Position = "WR"
	PosTE      Position = "TE"
	PosK       Position = "K"
	PosDST     Position = "DST"
)

// ParsePosition maps free-form position text to a Position.
func ParsePosition(pos string) Position {
	switch strings.ToLower(strings.TrimSpace(pos)) {
	case "qb":
		return PosQB
	case "rb", "fb":
		return PosRB
	case "wr":
		return PosWR
	case "te":
		return PosTE
	case "k", "pk":
		return PosK
	case "dst", "def", "d/st":
		return PosDST
	default:
		return PosUnknown
	}
}
