package snapshot

import (
	"sort"

	"github.com/bestball/adp/pkg/models"
)

// Move is a player's ADP change between two snapshots.
type Move struct {
	Name     string
	Position string
	Team     string
	OldADP   float64
	NewADP   float64
	// Delta is OldADP - NewADP. Positive means the player is drafted earlier.
	Delta float64
}

// Movement compares two snapshots.
type Movement struct {
	From    Info
	To      Info
	Moves   []Move
	Added   []Entry
	Dropped []Entry
}

// Compare matches players by normalized name. Players whose ADP does not
// parse on either side are left out of Moves.
func Compare(older, newer *Snapshot) *Movement {
	m := &Movement{From: older.Info, To: newer.Info}

	before := index(older.Entries)
	after := index(newer.Entries)

	for _, e := range newer.Entries {
		key := NormalizeName(e.Name)
		if after[key] != e {
			continue
		}
		prev, ok := before[key]
		if !ok {
			m.Added = append(m.Added, e)
			continue
		}
		oldADP, okOld := ParseADP(prev.ADP)
		newADP, okNew := ParseADP(e.ADP)
		if !okOld || !okNew {
			continue
		}
		m.Moves = append(m.Moves, Move{
			Name:     e.Name,
			Position: e.Position,
			Team:     e.Team,
			OldADP:   oldADP,
			NewADP:   newADP,
			Delta:    oldADP - newADP,
		})
	}
	for _, e := range older.Entries {
		key := NormalizeName(e.Name)
		if before[key] != e {
			continue
		}
		if _, ok := after[key]; !ok {
			m.Dropped = append(m.Dropped, e)
		}
	}

	sort.SliceStable(m.Moves, func(i, j int) bool {
		if m.Moves[i].Delta != m.Moves[j].Delta {
			return m.Moves[i].Delta > m.Moves[j].Delta
		}
		return m.Moves[i].Name < m.Moves[j].Name
	})
	return m
}

// Filter returns the moves for one position. PosUnknown keeps everything.
func (m *Movement) Filter(pos models.Position) []Move {
	if pos == models.PosUnknown {
		return m.Moves
	}
	var out []Move
	for _, mv := range m.Moves {
		if models.ParsePosition(mv.Position) == pos {
			out = append(out, mv)
		}
	}
	return out
}

// Risers returns up to n moves with positive delta, largest first.
func Risers(moves []Move, n int) []Move {
	var out []Move
	for _, mv := range moves {
		if mv.Delta <= 0 || (n > 0 && len(out) == n) {
			break
		}
		out = append(out, mv)
	}
	return out
}

// Fallers returns up to n moves with negative delta, largest drop first.
func Fallers(moves []Move, n int) []Move {
	var out []Move
	for i := len(moves) - 1; i >= 0; i-- {
		mv := moves[i]
		if mv.Delta >= 0 || (n > 0 && len(out) == n) {
			break
		}
		out = append(out, mv)
	}
	return out
}

// index keeps the first entry seen for each normalized name.
func index(entries []Entry) map[string]Entry {
	idx := make(map[string]Entry, len(entries))
	for _, e := range entries {
		key := NormalizeName(e.Name)
		if _, ok := idx[key]; !ok {
			idx[key] = e
		}
	}
	return idx
}
