// Package snapshot discovers and loads dated ADP exports and compares them.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bestball/adp/internal/output"
	"github.com/rs/zerolog/log"
)

var datePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// Info describes a snapshot file on disk.
type Info struct {
	// Date is the YYYY-MM-DD stamp found in the filename, or the filename
	// itself when it carries no date.
	Date     string
	FileName string
	Path     string
	Dated    bool
}

// Entry is one player row read back from a snapshot.
type Entry struct {
	Rank     string
	Name     string
	Position string
	Team     string
	ADP      string
}

// Snapshot is a loaded export.
type Snapshot struct {
	Info
	Entries []Entry
}

// List returns the snapshots in dir written for source prefix, oldest
// first. Only "<prefix>_adp_*" files match, so "underdog" never picks up
// "underdog_superflex". An empty prefix matches every snapshot file. When a
// date has both a CSV and a JSON export, the CSV is kept.
func List(dir, prefix string) ([]Info, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	byStem := make(map[string]Info)
	for _, de := range dirEntries {
		name := de.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if de.IsDir() || (ext != ".csv" && ext != ".json") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(name, prefix+"_adp_") {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if prev, ok := byStem[stem]; ok && strings.EqualFold(filepath.Ext(prev.FileName), ".csv") {
			continue
		}
		byStem[stem] = newInfo(filepath.Join(dir, name))
	}

	infos := make([]Info, 0, len(byStem))
	for _, info := range byStem {
		infos = append(infos, info)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if a.Dated && b.Dated && a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.FileName < b.FileName
	})

	log.Debug().Str("dir", dir).Int("snapshots", len(infos)).Msg("Listed snapshots")
	return infos, nil
}

// Load reads a snapshot file, CSV or a JSON export. CSV column lookup
// accepts the common header spellings so exports from other tools can be
// compared too.
func Load(info Info) (*Snapshot, error) {
	if strings.EqualFold(filepath.Ext(info.Path), ".json") {
		return loadJSON(info)
	}

	headers, rows, err := output.ReadCSV(info.Path)
	if err != nil {
		return nil, err
	}

	cols := indexHeaders(headers)
	snap := &Snapshot{Info: info, Entries: make([]Entry, 0, len(rows))}
	for _, row := range rows {
		name := cols.name(row)
		if name == "" {
			continue
		}
		snap.Entries = append(snap.Entries, Entry{
			Rank:     cols.get(row, "rank"),
			Name:     name,
			Position: cols.get(row, "position", "pos"),
			Team:     cols.get(row, "team"),
			ADP:      cols.get(row, "adp", "round.pick"),
		})
	}
	return snap, nil
}

func loadJSON(info Info) (*Snapshot, error) {
	export, err := output.ReadJSON(info.Path)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Info: info, Entries: make([]Entry, 0, len(export.Players))}
	for _, p := range export.Players {
		name := NormalizeName(p.Name)
		if name == "" {
			continue
		}
		snap.Entries = append(snap.Entries, Entry{
			Rank:     strconv.Itoa(p.Rank),
			Name:     name,
			Position: p.Position,
			Team:     p.Team,
			ADP:      p.ADP,
		})
	}
	return snap, nil
}

func newInfo(path string) Info {
	name := filepath.Base(path)
	info := Info{Date: name, FileName: name, Path: path}
	if m := datePattern.FindStringSubmatch(name); m != nil {
		info.Date = m[1]
		info.Dated = true
	}
	return info
}

// LoadPath loads a snapshot from an explicit file path.
func LoadPath(path string) (*Snapshot, error) {
	return Load(newInfo(path))
}

// NormalizeName trims a player name and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ParseADP parses an ADP cell as a decimal number.
func ParseADP(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

type columns map[string]int

func indexHeaders(headers []string) columns {
	cols := make(columns, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func (c columns) get(row []string, keys ...string) string {
	for _, k := range keys {
		if i, ok := c[k]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

func (c columns) name(row []string) string {
	first := c.get(row, "first name", "firstname", "first_name")
	last := c.get(row, "last name", "lastname", "last_name")
	if full := NormalizeName(first + " " + last); full != "" {
		return full
	}
	return NormalizeName(c.get(row, "player name", "player_name", "player", "name"))
}
