package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bestball/adp/pkg/models"
)

// DateLayout is the date stamp embedded in snapshot filenames.
const DateLayout = "2006-01-02"

// DefaultFilename returns "<prefix>_adp_<YYYY-MM-DD>.<ext>" for the date of t.
// Runs on the same calendar date share a name, so a later run overwrites.
func DefaultFilename(prefix string, t time.Time, ext string) string {
	if ext == "" {
		ext = "csv"
	}
	return fmt.Sprintf("%s_adp_%s.%s", prefix, t.Format(DateLayout), ext)
}

// Row renders a record as CSV fields in header order.
func Row(r models.Record) []string {
	return []string{strconv.Itoa(r.Rank), r.Name, r.Position, r.Team, r.ADP}
}

// SaveCSV writes headers then one row per record to path, truncating any
// existing file. Returns an error on failure.
func SaveCSV(headers []string, records []models.Record, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		file.Close()
		return err
	}
	for _, rec := range records {
		if err := writer.Write(Row(rec)); err != nil {
			file.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadCSV reads a CSV file written by SaveCSV, returning the header row and
// the remaining rows verbatim.
func ReadCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}
