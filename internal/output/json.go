package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bestball/adp/pkg/models"
)

// Export is the JSON document written for a scrape.
type Export struct {
	Source    models.Source   `json:"source"`
	ScrapedAt time.Time       `json:"scraped_at"`
	Headers   []string        `json:"headers"`
	Players   []models.Record `json:"players"`
}

// SaveJSON writes an indented JSON export to path.
func SaveJSON(export Export, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	content, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// ReadJSON reads an export written by SaveJSON.
func ReadJSON(path string) (*Export, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var export Export
	if err := json.Unmarshal(content, &export); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &export, nil
}
