package ui

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// LoadProgress shows a spinner with the current load stage.
type LoadProgress struct {
	bar *progressbar.ProgressBar
}

// NewLoadProgress creates a spinner writing to w. A nil w disables output.
func NewLoadProgress(w io.Writer, label string) *LoadProgress {
	if w == nil {
		w = io.Discard
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)
	return &LoadProgress{bar: bar}
}

// Stage implements engine.Progress.
func (p *LoadProgress) Stage(name string) {
	p.bar.Describe(name)
	_ = p.bar.Add(1)
}

// Done clears the spinner.
func (p *LoadProgress) Done() {
	_ = p.bar.Finish()
}
