package engine

import (
	"context"

	"github.com/bestball/adp/pkg/models"
)

// Loader is the interface every page loader implements
type Loader interface {
	// Load returns a snapshot of the rendered document at opts.URL
	Load(ctx context.Context, opts models.LoadOptions) (*models.Page, error)

	// Name returns the name of the loader implementation
	Name() string
}

// Stage names reported to a Progress while a page loads.
const (
	StageNavigate  = "Loading page"
	StageContainer = "Waiting for table"
	StageRows      = "Waiting for player rows"
	StageSettle    = "Letting data settle"
	StageCapture   = "Capturing page"
)

// Progress receives load stage updates. Implementations must be cheap.
type Progress interface {
	Stage(name string)
}

// NopProgress discards stage updates.
type NopProgress struct{}

// Stage implements Progress.
func (NopProgress) Stage(string) {}
