package crawl

import (
	"context"
	"time"
)

// Mode selects the crawl shape: a bounded site walk or a single page.
type Mode string

const (
	ModeSite Mode = "site"
	ModePage Mode = "page"
)

// NormalizeMode defaults unknown values to a full site crawl.
func NormalizeMode(raw string) Mode {
	if Mode(raw) == ModePage {
		return ModePage
	}
	return ModeSite
}

// RunStatus is the terminal state of a crawl run record.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the persisted record of one crawl invocation.
type Run struct {
	ID       uint
	PublicID string
	TenantID uint
	SeedURL  string
	Locale   string
	Mode     Mode
	Status   RunStatus

	PagesScanned      int
	DocumentsUpserted int
	ChunksUpserted    int
	Errors            []string

	StartedAt  time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RunRepository provides crawl-run persistence.
type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	Update(ctx context.Context, run *Run) error
	FindByPublicID(ctx context.Context, publicID string) (*Run, error)
	ListRecent(ctx context.Context, tenantID uint, limit int) ([]*Run, error)
}
