package entities

import (
	"time"

	"sitebot-server/services/assistant-api/internal/domain/crawl"
)

// CrawlRun represents the database schema for crawl runs
type CrawlRun struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	TenantID uint            `gorm:"index;not null"`
	SeedURL  string          `gorm:"type:varchar(2048);not null"`
	Locale   string          `gorm:"type:varchar(8);not null"`
	Mode     crawl.Mode      `gorm:"type:varchar(10);not null;default:'site'"`
	Status   crawl.RunStatus `gorm:"type:varchar(20);not null;default:'running'"`

	PagesScanned      int         `gorm:"not null;default:0"`
	DocumentsUpserted int         `gorm:"not null;default:0"`
	ChunksUpserted    int         `gorm:"not null;default:0"`
	Errors            StringSlice `gorm:"type:jsonb"`

	StartedAt  time.Time `gorm:"not null"`
	FinishedAt *time.Time
}

// TableName specifies the table name for CrawlRun.
func (CrawlRun) TableName() string {
	return "crawl_runs"
}

// EtoD converts database entity to domain model
func (r *CrawlRun) EtoD() *crawl.Run {
	return &crawl.Run{
		ID:                r.ID,
		PublicID:          r.PublicID,
		TenantID:          r.TenantID,
		SeedURL:           r.SeedURL,
		Locale:            r.Locale,
		Mode:              r.Mode,
		Status:            r.Status,
		PagesScanned:      r.PagesScanned,
		DocumentsUpserted: r.DocumentsUpserted,
		ChunksUpserted:    r.ChunksUpserted,
		Errors:            r.Errors,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// NewSchemaCrawlRun creates a database entity from domain model
func NewSchemaCrawlRun(r *crawl.Run) *CrawlRun {
	return &CrawlRun{
		ID:                r.ID,
		PublicID:          r.PublicID,
		TenantID:          r.TenantID,
		SeedURL:           r.SeedURL,
		Locale:            r.Locale,
		Mode:              r.Mode,
		Status:            r.Status,
		PagesScanned:      r.PagesScanned,
		DocumentsUpserted: r.DocumentsUpserted,
		ChunksUpserted:    r.ChunksUpserted,
		Errors:            r.Errors,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
