package entities

import (
	"time"

	"sitebot-server/services/assistant-api/internal/domain/ratelimit"
)

// RateEvent represents the database schema for rate-limit events
type RateEvent struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index:idx_rate_event_window;autoCreateTime"`

	TenantID uint   `gorm:"index:idx_rate_event_window;not null"`
	IP       string `gorm:"type:varchar(64);index:idx_rate_event_window;not null"`
	Bucket   string `gorm:"type:varchar(64);index:idx_rate_event_window;not null"`
}

// TableName specifies the table name for RateEvent.
func (RateEvent) TableName() string {
	return "rate_events"
}

// EtoD converts database entity to domain model
func (e *RateEvent) EtoD() *ratelimit.Event {
	return &ratelimit.Event{
		ID:        e.ID,
		TenantID:  e.TenantID,
		IP:        e.IP,
		Bucket:    e.Bucket,
		CreatedAt: e.CreatedAt,
	}
}

// NewSchemaRateEvent creates a database entity from domain model
func NewSchemaRateEvent(e *ratelimit.Event) *RateEvent {
	return &RateEvent{
		ID:        e.ID,
		TenantID:  e.TenantID,
		IP:        e.IP,
		Bucket:    e.Bucket,
		CreatedAt: e.CreatedAt,
	}
}
