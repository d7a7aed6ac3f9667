package entities

import (
	"time"
)

// NotificationTask represents the database schema for queued notifications
type NotificationTask struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Kind     string `gorm:"type:varchar(40);index:idx_notification_status_kind;not null"`
	LeadID   uint   `gorm:"index;not null"`
	Status   string `gorm:"type:varchar(20);index:idx_notification_status_kind;not null;default:'queued'"`
	Attempts int    `gorm:"not null;default:0"`
	Error    *string `gorm:"type:text"`

	QueuedAt    time.Time `gorm:"index;not null"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	FailedAt    *time.Time
}

// TableName specifies the table name for NotificationTask.
func (NotificationTask) TableName() string {
	return "notification_tasks"
}
