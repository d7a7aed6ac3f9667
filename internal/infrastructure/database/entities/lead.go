package entities

import (
	"time"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/lead"
)

// Lead represents the database schema for captured leads
type Lead struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	TenantID       uint                 `gorm:"index;not null"`
	ConversationID uint                 `gorm:"index;not null"`
	Channel        conversation.Channel `gorm:"type:varchar(20);not null;default:'web'"`
	SourceHost     string               `gorm:"type:varchar(256)"`
	ExternalRef    *string              `gorm:"type:varchar(120)"`
	CallerIP       string               `gorm:"type:varchar(64)"`
	Name           *string              `gorm:"type:varchar(120)"`
	Email          *string              `gorm:"type:varchar(256)"`
	Phone          *string              `gorm:"type:varchar(40)"`
	Consent        bool                 `gorm:"not null;default:false"`
}

// TableName specifies the table name for Lead.
func (Lead) TableName() string {
	return "leads"
}

// EtoD converts database entity to domain model
func (l *Lead) EtoD() *lead.Lead {
	return &lead.Lead{
		ID:             l.ID,
		TenantID:       l.TenantID,
		ConversationID: l.ConversationID,
		Channel:        l.Channel,
		SourceHost:     l.SourceHost,
		ExternalRef:    l.ExternalRef,
		CallerIP:       l.CallerIP,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Consent:        l.Consent,
		CreatedAt:      l.CreatedAt,
	}
}

// NewSchemaLead creates a database entity from domain model
func NewSchemaLead(l *lead.Lead) *Lead {
	return &Lead{
		ID:             l.ID,
		TenantID:       l.TenantID,
		ConversationID: l.ConversationID,
		Channel:        l.Channel,
		SourceHost:     l.SourceHost,
		ExternalRef:    l.ExternalRef,
		CallerIP:       l.CallerIP,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Consent:        l.Consent,
		CreatedAt:      l.CreatedAt,
	}
}
