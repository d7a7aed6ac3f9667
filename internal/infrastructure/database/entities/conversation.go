package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
)

// Conversation represents the database schema for conversations
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID      string               `gorm:"type:varchar(50);uniqueIndex;not null"`
	TenantID      uint                 `gorm:"index:idx_conversation_tenant_ref;not null"`
	Channel       conversation.Channel `gorm:"type:varchar(20);not null;default:'web'"`
	ExternalRef   *string              `gorm:"type:varchar(120);index:idx_conversation_tenant_ref"`
	Status        conversation.Status  `gorm:"type:varchar(20);not null;default:'open'"`
	LastMessageAt time.Time            `gorm:"index;not null"`

	Messages []Message `gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// Message represents the database schema for messages
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	ConversationID uint                 `gorm:"index;not null"`
	Role           conversation.Role    `gorm:"type:varchar(20);not null"`
	Content        string               `gorm:"type:text;not null"`
	Channel        conversation.Channel `gorm:"type:varchar(20);not null;default:'web'"`
	Metadata       datatypes.JSON       `gorm:"type:jsonb"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:            c.ID,
		PublicID:      c.PublicID,
		TenantID:      c.TenantID,
		Channel:       c.Channel,
		ExternalRef:   c.ExternalRef,
		Status:        c.Status,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from domain model
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:            c.ID,
		PublicID:      c.PublicID,
		TenantID:      c.TenantID,
		Channel:       c.Channel,
		ExternalRef:   c.ExternalRef,
		Status:        c.Status,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// EtoD converts database entity to domain model
func (m *Message) EtoD() *conversation.Message {
	var metadata map[string]any
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return &conversation.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		Channel:        m.Channel,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from domain model
func NewSchemaMessage(m *conversation.Message) *Message {
	entity := &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		Channel:        m.Channel,
		CreatedAt:      m.CreatedAt,
	}
	if len(m.Metadata) > 0 {
		if raw, err := json.Marshal(m.Metadata); err == nil {
			entity.Metadata = raw
		}
	}
	return entity
}
