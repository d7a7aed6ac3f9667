package conversation

import (
	"context"
	"time"
)

// Channel is the surface a message arrived on.
type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// NormalizeChannel maps unrecognized values to web.
func NormalizeChannel(raw string) Channel {
	switch Channel(raw) {
	case ChannelWhatsApp, ChannelSMS, ChannelEmail, ChannelTelegram:
		return Channel(raw)
	default:
		return ChannelWeb
	}
}

// Status of a conversation. Conversations are never deleted, only updated.
type Status string

const StatusOpen Status = "open"

// Conversation groups the turns of one visitor with one tenant.
type Conversation struct {
	ID            uint
	PublicID      string
	TenantID      uint
	Channel       Channel
	ExternalRef   *string
	Status        Status
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one append-only turn in a conversation.
type Message struct {
	ID             uint
	ConversationID uint
	Role           Role
	Content        string
	Channel        Channel
	Metadata       map[string]any
	CreatedAt      time.Time
}

// Repository persists conversations.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	// FindReusable returns the most recent open conversation for the tenant and
	// external reference whose last activity is at or after cutoff, or nil.
	FindReusable(ctx context.Context, tenantID uint, externalRef string, cutoff time.Time) (*Conversation, error)
	Touch(ctx context.Context, id uint, at time.Time) error
}

// MessageRepository persists messages.
type MessageRepository interface {
	Append(ctx context.Context, msg *Message) error
	// ListRecent returns the newest messages of a conversation in
	// chronological order, at most limit entries.
	ListRecent(ctx context.Context, conversationID uint, limit int) ([]*Message, error)
	CountUserMessages(ctx context.Context, tenantID uint, from, to time.Time) (int64, error)
}
