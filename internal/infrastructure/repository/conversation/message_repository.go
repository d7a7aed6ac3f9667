package conversation

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// MessageRepository provides persistence for messages.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs the repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append inserts one message. Messages are append-only.
func (r *MessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	entity := entities.NewSchemaMessage(msg)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to append message", err)
	}
	*msg = *entity.EtoD()
	return nil
}

// ListRecent returns the newest messages of a conversation in chronological
// order, at most limit entries.
func (r *MessageRepository) ListRecent(ctx context.Context, conversationID uint, limit int) ([]*domain.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list messages", err)
	}

	// Rows come back newest-first; reverse into chronological order.
	out := make([]*domain.Message, len(rows))
	for i := range rows {
		out[len(rows)-1-i] = rows[i].EtoD()
	}
	return out, nil
}

// CountUserMessages counts user-authored messages for a tenant inside a
// usage window.
func (r *MessageRepository) CountUserMessages(ctx context.Context, tenantID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.tenant_id = ?", tenantID).
		Where("messages.role = ?", domain.RoleUser).
		Where("messages.created_at >= ? AND messages.created_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to count user messages", err)
	}
	return count, nil
}
