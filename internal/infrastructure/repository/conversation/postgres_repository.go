package conversation

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for conversations.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new conversation record.
func (r *PostgresRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create conversation", err)
	}
	*conv = *entity.EtoD()
	return nil
}

// FindByPublicID fetches a conversation by its public id.
func (r *PostgresRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "conversation not found", err)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find conversation", err)
	}
	return entity.EtoD(), nil
}

// FindReusable returns the most recent open conversation for the tenant and
// external reference active at or after cutoff, or nil when none qualifies.
func (r *PostgresRepository) FindReusable(ctx context.Context, tenantID uint, externalRef string, cutoff time.Time) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND external_ref = ? AND status = ? AND last_message_at >= ?",
			tenantID, externalRef, domain.StatusOpen, cutoff).
		Order("last_message_at DESC").
		First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find reusable conversation", err)
	}
	return entity.EtoD(), nil
}

// Touch advances the conversation's last-activity timestamp.
func (r *PostgresRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", at).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to touch conversation", err)
	}
	return nil
}
