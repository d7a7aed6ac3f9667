package ratelimit

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "sitebot-server/services/assistant-api/internal/domain/ratelimit"
	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for rate events.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Record appends one rate event.
func (r *PostgresRepository) Record(ctx context.Context, event *domain.Event) error {
	entity := entities.NewSchemaRateEvent(event)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to record rate event", err)
	}
	event.ID = entity.ID
	return nil
}

// CountSince counts events for tenant+bucket+IP created at or after since.
func (r *PostgresRepository) CountSince(ctx context.Context, tenantID uint, bucket, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.RateEvent{}).
		Where("tenant_id = ? AND bucket = ? AND ip = ? AND created_at >= ?", tenantID, bucket, ip, since).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to count rate events", err)
	}
	return count, nil
}
