package tenant

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for tenants.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByFilter fetches the first tenant matching the filter.
func (r *PostgresRepository) FindByFilter(ctx context.Context, filter domain.Filter) (*domain.Tenant, error) {
	query := r.db.WithContext(ctx).Model(&entities.Tenant{})
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PublicID != nil {
		query = query.Where("public_id = ?", *filter.PublicID)
	}
	if filter.EmbedKey != nil {
		query = query.Where("embed_key = ?", *filter.EmbedKey)
	}
	if filter.EmbedToken != nil {
		query = query.Where("embed_token = ?", *filter.EmbedToken)
	}
	if filter.Slug != nil {
		query = query.Where("slug = ?", *filter.Slug)
	}

	var entity entities.Tenant
	if err := query.First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "tenant not found", err)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find tenant", err)
	}
	return entity.EtoD(), nil
}

// FindByEmbedKey fetches a tenant by its public embed key.
func (r *PostgresRepository) FindByEmbedKey(ctx context.Context, key string) (*domain.Tenant, error) {
	return r.FindByFilter(ctx, domain.Filter{EmbedKey: &key})
}

// FindByEmbedToken fetches a tenant by its legacy long-lived token.
func (r *PostgresRepository) FindByEmbedToken(ctx context.Context, token string) (*domain.Tenant, error) {
	return r.FindByFilter(ctx, domain.Filter{EmbedToken: &token})
}

// FindByID fetches a tenant by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*domain.Tenant, error) {
	return r.FindByFilter(ctx, domain.Filter{ID: &id})
}

// RecordHeartbeat stores the last successful embed-session issuance for a host.
func (r *PostgresRepository) RecordHeartbeat(ctx context.Context, tenantID uint, host string, at time.Time) error {
	host = domain.NormalizeHost(host)
	if host == "" {
		return nil
	}

	// Read-modify-write on the JSON map; last writer wins, which is fine for
	// a freshness signal.
	var entity entities.Tenant
	if err := r.db.WithContext(ctx).First(&entity, tenantID).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to load tenant for heartbeat", err)
	}
	if entity.Heartbeats == nil {
		entity.Heartbeats = entities.TimeMap{}
	}
	entity.Heartbeats[host] = at

	if err := r.db.WithContext(ctx).
		Model(&entities.Tenant{}).
		Where("id = ?", tenantID).
		Update("heartbeats", entity.Heartbeats).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to record heartbeat", err)
	}
	return nil
}
