package crawlrun

import (
	"context"

	"gorm.io/gorm"

	domain "sitebot-server/services/assistant-api/internal/domain/crawl"
	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for crawl runs.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new crawl-run record.
func (r *PostgresRepository) Create(ctx context.Context, run *domain.Run) error {
	entity := entities.NewSchemaCrawlRun(run)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create crawl run", err)
	}
	*run = *entity.EtoD()
	return nil
}

// Update persists a run's final counters and status.
func (r *PostgresRepository) Update(ctx context.Context, run *domain.Run) error {
	entity := entities.NewSchemaCrawlRun(run)
	if err := r.db.WithContext(ctx).
		Model(&entities.CrawlRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"status":             entity.Status,
			"pages_scanned":      entity.PagesScanned,
			"documents_upserted": entity.DocumentsUpserted,
			"chunks_upserted":    entity.ChunksUpserted,
			"errors":             entity.Errors,
			"finished_at":        entity.FinishedAt,
		}).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update crawl run", err)
	}
	return nil
}

// FindByPublicID fetches a crawl run by its public id.
func (r *PostgresRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Run, error) {
	var entity entities.CrawlRun
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "crawl run not found", err)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find crawl run", err)
	}
	return entity.EtoD(), nil
}

// ListRecent returns the tenant's newest runs.
func (r *PostgresRepository) ListRecent(ctx context.Context, tenantID uint, limit int) ([]*domain.Run, error) {
	var rows []entities.CrawlRun
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("started_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list crawl runs", err)
	}

	out := make([]*domain.Run, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}
