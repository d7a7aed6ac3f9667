package lead

import (
	"context"

	"gorm.io/gorm"

	domain "sitebot-server/services/assistant-api/internal/domain/lead"
	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for leads.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new lead record.
func (r *PostgresRepository) Create(ctx context.Context, l *domain.Lead) error {
	entity := entities.NewSchemaLead(l)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create lead", err)
	}
	*l = *entity.EtoD()
	return nil
}

// FindByID fetches a lead by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*domain.Lead, error) {
	var entity entities.Lead
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "lead not found", err)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find lead", err)
	}
	return entity.EtoD(), nil
}
