package knowledge

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "sitebot-server/services/assistant-api/internal/domain/knowledge"
	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// DocumentRepository provides persistence for knowledge documents.
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// FindByKey fetches a document by its identity key, or nil when absent.
func (r *DocumentRepository) FindByKey(ctx context.Context, key domain.DocumentKey) (*domain.Document, error) {
	var entity entities.KnowledgeDocument
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_url = ? AND locale = ?",
			key.TenantID, key.SourceType, key.SourceURL, key.Locale).
		First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find document", err)
	}
	return entity.EtoD(), nil
}

// Create inserts a new document record.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	entity := entities.NewSchemaKnowledgeDocument(doc)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create document", err)
	}
	*doc = *entity.EtoD()
	return nil
}

// Update persists changes to a document.
func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	entity := entities.NewSchemaKnowledgeDocument(doc)
	if err := r.db.WithContext(ctx).
		Model(&entities.KnowledgeDocument{}).
		Where("id = ?", doc.ID).
		Updates(map[string]interface{}{
			"title":    entity.Title,
			"checksum": entity.Checksum,
			"status":   entity.Status,
		}).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update document", err)
	}
	return nil
}

// ListStale returns website documents whose last update is before cutoff.
func (r *DocumentRepository) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Document, error) {
	var rows []entities.KnowledgeDocument
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND status = ? AND updated_at < ?",
			domain.SourceWebsite, domain.DocumentReady, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list stale documents", err)
	}

	out := make([]*domain.Document, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

// ChunkRepository provides persistence for knowledge chunks.
type ChunkRepository struct {
	db *gorm.DB
}

// NewChunkRepository constructs the repository.
func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// ReplaceForDocument deletes the document's old chunks and inserts the new
// set in one transaction.
func (r *ChunkRepository) ReplaceForDocument(ctx context.Context, documentID uint, chunks []*domain.Chunk) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).
			Delete(&entities.KnowledgeChunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		rows := make([]*entities.KnowledgeChunk, len(chunks))
		for i, c := range chunks {
			rows[i] = entities.NewSchemaKnowledgeChunk(c)
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			chunks[i].ID = rows[i].ID
		}
		return nil
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to replace chunks", err)
	}
	return nil
}

// ListCandidates returns up to limit chunks for the tenant restricted to the
// given locales.
func (r *ChunkRepository) ListCandidates(ctx context.Context, tenantID uint, locales []string, limit int) ([]*domain.Chunk, error) {
	var rows []entities.KnowledgeChunk
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND locale IN ?", tenantID, locales).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list candidate chunks", err)
	}

	out := make([]*domain.Chunk, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}
