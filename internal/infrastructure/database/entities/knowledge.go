package entities

import (
	"time"

	"sitebot-server/services/assistant-api/internal/domain/knowledge"
)

// KnowledgeDocument represents the database schema for ingested sources
type KnowledgeDocument struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	TenantID   uint                     `gorm:"uniqueIndex:idx_document_key;not null"`
	SourceType knowledge.SourceType     `gorm:"type:varchar(20);uniqueIndex:idx_document_key;not null"`
	SourceURL  string                   `gorm:"type:varchar(2048);uniqueIndex:idx_document_key;not null"`
	Locale     string                   `gorm:"type:varchar(8);uniqueIndex:idx_document_key;not null"`
	Title      string                   `gorm:"type:varchar(512)"`
	Checksum   string                   `gorm:"type:varchar(64);not null"`
	Status     knowledge.DocumentStatus `gorm:"type:varchar(20);not null;default:'ready'"`

	Chunks []KnowledgeChunk `gorm:"foreignKey:DocumentID"`
}

// TableName specifies the table name for KnowledgeDocument.
func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}

// KnowledgeChunk represents the database schema for retrieval chunks
type KnowledgeChunk struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	DocumentID  uint   `gorm:"index;not null"`
	TenantID    uint   `gorm:"index:idx_chunk_tenant_locale;not null"`
	ChunkIndex  int    `gorm:"not null"`
	Locale      string `gorm:"type:varchar(8);index:idx_chunk_tenant_locale;not null"`
	Text        string `gorm:"type:text;not null"`
	Embedding   Vector `gorm:"type:jsonb"`
	TokenCount  int    `gorm:"not null;default:0"`
	SourceURL   string `gorm:"type:varchar(2048)"`
	SourceLabel string `gorm:"type:varchar(512)"`
}

// TableName specifies the table name for KnowledgeChunk.
func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}

// EtoD converts database entity to domain model
func (d *KnowledgeDocument) EtoD() *knowledge.Document {
	return &knowledge.Document{
		ID:         d.ID,
		TenantID:   d.TenantID,
		SourceType: d.SourceType,
		SourceURL:  d.SourceURL,
		Title:      d.Title,
		Locale:     d.Locale,
		Checksum:   d.Checksum,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// NewSchemaKnowledgeDocument creates a database entity from domain model
func NewSchemaKnowledgeDocument(d *knowledge.Document) *KnowledgeDocument {
	return &KnowledgeDocument{
		ID:         d.ID,
		TenantID:   d.TenantID,
		SourceType: d.SourceType,
		SourceURL:  d.SourceURL,
		Title:      d.Title,
		Locale:     d.Locale,
		Checksum:   d.Checksum,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// EtoD converts database entity to domain model
func (c *KnowledgeChunk) EtoD() *knowledge.Chunk {
	return &knowledge.Chunk{
		ID:          c.ID,
		DocumentID:  c.DocumentID,
		TenantID:    c.TenantID,
		Index:       c.ChunkIndex,
		Locale:      c.Locale,
		Text:        c.Text,
		Embedding:   c.Embedding,
		TokenCount:  c.TokenCount,
		SourceURL:   c.SourceURL,
		SourceLabel: c.SourceLabel,
		CreatedAt:   c.CreatedAt,
	}
}

// NewSchemaKnowledgeChunk creates a database entity from domain model
func NewSchemaKnowledgeChunk(c *knowledge.Chunk) *KnowledgeChunk {
	return &KnowledgeChunk{
		ID:          c.ID,
		DocumentID:  c.DocumentID,
		TenantID:    c.TenantID,
		ChunkIndex:  c.Index,
		Locale:      c.Locale,
		Text:        c.Text,
		Embedding:   c.Embedding,
		TokenCount:  c.TokenCount,
		SourceURL:   c.SourceURL,
		SourceLabel: c.SourceLabel,
		CreatedAt:   c.CreatedAt,
	}
}
