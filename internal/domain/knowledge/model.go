package knowledge

import (
	"context"
	"time"
)

// SourceType distinguishes crawled pages from manually entered knowledge.
type SourceType string

const (
	SourceWebsite SourceType = "website"
	SourceManual  SourceType = "manual"
)

// DocumentStatus tracks ingestion state.
type DocumentStatus string

const (
	DocumentReady  DocumentStatus = "ready"
	DocumentFailed DocumentStatus = "failed"
)

// DocumentKey is the identity of a document: one source URL per tenant,
// source type and locale.
type DocumentKey struct {
	TenantID   uint
	SourceType SourceType
	SourceURL  string
	Locale     string
}

// Document is one ingested source. Its chunks are fully replaced whenever the
// source is re-crawled.
type Document struct {
	ID         uint
	TenantID   uint
	SourceType SourceType
	SourceURL  string
	Title      string
	Locale     string
	Checksum   string
	Status     DocumentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Key returns the document's identity key.
func (d *Document) Key() DocumentKey {
	return DocumentKey{TenantID: d.TenantID, SourceType: d.SourceType, SourceURL: d.SourceURL, Locale: d.Locale}
}

// Chunk is a fixed-size slice of ingested text plus its embedding vector,
// the unit of retrieval.
type Chunk struct {
	ID          uint
	DocumentID  uint
	TenantID    uint
	Index       int
	Locale      string
	Text        string
	Embedding   []float32
	TokenCount  int
	SourceURL   string
	SourceLabel string
	CreatedAt   time.Time
}

// DocumentRepository persists knowledge documents.
type DocumentRepository interface {
	FindByKey(ctx context.Context, key DocumentKey) (*Document, error)
	Create(ctx context.Context, doc *Document) error
	Update(ctx context.Context, doc *Document) error
	// ListStale returns website documents whose last update is before cutoff.
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]*Document, error)
}

// ChunkRepository persists chunks and serves retrieval candidates.
type ChunkRepository interface {
	// ReplaceForDocument deletes the document's old chunks and inserts the new
	// set in one transaction.
	ReplaceForDocument(ctx context.Context, documentID uint, chunks []*Chunk) error
	// ListCandidates returns up to limit chunks for the tenant restricted to
	// the given locales.
	ListCandidates(ctx context.Context, tenantID uint, locales []string, limit int) ([]*Chunk, error)
}
