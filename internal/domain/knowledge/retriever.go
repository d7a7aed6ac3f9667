package knowledge

import (
	"context"
	"math"
	"sort"

	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// Retrieval parameters: a bounded brute-force scan over the tenant's chunks.
// Per-tenant volumes stay small enough that an index is not worth its
// operational cost; the contract (query in, ranked chunks out) allows swapping
// in an indexed vector search later.
const (
	maxCandidates   = 250
	similarityFloor = 0.2
	topK            = 6
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ScoredChunk is a retrieval hit with its similarity score.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// Retriever ranks tenant knowledge chunks against a query.
type Retriever struct {
	embedder Embedder
	chunks   ChunkRepository
}

// NewRetriever constructs the retriever.
func NewRetriever(embedder Embedder, chunks ChunkRepository) *Retriever {
	return &Retriever{embedder: embedder, chunks: chunks}
}

// Retrieve embeds the query, scores candidate chunks for the tenant in
// {locale, en} by cosine similarity, drops anything below the floor and
// returns the top matches in strictly descending score order. Chunks without
// a usable vector are skipped.
func (r *Retriever) Retrieve(ctx context.Context, tenantID uint, locale, query string) ([]ScoredChunk, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, "embed query", err)
	}

	locales := []string{"en"}
	if locale != "" && locale != "en" {
		locales = []string{locale, "en"}
	}

	candidates, err := r.chunks.ListCandidates(ctx, tenantID, locales, maxCandidates)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list candidate chunks")
	}

	scored := make([]ScoredChunk, 0, len(candidates))
	for _, chunk := range candidates {
		if len(chunk.Embedding) == 0 || len(chunk.Embedding) != len(vector) {
			continue
		}
		score := CosineSimilarity(vector, chunk.Embedding)
		if score < similarityFloor {
			continue
		}
		scored = append(scored, ScoredChunk{Chunk: chunk, Score: score})
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
