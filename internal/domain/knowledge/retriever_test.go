package knowledge_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/knowledge"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return s.vector, s.err
}

type stubChunks struct {
	candidates []*knowledge.Chunk
	locales    []string
}

func (s *stubChunks) ReplaceForDocument(_ context.Context, _ uint, _ []*knowledge.Chunk) error {
	return nil
}

func (s *stubChunks) ListCandidates(_ context.Context, _ uint, locales []string, _ int) ([]*knowledge.Chunk, error) {
	s.locales = locales
	return s.candidates, nil
}

func chunk(id uint, embedding []float32) *knowledge.Chunk {
	return &knowledge.Chunk{ID: id, Text: fmt.Sprintf("chunk %d", id), Embedding: embedding}
}

func TestRetriever_Retrieve_RanksAndFilters(t *testing.T) {
	repo := &stubChunks{candidates: []*knowledge.Chunk{
		chunk(1, []float32{1, 0, 0}),      // similarity 1.0
		chunk(2, []float32{0.7, 0.7, 0}),  // ~0.71
		chunk(3, []float32{0, 1, 0}),      // 0.0, below floor
		chunk(4, []float32{-1, 0, 0}),     // negative, below floor
		chunk(5, nil),                     // no vector, skipped
		chunk(6, []float32{1, 0}),         // dimension mismatch, skipped
		chunk(7, []float32{0.9, 0.44, 0}), // ~0.9
	}}
	retriever := knowledge.NewRetriever(&stubEmbedder{vector: []float32{1, 0, 0}}, repo)

	scored, err := retriever.Retrieve(context.Background(), 1, "en", "pricing")
	require.NoError(t, err)
	require.Len(t, scored, 3)

	assert.Equal(t, uint(1), scored[0].Chunk.ID)
	assert.Equal(t, uint(7), scored[1].Chunk.ID)
	assert.Equal(t, uint(2), scored[2].Chunk.ID)
	for i := 1; i < len(scored); i++ {
		assert.Greater(t, scored[i-1].Score, scored[i].Score)
	}
}

func TestRetriever_Retrieve_CapsResults(t *testing.T) {
	repo := &stubChunks{}
	for i := uint(1); i <= 20; i++ {
		repo.candidates = append(repo.candidates, chunk(i, []float32{1, 0, 0}))
	}
	retriever := knowledge.NewRetriever(&stubEmbedder{vector: []float32{1, 0, 0}}, repo)

	scored, err := retriever.Retrieve(context.Background(), 1, "en", "anything")
	require.NoError(t, err)
	assert.Len(t, scored, 6)
}

func TestRetriever_Retrieve_LocaleFallback(t *testing.T) {
	repo := &stubChunks{}
	retriever := knowledge.NewRetriever(&stubEmbedder{vector: []float32{1}}, repo)

	_, err := retriever.Retrieve(context.Background(), 1, "fr", "bonjour")
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "en"}, repo.locales)

	_, err = retriever.Retrieve(context.Background(), 1, "en", "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, repo.locales)

	_, err = retriever.Retrieve(context.Background(), 1, "", "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, repo.locales)
}

func TestRetriever_Retrieve_EmbedFailure(t *testing.T) {
	retriever := knowledge.NewRetriever(&stubEmbedder{err: fmt.Errorf("provider down")}, &stubChunks{})

	_, err := retriever.Retrieve(context.Background(), 1, "en", "q")
	require.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "length mismatch", a: []float32{1, 0}, b: []float32{1}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, knowledge.CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
