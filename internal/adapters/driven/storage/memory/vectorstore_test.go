package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

func seedStore(t *testing.T) *VectorStore {
	t.Helper()
	s := NewVectorStore()
	err := s.Upsert(context.Background(), domain.PartitionProblems, []driven.VectorRecord{
		{ID: "a", Text: "A", Embedding: []float32{1, 0}, Metadata: map[string]string{"title": "A", "document_id": "a"}},
		{ID: "b", Text: "B", Embedding: []float32{0.8, 0.6}, Metadata: map[string]string{"title": "B", "document_id": "b"}},
		{ID: "c", Text: "C", Embedding: []float32{0, 1}, Metadata: map[string]string{"title": "C", "document_id": "c"}},
	})
	require.NoError(t, err)
	return s
}

func TestVectorStore_PartitionExists(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	ok, err := s.PartitionExists(ctx, domain.PartitionProblems)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.PartitionExists(ctx, domain.PartitionTopics)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVectorStore_QueryOrdersByDistance(t *testing.T) {
	s := seedStore(t)

	matches, err := s.Query(context.Background(), domain.PartitionProblems, []float32{1, 0}, 2, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
	assert.Equal(t, "b", matches[1].ID)
	assert.InDelta(t, 0.2, matches[1].Distance, 1e-6)
}

func TestVectorStore_QueryFilter(t *testing.T) {
	s := seedStore(t)
	filter := domain.MatchAny(
		map[string]string{"title": "c"},
		map[string]string{"document_id": "c"},
	)

	matches, err := s.Query(context.Background(), domain.PartitionProblems, []float32{1, 0}, 5, filter)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Distance, 1e-6)
}

func TestVectorStore_UpsertOverwrites(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, domain.PartitionProblems, []driven.VectorRecord{
		{ID: "a", Text: "A2", Embedding: []float32{1, 0}},
	}))

	n, err := s.Count(ctx, domain.PartitionProblems)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	matches, err := s.Query(ctx, domain.PartitionProblems, []float32{1, 0}, 1, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "A2", matches[0].Text)
}

func TestVectorStore_UpsertRejectsMissingEmbedding(t *testing.T) {
	s := NewVectorStore()
	err := s.Upsert(context.Background(), domain.PartitionTopics, []driven.VectorRecord{{ID: "x"}})
	assert.Error(t, err)

	ok, _ := s.PartitionExists(context.Background(), domain.PartitionTopics)
	assert.False(t, ok)
}

func TestVectorStore_DimensionMismatch(t *testing.T) {
	s := seedStore(t)
	_, err := s.Query(context.Background(), domain.PartitionProblems, []float32{1, 0, 0}, 3, domain.Filter{})
	assert.Error(t, err)
}

func TestVectorStore_Delete(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, domain.PartitionProblems, []string{"a", "missing"}))

	n, err := s.Count(ctx, domain.PartitionProblems)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, CosineDistance([]float32{2, 0}, []float32{5, 0}), 1e-9)
	assert.InDelta(t, 1.0, CosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, CosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.InDelta(t, 1.0, CosineDistance([]float32{0, 0}, []float32{1, 0}), 1e-9)
}
