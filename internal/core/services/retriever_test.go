package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		distance float64
		expected float64
	}{
		{0, 1},
		{0.25, 0.75},
		{0.3, 0.7},
		{0.123449, 0.8766},
		{1, 0},
		{1.5, -0.5},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, Similarity(tt.distance), 1e-9, "distance %v", tt.distance)
	}
}

func TestSimilarity_Monotonic(t *testing.T) {
	prev := Similarity(0)
	for d := 0.01; d <= 2; d += 0.01 {
		s := Similarity(d)
		assert.LessOrEqual(t, s, prev)
		prev = s
	}
}

func TestRetriever_EmptyPartition(t *testing.T) {
	embedder := newMockEmbedder()
	r := NewRetriever(embedder, newMockStore())

	chunks, err := r.Retrieve(context.Background(), "q", domain.QueryContext{Partition: domain.PartitionTopics}, 5, 0.7)
	require.NoError(t, err)
	assert.NotNil(t, chunks)
	assert.Empty(t, chunks)
	assert.Equal(t, 0, embedder.calls)
}

func TestRetriever_ScoresAndOrders(t *testing.T) {
	store := newMockStore()
	store.seed(domain.PartitionTopics, map[string]float64{"low": 0.5, "edge": 0.7, "high": 0.9}, nil)
	r := NewRetriever(newMockEmbedder(), store)

	chunks, err := r.Retrieve(context.Background(), "q", domain.QueryContext{Partition: domain.PartitionTopics}, 5, 0.7)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "high", chunks[0].ID)
	assert.InDelta(t, 0.9, chunks[0].SimilarityScore, 1e-9)
	assert.True(t, chunks[0].IsRelevant)

	// Exactly at the threshold is not relevant, but the search still succeeds.
	assert.Equal(t, "edge", chunks[1].ID)
	assert.InDelta(t, 0.7, chunks[1].SimilarityScore, 1e-9)
	assert.False(t, chunks[1].IsRelevant)

	assert.Equal(t, "low", chunks[2].ID)
	assert.False(t, chunks[2].IsRelevant)

	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i-1].SimilarityScore, chunks[i].SimilarityScore)
	}
}

func TestRetriever_BoundaryOnlyIsSuccessful(t *testing.T) {
	store := newMockStore()
	store.seed(domain.PartitionTopics, map[string]float64{"edge": 0.7}, nil)
	r := NewRetriever(newMockEmbedder(), store)

	chunks, err := r.Retrieve(context.Background(), "q", domain.QueryContext{Partition: domain.PartitionTopics}, 5, 0.7)
	require.NoError(t, err)

	assert.True(t, IsSearchSuccessful(chunks, 0.7))
	assert.Equal(t, 0, domain.NewSearchResult("q", "", domain.PartitionTopics, chunks, 0.7).RelevantChunks)
}

func TestRetriever_RespectsKAndFilter(t *testing.T) {
	store := newMockStore()
	store.seed(domain.PartitionProblems,
		map[string]float64{"a": 0.9, "b": 0.8, "c": 0.95},
		map[string]map[string]string{
			"a": {domain.MetaDocumentID: "two-sum"},
			"b": {domain.MetaDocumentID: "two-sum"},
			"c": {domain.MetaDocumentID: "3sum"},
		})
	r := NewRetriever(newMockEmbedder(), store)

	qc := domain.QueryContext{
		Partition: domain.PartitionProblems,
		Filter:    domain.MatchAll(map[string]string{domain.MetaDocumentID: "two-sum"}),
	}
	chunks, err := r.Retrieve(context.Background(), "q", qc, 1, 0.7)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a", chunks[0].ID)
}

func TestRetriever_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*mockEmbedder, *mockStore)
		sentinel error
	}{
		{
			name:     "existence check",
			setup:    func(_ *mockEmbedder, s *mockStore) { s.existsErr = errMock },
			sentinel: domain.ErrStoreQueryFailed,
		},
		{
			name:     "embedding",
			setup:    func(e *mockEmbedder, _ *mockStore) { e.err = errMock },
			sentinel: domain.ErrEmbeddingFailed,
		},
		{
			name:     "query",
			setup:    func(_ *mockEmbedder, s *mockStore) { s.queryErr = errMock },
			sentinel: domain.ErrStoreQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := newMockEmbedder()
			store := newMockStore()
			store.seed(domain.PartitionTopics, map[string]float64{"a": 0.9}, nil)
			tt.setup(embedder, store)

			_, err := NewRetriever(embedder, store).Retrieve(
				context.Background(), "q", domain.QueryContext{Partition: domain.PartitionTopics}, 5, 0.7)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, errMock)
		})
	}
}
