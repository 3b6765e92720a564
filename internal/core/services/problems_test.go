package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

func seedProblems(store *mockStore) {
	store.seed(domain.PartitionProblems,
		map[string]float64{
			"two-sum_description":      0.9,
			"two-sum_hints":            0.5,
			"3sum_description":         0.85,
			"lru-cache_description":    0.8,
			"median-arrays_description": 0.75,
		},
		map[string]map[string]string{
			"two-sum_description": {
				domain.MetaDocumentID: "two-sum", domain.MetaDifficulty: "easy",
				domain.MetaTopics: "arrays, hash table", domain.MetaChunkType: "problem_description",
			},
			"two-sum_hints": {
				domain.MetaDocumentID: "two-sum", domain.MetaDifficulty: "easy",
				domain.MetaTopics: "arrays, hash table", domain.MetaChunkType: "hints_guidance",
			},
			"3sum_description": {
				domain.MetaDocumentID: "3sum", domain.MetaDifficulty: "medium",
				domain.MetaTopics: "arrays, two pointers", domain.MetaChunkType: "problem_description",
			},
			"lru-cache_description": {
				domain.MetaDocumentID: "lru-cache", domain.MetaDifficulty: "medium",
				domain.MetaTopics: "design, hash table", domain.MetaChunkType: "problem_description",
			},
			"median-arrays_description": {
				domain.MetaDocumentID: "median-arrays", domain.MetaDifficulty: "hard",
				domain.MetaTopics: "binary search", domain.MetaChunkType: "problem_description",
			},
		})
}

func newTestProblemService(store *mockStore) *ProblemService {
	return NewProblemService(NewRetriever(newMockEmbedder(), store), 0)
}

func TestProblemService_SearchProblems_DefaultLimit(t *testing.T) {
	store := newMockStore()
	seedProblems(store)

	result, err := newTestProblemService(store).SearchProblems(context.Background(), "pairs", domain.ProblemFilter{}, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.PartitionProblems, result.Partition)
	assert.Len(t, result.Chunks, DefaultProblemResults)
	assert.Equal(t, "two-sum_description", result.Chunks[0].ID)
}

func TestProblemService_SearchProblems_Difficulty(t *testing.T) {
	store := newMockStore()
	seedProblems(store)

	result, err := newTestProblemService(store).SearchProblems(
		context.Background(), "pairs", domain.ProblemFilter{Difficulty: domain.DifficultyMedium}, 5)
	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	for _, c := range result.Chunks {
		assert.Equal(t, "medium", c.Metadata[domain.MetaDifficulty])
	}
}

func TestProblemService_SearchProblems_TopicAfterRetrieval(t *testing.T) {
	store := newMockStore()
	seedProblems(store)

	result, err := newTestProblemService(store).SearchProblems(
		context.Background(), "pairs", domain.ProblemFilter{Topic: "Hash Table"}, 2)
	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "two-sum_description", result.Chunks[0].ID)
	assert.Equal(t, "lru-cache_description", result.Chunks[1].ID)
}

func TestProblemService_SearchProblems_InvalidInput(t *testing.T) {
	svc := newTestProblemService(newMockStore())

	_, err := svc.SearchProblems(context.Background(), "", domain.ProblemFilter{}, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SearchProblems(context.Background(), "q", domain.ProblemFilter{Difficulty: "brutal"}, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProblemService_SearchProblems_EmptyPartition(t *testing.T) {
	result, err := newTestProblemService(newMockStore()).SearchProblems(
		context.Background(), "pairs", domain.ProblemFilter{}, 3)
	require.NoError(t, err)
	assert.Empty(t, result.Chunks)
	assert.False(t, result.Successful)
}

func TestProblemService_Hints(t *testing.T) {
	store := newMockStore()
	seedProblems(store)
	embedder := newMockEmbedder()
	svc := NewProblemService(NewRetriever(embedder, store), 0)

	hints, err := svc.Hints(context.Background(), "two-sum", 0)
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, "two-sum_hints", hints[0].ID)
	assert.Equal(t, 1, embedder.calls)
}

func TestProblemService_Hints_NotFound(t *testing.T) {
	store := newMockStore()
	seedProblems(store)

	_, err := newTestProblemService(store).Hints(context.Background(), "3sum", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = newTestProblemService(store).Hints(context.Background(), " ", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProblemService_Hints_StoreError(t *testing.T) {
	store := newMockStore()
	seedProblems(store)
	store.queryErr = errMock

	_, err := newTestProblemService(store).Hints(context.Background(), "two-sum", 3)
	assert.ErrorIs(t, err, domain.ErrStoreQueryFailed)
}
