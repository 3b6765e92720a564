package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// scorePrecision is the number of decimal digits similarity scores are rounded to.
const scorePrecision = 4

// Retriever embeds a query, searches one partition and scores the matches.
type Retriever struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewRetriever creates a retriever over the given collaborators.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
	}
}

// Retrieve returns up to k chunks ordered by descending similarity.
// A partition that was never populated yields an empty slice, not an error.
// A chunk is relevant when its score is strictly greater than threshold.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, qc domain.QueryContext, k int, threshold float64,
) ([]domain.RetrievedChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Partition: %s, k: %d, threshold: %.2f, filter: %v", qc.Partition, k, threshold, qc.Filter.AnyOf)

	exists, err := r.store.PartitionExists(ctx, qc.Partition)
	if err != nil {
		return nil, fmt.Errorf("%w: check partition %s: %w", domain.ErrStoreQueryFailed, qc.Partition, err)
	}
	if !exists {
		logger.Debug("Partition %s has not been populated yet", qc.Partition)
		return []domain.RetrievedChunk{}, nil
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}

	matches, err := r.store.Query(ctx, qc.Partition, vector, k, qc.Filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreQueryFailed, err)
	}
	logger.Debug("Store returned %d matches", len(matches))

	chunks := make([]domain.RetrievedChunk, 0, len(matches))
	for _, m := range matches {
		score := Similarity(m.Distance)
		chunks = append(chunks, domain.RetrievedChunk{
			ID:              m.ID,
			Content:         m.Text,
			Metadata:        m.Metadata,
			SimilarityScore: score,
			IsRelevant:      score > threshold,
		})
	}

	// Stores return ascending distance already, but rounding can tie scores so re-sort.
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].SimilarityScore > chunks[j].SimilarityScore
	})

	return chunks, nil
}

// Similarity converts cosine distance to a similarity score rounded to four digits.
func Similarity(distance float64) float64 {
	p := math.Pow10(scorePrecision)
	return math.Round((1-distance)*p) / p
}

// IsSearchSuccessful reports whether any chunk reaches threshold (inclusive).
func IsSearchSuccessful(chunks []domain.RetrievedChunk, threshold float64) bool {
	return domain.SearchSucceeded(chunks, threshold)
}
