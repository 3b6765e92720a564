package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService resolves a query's context and retrieves scored chunks.
type SearchService struct {
	resolver  *ContextResolver
	retriever *Retriever
	metrics   driven.MetricsRecorder
}

// NewSearchService creates a new search service.
// The metrics parameter is optional (can be nil).
func NewSearchService(resolver *ContextResolver, retriever *Retriever, metrics driven.MetricsRecorder) *SearchService {
	return &SearchService{
		resolver:  resolver,
		retriever: retriever,
		metrics:   metrics,
	}
}

// Search routes the query using opts.ContextHint and retrieves chunks.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, context: %q", query, opts.ContextHint)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	qc := s.resolver.Resolve(opts.ContextHint)
	return s.run(ctx, query, opts.ContextHint, qc, opts)
}

// SearchLegacy classifies the query text to pick a partition, with no filter.
func (s *SearchService) SearchLegacy(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResult, error) {
	logger.Section("Legacy Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	qc, err := s.resolver.Classify(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("classify query: %w", err)
	}
	logger.Info("Classified query into %s", qc.Partition)

	return s.run(ctx, query, "", qc, opts)
}

func (s *SearchService) run(
	ctx context.Context, query, hint string, qc domain.QueryContext, opts domain.SearchOptions,
) (*domain.SearchResult, error) {
	start := time.Now()
	threshold := opts.EffectiveThreshold()

	chunks, err := s.retriever.Retrieve(ctx, query, qc, opts.EffectiveLimit(), threshold)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}

	for i := range chunks {
		chunks[i].ContextUsed = hint
	}

	result := domain.NewSearchResult(query, hint, qc.Partition, chunks, threshold)
	logger.Debug("Found %d chunks, %d relevant, success=%t, top=%.4f",
		result.TotalChunks, result.RelevantChunks, result.Successful, result.TopSimilarity)

	if s.metrics != nil {
		s.metrics.ObserveSearch(qc.Partition, result.TotalChunks, result.Successful, time.Since(start))
	}

	return result, nil
}
