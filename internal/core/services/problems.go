package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// Ensure ProblemService implements the interface.
var _ driving.ProblemService = (*ProblemService)(nil)

const (
	// DefaultProblemResults is the number of problems returned when the caller gives none.
	DefaultProblemResults = 3

	// DefaultHintResults is the number of hint chunks returned when the caller gives none.
	DefaultHintResults = 3

	// hintsQuery is embedded to rank a problem's hint chunks.
	hintsQuery = "hints guidance help stuck"

	// topicOverfetch widens retrieval when the topic filter runs after the store query.
	topicOverfetch = 3
)

// ProblemService searches the problems partition and looks up hints.
type ProblemService struct {
	retriever *Retriever
	threshold float64
}

// NewProblemService creates a new problem service.
// A non-positive threshold uses the default similarity threshold.
func NewProblemService(retriever *Retriever, threshold float64) *ProblemService {
	if threshold <= 0 {
		threshold = domain.DefaultSimilarityThreshold
	}
	return &ProblemService{
		retriever: retriever,
		threshold: threshold,
	}
}

// SearchProblems finds problems similar to query.
// Difficulty is matched by the store; topic is matched afterwards against
// the comma-joined topics metadata, so the store is asked for more results.
func (s *ProblemService) SearchProblems(
	ctx context.Context, query string, filter domain.ProblemFilter, limit int,
) (*domain.SearchResult, error) {
	logger.Section("Problem Search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if filter.Difficulty != "" && !filter.Difficulty.IsValid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidInput, filter.Difficulty)
	}
	if limit <= 0 {
		limit = DefaultProblemResults
	}

	qc := domain.QueryContext{Partition: domain.PartitionProblems}
	if filter.Difficulty != "" {
		qc.Filter = domain.MatchAll(map[string]string{domain.MetaDifficulty: string(filter.Difficulty)})
	}

	k := limit
	topic := strings.TrimSpace(filter.Topic)
	if topic != "" {
		k = min(limit*topicOverfetch, domain.MaxResultLimit)
	}
	logger.Debug("Difficulty: %q, topic: %q, k: %d", filter.Difficulty, topic, k)

	chunks, err := s.retriever.Retrieve(ctx, query, qc, k, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("search problems: %w", err)
	}

	if topic != "" {
		chunks = filterByTopic(chunks, topic)
	}
	if len(chunks) > limit {
		chunks = chunks[:limit]
	}

	return domain.NewSearchResult(query, "", domain.PartitionProblems, chunks, s.threshold), nil
}

// Hints returns the hint chunks of one problem.
func (s *ProblemService) Hints(ctx context.Context, problemID string, limit int) ([]domain.RetrievedChunk, error) {
	logger.Section("Problem Hints")

	problemID = strings.TrimSpace(problemID)
	if problemID == "" {
		return nil, fmt.Errorf("%w: problem id is empty", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultHintResults
	}

	qc := domain.QueryContext{
		Partition: domain.PartitionProblems,
		Filter: domain.MatchAll(map[string]string{
			domain.MetaDocumentID: problemID,
			domain.MetaChunkType:  string(domain.ChunkHintsGuidance),
		}),
	}

	chunks, err := s.retriever.Retrieve(ctx, hintsQuery, qc, limit, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("problem hints: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no hints for problem %s", domain.ErrNotFound, problemID)
	}

	logger.Debug("Found %d hint chunks for %s", len(chunks), problemID)
	return chunks, nil
}

// filterByTopic keeps chunks whose topics metadata lists topic, case-insensitively.
func filterByTopic(chunks []domain.RetrievedChunk, topic string) []domain.RetrievedChunk {
	want := strings.ToLower(topic)
	kept := chunks[:0]
	for _, c := range chunks {
		for _, t := range strings.Split(c.Metadata[domain.MetaTopics], ",") {
			if strings.ToLower(strings.TrimSpace(t)) == want {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}
