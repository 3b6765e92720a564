package driving

import (
	"context"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// SearchService retrieves scored chunks for a query.
type SearchService interface {
	// Search routes the query with opts.ContextHint and retrieves chunks.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error)

	// SearchLegacy infers the partition from the query text alone.
	// opts.ContextHint is ignored.
	SearchLegacy(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error)
}

// AnswerService produces retrieval-augmented answers.
type AnswerService interface {
	// Answer never returns an error; failures are reported in the result.
	Answer(ctx context.Context, query string, opts domain.SearchOptions) *domain.AnswerResult
}

// ProblemService offers problem-specific lookups.
type ProblemService interface {
	// SearchProblems finds problems similar to the query.
	SearchProblems(
		ctx context.Context, query string, filter domain.ProblemFilter, limit int,
	) (*domain.SearchResult, error)

	// Hints returns the hint chunks of one problem.
	Hints(ctx context.Context, problemID string, limit int) ([]domain.RetrievedChunk, error)
}
