package httpapi

import (
	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// SearchRequest is the body of /search and /ask.
type SearchRequest struct {
	Query               string   `json:"query" validate:"required"`
	Context             string   `json:"context,omitempty"`
	NResults            int      `json:"n_results,omitempty" validate:"gte=0,lte=50"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

func (r SearchRequest) options() domain.SearchOptions {
	return domain.SearchOptions{
		ContextHint: r.Context,
		Limit:       r.NResults,
		Threshold:   r.SimilarityThreshold,
	}
}

// SimpleSearchParams are the query parameters of /search-simple.
type SimpleSearchParams struct {
	Query     string   `json:"query" validate:"required"`
	NResults  int      `json:"n_results" validate:"gte=0,lte=50"`
	Threshold *float64 `json:"similarity_threshold" validate:"omitempty,gte=0,lte=1"`
}

// ProblemSearchParams are the query parameters of /problems/search.
type ProblemSearchParams struct {
	Query      string `json:"query" validate:"required"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Topic      string `json:"topic"`
	NResults   int    `json:"n_results" validate:"gte=0,lte=50"`
}

// IngestResponse reports a stored document.
type IngestResponse struct {
	Message       string           `json:"message"`
	DocumentID    string           `json:"document_id"`
	Partition     domain.Partition `json:"partition"`
	ChunksCreated int              `json:"chunks_created"`
	StaleRemoved  int              `json:"stale_removed,omitempty"`
}

// DocumentList is the catalog listing of one partition.
type DocumentList struct {
	Partition domain.Partition        `json:"partition"`
	Documents []domain.DocumentRecord `json:"documents"`
	Count     int                     `json:"count"`
}

// ProblemSearchResponse wraps a problem search.
type ProblemSearchResponse struct {
	Query   string                  `json:"query"`
	Results []domain.RetrievedChunk `json:"results"`
	Search  *domain.SearchResult    `json:"search"`
}

// HintsResponse lists the hint chunks of one problem.
type HintsResponse struct {
	ProblemID string                  `json:"problem_id"`
	Hints     []domain.RetrievedChunk `json:"hints"`
}

// HealthResponse reports liveness and per-partition chunk counts.
type HealthResponse struct {
	Status     string                   `json:"status"`
	Partitions map[domain.Partition]int `json:"partitions,omitempty"`
	Error      string                   `json:"error,omitempty"`
}
