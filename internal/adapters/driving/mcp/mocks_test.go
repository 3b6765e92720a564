package mcp

import (
	"context"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	result *domain.SearchResult
	err    error
	opts   domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, _ string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	m.opts = opts
	return m.result, m.err
}

func (m *mockSearchService) SearchLegacy(
	_ context.Context, _ string, opts domain.SearchOptions,
) (*domain.SearchResult, error) {
	m.opts = opts
	return m.result, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	result *domain.AnswerResult
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ domain.SearchOptions) *domain.AnswerResult {
	return m.result
}

// mockProblemService is a mock implementation of driving.ProblemService.
type mockProblemService struct {
	result *domain.SearchResult
	hints  []domain.RetrievedChunk
	err    error
	filter domain.ProblemFilter
}

func (m *mockProblemService) SearchProblems(
	_ context.Context, _ string, filter domain.ProblemFilter, _ int,
) (*domain.SearchResult, error) {
	m.filter = filter
	return m.result, m.err
}

func (m *mockProblemService) Hints(_ context.Context, _ string, _ int) ([]domain.RetrievedChunk, error) {
	return m.hints, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	records []domain.DocumentRecord
	record  *domain.DocumentRecord
	stats   map[domain.Partition]int
	err     error
}

func (m *mockIngestService) Ingest(_ context.Context, _ domain.Document) (*domain.IngestResult, error) {
	return nil, m.err
}

func (m *mockIngestService) Delete(_ context.Context, _ domain.Partition, _ string) error {
	return m.err
}

func (m *mockIngestService) Get(_ context.Context, _ domain.Partition, _ string) (*domain.DocumentRecord, error) {
	return m.record, m.err
}

func (m *mockIngestService) List(_ context.Context, _ domain.Partition) ([]domain.DocumentRecord, error) {
	return m.records, m.err
}

func (m *mockIngestService) Stats(_ context.Context) (map[domain.Partition]int, error) {
	return m.stats, m.err
}
