package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result  *domain.IngestResult
	record  *domain.DocumentRecord
	records []domain.DocumentRecord
	stats   map[domain.Partition]int
	err     error

	ingested domain.Document
	deleted  string
}

func (m *mockIngestService) Ingest(_ context.Context, doc domain.Document) (*domain.IngestResult, error) {
	m.ingested = doc
	return m.result, m.err
}

func (m *mockIngestService) Delete(_ context.Context, _ domain.Partition, id string) error {
	m.deleted = id
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

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	result *domain.SearchResult
	err    error

	query  string
	opts   domain.SearchOptions
	legacy bool
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	m.query, m.opts = query, opts
	return m.result, m.err
}

func (m *mockSearchService) SearchLegacy(
	_ context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResult, error) {
	m.query, m.opts, m.legacy = query, opts, true
	return m.result, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	result *domain.AnswerResult
	opts   domain.SearchOptions
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, opts domain.SearchOptions) *domain.AnswerResult {
	m.opts = opts
	return m.result
}

// mockProblemService is a mock implementation of driving.ProblemService.
type mockProblemService struct {
	result *domain.SearchResult
	hints  []domain.RetrievedChunk
	err    error

	filter domain.ProblemFilter
	limit  int
}

func (m *mockProblemService) SearchProblems(
	_ context.Context, _ string, filter domain.ProblemFilter, limit int,
) (*domain.SearchResult, error) {
	m.filter, m.limit = filter, limit
	return m.result, m.err
}

func (m *mockProblemService) Hints(_ context.Context, _ string, limit int) ([]domain.RetrievedChunk, error) {
	m.limit = limit
	return m.hints, m.err
}

// mockMetrics records observed routes.
type mockMetrics struct {
	mu     sync.Mutex
	routes []string
}

func (m *mockMetrics) ObserveHTTP(method, route string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, method+" "+route)
}

func (m *mockMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
}
