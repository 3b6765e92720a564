package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailybit/internal/adapters/driven/validation"
	"github.com/custodia-labs/dailybit/internal/core/domain"
)

type fixture struct {
	ingest   *mockIngestService
	search   *mockSearchService
	answer   *mockAnswerService
	problems *mockProblemService
	metrics  *mockMetrics
	server   *Server
}

func newFixture() *fixture {
	f := &fixture{
		ingest:   &mockIngestService{},
		search:   &mockSearchService{},
		answer:   &mockAnswerService{},
		problems: &mockProblemService{},
		metrics:  &mockMetrics{},
	}
	f.server = NewServer(Services{
		Ingest:   f.ingest,
		Search:   f.search,
		Answer:   f.answer,
		Problems: f.problems,
		Metrics:  f.metrics,
	}, Config{Addr: ":0"}, nil)
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture()
	f.ingest.stats = map[domain.Partition]int{domain.PartitionTopics: 4, domain.PartitionProblems: 0}

	rec := f.do(http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 4, resp.Partitions[domain.PartitionTopics])
}

func TestHealth_StoreDown(t *testing.T) {
	f := newFixture()
	f.ingest.err = fmt.Errorf("%w: dial tcp", domain.ErrStoreQueryFailed)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decodeBody[HealthResponse](t, rec).Status)
}

func TestIngestTopic(t *testing.T) {
	f := newFixture()
	f.ingest.result = &domain.IngestResult{DocumentID: "binary-search", Partition: domain.PartitionTopics, ChunksCreated: 4}

	rec := f.do(http.MethodPost, "/api/v1/topics/ingest",
		`{"title":"Binary Search","category":"algorithm","difficulty":"beginner","definition":"Halve the range."}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[IngestResponse](t, rec)
	assert.Equal(t, 4, resp.ChunksCreated)
	assert.Equal(t, "binary-search", resp.DocumentID)
	assert.Equal(t, "Successfully ingested topic 'Binary Search' with 4 chunks.", resp.Message)

	topic, ok := f.ingest.ingested.(*domain.Topic)
	require.True(t, ok)
	assert.Equal(t, "Halve the range.", topic.Definition)
}

func TestIngestProblem_ValidationError(t *testing.T) {
	f := newFixture()
	f.ingest.err = &validation.Error{
		Message: "validation failed",
		Fields:  map[string]string{"difficulty": "difficulty must be one of: easy medium hard"},
	}

	rec := f.do(http.MethodPost, "/api/v1/problems/ingest", `{"title":"Two Sum","difficulty":"extreme"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "difficulty must be one of: easy medium hard", resp.Fields["difficulty"])
	_, ok := f.ingest.ingested.(*domain.Problem)
	assert.True(t, ok)
}

func TestIngest_MalformedBody(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/topics/ingest", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, f.ingest.ingested)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		status       int
		collaborator string
	}{
		{"not found", fmt.Errorf("%w: document x", domain.ErrNotFound), http.StatusNotFound, ""},
		{"invalid", fmt.Errorf("%w: query is empty", domain.ErrInvalidInput), http.StatusBadRequest, ""},
		{"embedding", fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, assert.AnError), http.StatusBadGateway, "embedding"},
		{"store", fmt.Errorf("%w: %w", domain.ErrStoreQueryFailed, assert.AnError), http.StatusBadGateway, "vector_store"},
		{"other", assert.AnError, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.search.err = tt.err

			rec := f.do(http.MethodPost, "/api/v1/search", `{"query":"what is a heap"}`)

			require.Equal(t, tt.status, rec.Code)
			resp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, tt.err.Error(), resp.Error)
			assert.Equal(t, tt.collaborator, resp.Collaborator)
		})
	}
}

func TestSearch(t *testing.T) {
	f := newFixture()
	f.search.result = domain.NewSearchResult("binary search", "topic:Binary Search", domain.PartitionTopics,
		[]domain.RetrievedChunk{{ID: "c1", SimilarityScore: 0.9, IsRelevant: true}}, 0.7)

	rec := f.do(http.MethodPost, "/api/v1/search",
		`{"query":"binary search","context":"topic:Binary Search","n_results":3,"similarity_threshold":0.5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "topic:Binary Search", f.search.opts.ContextHint)
	assert.Equal(t, 3, f.search.opts.Limit)
	require.NotNil(t, f.search.opts.Threshold)
	assert.InDelta(t, 0.5, *f.search.opts.Threshold, 1e-9)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["is_successful"])
	assert.Equal(t, "topics", body["collection_type"])
}

func TestSearch_RequestValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing query", `{"n_results":3}`, "query"},
		{"too many results", `{"query":"q","n_results":80}`, "n_results"},
		{"threshold above one", `{"query":"q","similarity_threshold":1.5}`, "similarity_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			rec := f.do(http.MethodPost, "/api/v1/search", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody[ErrorResponse](t, rec).Fields, tt.field)
			assert.Empty(t, f.search.query)
		})
	}
}

func TestSearchSimple(t *testing.T) {
	f := newFixture()
	f.search.result = domain.NewSearchResult("two sum", "", domain.PartitionProblems, nil, 0.6)

	rec := f.do(http.MethodGet, "/api/v1/search-simple?query=two+sum&n_results=2&threshold=0.6", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.search.legacy)
	assert.Equal(t, "two sum", f.search.query)
	assert.Equal(t, 2, f.search.opts.Limit)
	require.NotNil(t, f.search.opts.Threshold)
	assert.InDelta(t, 0.6, *f.search.opts.Threshold, 1e-9)
}

func TestSearchSimple_BadParam(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/search-simple?query=q&n_results=five", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "n_results must be an integer", decodeBody[ErrorResponse](t, rec).Fields["n_results"])
}

func TestAsk_FailureIsStillOK(t *testing.T) {
	f := newFixture()
	f.answer.result = domain.FailedAnswer("what is a heap", "", assert.AnError)

	rec := f.do(http.MethodPost, "/api/v1/ask", `{"query":"what is a heap"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[domain.AnswerResult](t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "RAG pipeline failed")
}

func TestDocuments(t *testing.T) {
	f := newFixture()
	f.ingest.records = []domain.DocumentRecord{{ID: "two-sum", Partition: domain.PartitionProblems, Title: "Two Sum"}}
	f.ingest.record = &f.ingest.records[0]

	rec := f.do(http.MethodGet, "/api/v1/problems/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[DocumentList](t, rec)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, domain.PartitionProblems, list.Partition)

	rec = f.do(http.MethodGet, "/api/v1/problems/documents/two-sum", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Two Sum", decodeBody[domain.DocumentRecord](t, rec).Title)

	rec = f.do(http.MethodDelete, "/api/v1/topics/documents/heap", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "heap", f.ingest.deleted)
}

func TestDocuments_EmptyListAndUnknownPartition(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/topics/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"documents":[]`)

	rec = f.do(http.MethodGet, "/api/v1/quizzes/documents", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Fields, "partition")
}

func TestProblemSearch(t *testing.T) {
	f := newFixture()
	f.problems.result = domain.NewSearchResult("two numbers", "", domain.PartitionProblems,
		[]domain.RetrievedChunk{{ID: "two-sum_description", SimilarityScore: 0.8, IsRelevant: true}}, 0.7)

	rec := f.do(http.MethodGet, "/api/v1/problems/search?query=two+numbers&difficulty=easy&topic=array&n_results=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DifficultyEasy, f.problems.filter.Difficulty)
	assert.Equal(t, "array", f.problems.filter.Topic)
	assert.Equal(t, 2, f.problems.limit)
	resp := decodeBody[ProblemSearchResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "two-sum_description", resp.Results[0].ID)
}

func TestProblemSearch_BadDifficulty(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/problems/search?query=q&difficulty=extreme", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Fields, "difficulty")
}

func TestHints(t *testing.T) {
	f := newFixture()
	f.problems.hints = []domain.RetrievedChunk{{ID: "two-sum_hints", Content: "Use a map."}}

	rec := f.do(http.MethodGet, "/api/v1/problems/two-sum/hints?n_hints=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[HintsResponse](t, rec)
	assert.Equal(t, "two-sum", resp.ProblemID)
	assert.Len(t, resp.Hints, 1)
	assert.Equal(t, 1, f.problems.limit)
}

func TestHints_NotFound(t *testing.T) {
	f := newFixture()
	f.problems.err = fmt.Errorf("%w: no hints for problem x", domain.ErrNotFound)

	rec := f.do(http.MethodGet, "/api/v1/problems/x/hints", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpointAndInstrumentation(t *testing.T) {
	f := newFixture()
	f.ingest.stats = map[domain.Partition]int{}

	rec := f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")

	f.do(http.MethodGet, "/health", "")
	assert.Contains(t, f.metrics.routes, "GET /health")
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSearch_ConfiguredDefaults(t *testing.T) {
	f := newFixture()
	f.server = NewServer(Services{
		Ingest: f.ingest, Search: f.search, Answer: f.answer, Problems: f.problems,
	}, Config{Retrieval: domain.RetrievalSettings{NResults: 8, SimilarityThreshold: 0.6}}, nil)
	f.search.result = domain.NewSearchResult("q", "", domain.PartitionTopics, nil, 0.6)

	rec := f.do(http.MethodPost, "/api/v1/search", `{"query":"q"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, f.search.opts.Limit)
	require.NotNil(t, f.search.opts.Threshold)
	assert.InDelta(t, 0.6, *f.search.opts.Threshold, 1e-9)

	rec = f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
