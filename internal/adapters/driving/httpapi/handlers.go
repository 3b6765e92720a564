package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/dailybit/internal/adapters/driven/validation"
	"github.com/custodia-labs/dailybit/internal/core/domain"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Ingest.Stats(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Partitions: stats})
}

func (s *Server) handleIngestTopic(w http.ResponseWriter, r *http.Request) {
	var topic domain.Topic
	if err := decode(r, &topic); err != nil {
		s.writeError(w, err)
		return
	}
	s.ingest(w, r, &topic, "topic")
}

func (s *Server) handleIngestProblem(w http.ResponseWriter, r *http.Request) {
	var problem domain.Problem
	if err := decode(r, &problem); err != nil {
		s.writeError(w, err)
		return
	}
	s.ingest(w, r, &problem, "problem")
}

func (s *Server) ingest(w http.ResponseWriter, r *http.Request, doc domain.Document, kind string) {
	result, err := s.svc.Ingest.Ingest(r.Context(), doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, IngestResponse{
		Message: fmt.Sprintf("Successfully ingested %s '%s' with %d chunks.",
			kind, doc.DocumentTitle(), result.ChunksCreated),
		DocumentID:    result.DocumentID,
		Partition:     result.Partition,
		ChunksCreated: result.ChunksCreated,
		StaleRemoved:  result.StaleRemoved,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	partition, ok := s.partition(w, r)
	if !ok {
		return
	}
	records, err := s.svc.Ingest.List(r.Context(), partition)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.DocumentRecord{}
	}
	s.writeJSON(w, http.StatusOK, DocumentList{Partition: partition, Documents: records, Count: len(records)})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	partition, ok := s.partition(w, r)
	if !ok {
		return
	}
	record, err := s.svc.Ingest.Get(r.Context(), partition, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	partition, ok := s.partition(w, r)
	if !ok {
		return
	}
	if err := s.svc.Ingest.Delete(r.Context(), partition, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.searchRequest(w, r)
	if !ok {
		return
	}
	result, err := s.svc.Search.Search(r.Context(), req.Query, s.withDefaults(req.options()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearchSimple(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := SimpleSearchParams{Query: q.Get("query")}

	var err error
	if params.NResults, err = intParam(q.Get("n_results"), "n_results"); err != nil {
		s.writeError(w, err)
		return
	}
	// The legacy endpoint named this parameter "threshold".
	raw := q.Get("similarity_threshold")
	if raw == "" {
		raw = q.Get("threshold")
	}
	if params.Threshold, err = floatParam(raw, "similarity_threshold"); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.svc.Validator.Struct(params); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.svc.Search.SearchLegacy(r.Context(), params.Query, s.withDefaults(domain.SearchOptions{
		Limit:     params.NResults,
		Threshold: params.Threshold,
	}))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	req, ok := s.searchRequest(w, r)
	if !ok {
		return
	}
	// Failures are reported inside the result; the request itself succeeded.
	s.writeJSON(w, http.StatusOK, s.svc.Answer.Answer(r.Context(), req.Query, s.withDefaults(req.options())))
}

func (s *Server) handleSearchProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ProblemSearchParams{
		Query:      q.Get("query"),
		Difficulty: q.Get("difficulty"),
		Topic:      q.Get("topic"),
	}

	var err error
	if params.NResults, err = intParam(q.Get("n_results"), "n_results"); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.svc.Validator.Struct(params); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.svc.Problems.SearchProblems(r.Context(), params.Query, domain.ProblemFilter{
		Difficulty: domain.ProblemDifficulty(params.Difficulty),
		Topic:      params.Topic,
	}, params.NResults)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ProblemSearchResponse{Query: params.Query, Results: result.Chunks, Search: result})
}

func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := intParam(r.URL.Query().Get("n_hints"), "n_hints")
	if err != nil {
		s.writeError(w, err)
		return
	}

	hints, err := s.svc.Problems.Hints(r.Context(), id, n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, HintsResponse{ProblemID: id, Hints: hints})
}

func (s *Server) searchRequest(w http.ResponseWriter, r *http.Request) (SearchRequest, bool) {
	var req SearchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return req, false
	}
	if err := s.svc.Validator.Struct(req); err != nil {
		s.writeError(w, err)
		return req, false
	}
	return req, true
}

func (s *Server) partition(w http.ResponseWriter, r *http.Request) (domain.Partition, bool) {
	raw := chi.URLParam(r, "partition")
	p, ok := domain.ParsePartition(raw)
	if !ok {
		s.writeError(w, &validation.Error{
			Message: "unknown partition",
			Fields:  map[string]string{"partition": fmt.Sprintf("partition must be one of: topics problems (got %q)", raw)},
		})
		return "", false
	}
	return p, true
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &validation.Error{
			Message: "invalid query parameter",
			Fields:  map[string]string{name: name + " must be an integer"},
		}
	}
	return n, nil
}

func floatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &validation.Error{
			Message: "invalid query parameter",
			Fields:  map[string]string{name: name + " must be a number"},
		}
	}
	return &f, nil
}
