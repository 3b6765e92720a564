package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/custodia-labs/dailybit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

var errMock = errors.New("mock failure")

// unitVec returns a 2D unit vector whose cosine with [1, 0] is c.
func unitVec(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c))}
}

// mockEmbedder returns vectors by exact text, falling back to def.
type mockEmbedder struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	def        []float32
	err        error
	batchErr   error
	short      bool
	calls      int
	batchCalls int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{vectors: map[string][]float32{}, def: []float32{1, 0}}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.def, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	batchErr, short := m.batchErr, m.short
	m.mu.Unlock()
	if batchErr != nil {
		return nil, batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int             { return len(m.def) }
func (m *mockEmbedder) ModelName() string           { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                { return nil }

// mockStore wraps the in-memory store with injectable failures.
type mockStore struct {
	*memory.VectorStore
	existsErr error
	queryErr  error
	upsertErr error
	deleteErr error
	countErr  error
	upserts   int
}

func newMockStore() *mockStore {
	return &mockStore{VectorStore: memory.NewVectorStore()}
}

func (m *mockStore) PartitionExists(ctx context.Context, p domain.Partition) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.VectorStore.PartitionExists(ctx, p)
}

func (m *mockStore) Query(
	ctx context.Context, p domain.Partition, v []float32, k int, f domain.Filter,
) ([]driven.VectorMatch, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.VectorStore.Query(ctx, p, v, k, f)
}

func (m *mockStore) Upsert(ctx context.Context, p domain.Partition, records []driven.VectorRecord) error {
	m.upserts++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	return m.VectorStore.Upsert(ctx, p, records)
}

func (m *mockStore) Delete(ctx context.Context, p domain.Partition, ids []string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	return m.VectorStore.Delete(ctx, p, ids)
}

func (m *mockStore) Count(ctx context.Context, p domain.Partition) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.VectorStore.Count(ctx, p)
}

// seed stores records with vectors whose cosine with [1, 0] is given by scores.
func (m *mockStore) seed(p domain.Partition, scores map[string]float64, meta map[string]map[string]string) {
	records := make([]driven.VectorRecord, 0, len(scores))
	for id, c := range scores {
		records = append(records, driven.VectorRecord{
			ID:        id,
			Text:      "text of " + id,
			Embedding: unitVec(c),
			Metadata:  meta[id],
		})
	}
	if err := m.VectorStore.Upsert(context.Background(), p, records); err != nil {
		panic(err)
	}
}

// mockLLM records the last conversation.
type mockLLM struct {
	response string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	calls    int
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return m.response, m.err
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	return m.response, m.err
}

func (m *mockLLM) ModelName() string           { return "mock-model" }
func (m *mockLLM) Provider() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                { return nil }

// mockPrompts serves templates from a map.
type mockPrompts struct {
	templates map[string]string
	err       error
}

func (m *mockPrompts) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	t, ok := m.templates[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return t, nil
}

func (m *mockPrompts) Reload() {}

// mockValidator fails every document when err is set.
type mockValidator struct {
	err   error
	calls int
}

func (m *mockValidator) Validate(_ domain.Document) error {
	m.calls++
	return m.err
}

// mockMetrics counts observations.
type mockMetrics struct {
	ingests  []error
	searches []domain.Partition
	answers  []string
}

func (m *mockMetrics) ObserveIngest(_ domain.Partition, _ int, err error) {
	m.ingests = append(m.ingests, err)
}

func (m *mockMetrics) ObserveSearch(p domain.Partition, _ int, _ bool, _ time.Duration) {
	m.searches = append(m.searches, p)
}

func (m *mockMetrics) ObserveAnswer(outcome string, _ time.Duration) {
	m.answers = append(m.answers, outcome)
}

// mockClassifier returns a fixed partition.
type mockClassifier struct {
	partition domain.Partition
	err       error
}

func (m *mockClassifier) Classify(_ context.Context, _ string) (domain.Partition, error) {
	return m.partition, m.err
}
