package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns documents into embedded chunks and tracks them in a catalog.
type IngestService struct {
	validator driven.DocumentValidator
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	catalog   driven.DocumentCatalog
	metrics   driven.MetricsRecorder
	now       func() time.Time
}

// NewIngestService creates a new ingest service.
// The validator and metrics parameters are optional (can be nil).
func NewIngestService(
	validator driven.DocumentValidator,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	catalog driven.DocumentCatalog,
	metrics driven.MetricsRecorder,
) *IngestService {
	return &IngestService{
		validator: validator,
		pipeline:  pipeline,
		embedder:  embedder,
		store:     store,
		catalog:   catalog,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Ingest validates, chunks, embeds and stores a document.
// Re-ingesting a document overwrites its chunks and removes any that no
// longer exist, so the chunk count never grows on repeated ingestion.
func (s *IngestService) Ingest(ctx context.Context, doc domain.Document) (*domain.IngestResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}
	partition := doc.Partition()

	result, err := s.ingest(ctx, doc)
	if s.metrics != nil {
		created := 0
		if result != nil {
			created = result.ChunksCreated
		}
		s.metrics.ObserveIngest(partition, created, err)
	}
	return result, err
}

func (s *IngestService) ingest(ctx context.Context, doc domain.Document) (*domain.IngestResult, error) {
	logger.Section("Ingest")
	logger.Debug("Document %q into %s", doc.DocumentTitle(), doc.Partition())

	if s.validator != nil {
		if err := s.validator.Validate(doc); err != nil {
			return nil, err
		}
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}
	docID := chunks[0].DocumentID
	partition := doc.Partition()
	logger.Debug("Produced %d chunks for %s", len(chunks), docID)

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks",
			domain.ErrEmbeddingFailed, len(vectors), len(chunks))
	}

	records := make([]driven.VectorRecord, len(chunks))
	ids := make([]string, len(chunks))
	for i := range chunks {
		records[i] = driven.VectorRecord{
			ID:        chunks[i].ID,
			Text:      chunks[i].Text,
			Embedding: vectors[i],
			Metadata:  chunks[i].Metadata,
		}
		ids[i] = chunks[i].ID
	}

	if err := s.store.Upsert(ctx, partition, records); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err)
	}

	now := s.now().UTC()
	record := &domain.DocumentRecord{
		ID:         docID,
		Partition:  partition,
		Title:      doc.DocumentTitle(),
		ChunkIDs:   ids,
		IngestedAt: now,
		UpdatedAt:  now,
	}

	previous, err := s.catalog.Get(ctx, partition, docID)
	switch {
	case err == nil:
		record.IngestedAt = previous.IngestedAt
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}

	stale := staleIDs(previous, ids)
	if len(stale) > 0 {
		logger.Debug("Removing %d stale chunks", len(stale))
		if err := s.store.Delete(ctx, partition, stale); err != nil {
			return nil, fmt.Errorf("%w: remove stale chunks: %w", domain.ErrStoreWriteFailed, err)
		}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	record.Payload = payload

	if err := s.catalog.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("catalog save: %w", err)
	}

	logger.Info("Ingested %q (%s): %d chunks", doc.DocumentTitle(), docID, len(chunks))

	return &domain.IngestResult{
		DocumentID:    docID,
		Partition:     partition,
		ChunksCreated: len(chunks),
		StaleRemoved:  len(stale),
	}, nil
}

// Delete removes a document's chunks and its catalog record.
func (s *IngestService) Delete(ctx context.Context, partition domain.Partition, id string) error {
	record, err := s.catalog.Get(ctx, partition, id)
	if err != nil {
		return err
	}

	if len(record.ChunkIDs) > 0 {
		if err := s.store.Delete(ctx, partition, record.ChunkIDs); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err)
		}
	}

	if err := s.catalog.Delete(ctx, partition, id); err != nil {
		return fmt.Errorf("catalog delete: %w", err)
	}

	logger.Info("Deleted %s/%s (%d chunks)", partition, id, len(record.ChunkIDs))
	return nil
}

// Get returns a document's catalog record.
func (s *IngestService) Get(ctx context.Context, partition domain.Partition, id string) (*domain.DocumentRecord, error) {
	return s.catalog.Get(ctx, partition, id)
}

// List returns every catalog record in a partition.
func (s *IngestService) List(ctx context.Context, partition domain.Partition) ([]domain.DocumentRecord, error) {
	return s.catalog.List(ctx, partition)
}

// Stats returns the number of stored chunks per partition.
func (s *IngestService) Stats(ctx context.Context) (map[domain.Partition]int, error) {
	stats := make(map[domain.Partition]int, len(domain.AllPartitions()))
	for _, p := range domain.AllPartitions() {
		n, err := s.store.Count(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%w: count %s: %w", domain.ErrStoreQueryFailed, p, err)
		}
		stats[p] = n
	}
	return stats, nil
}

// staleIDs returns chunk IDs in previous that are absent from current.
func staleIDs(previous *domain.DocumentRecord, current []string) []string {
	if previous == nil {
		return nil
	}
	keep := make(map[string]struct{}, len(current))
	for _, id := range current {
		keep[id] = struct{}{}
	}
	var stale []string
	for _, id := range previous.ChunkIDs {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}
