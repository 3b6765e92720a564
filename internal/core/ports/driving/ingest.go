package driving

import (
	"context"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// IngestService adds and removes documents from the knowledge base.
type IngestService interface {
	// Ingest validates, chunks, embeds and stores a document.
	// Re-ingesting the same document replaces its chunks.
	Ingest(ctx context.Context, doc domain.Document) (*domain.IngestResult, error)

	// Delete removes a document and all its chunks.
	Delete(ctx context.Context, partition domain.Partition, id string) error

	// Get returns the catalog record of a document.
	Get(ctx context.Context, partition domain.Partition, id string) (*domain.DocumentRecord, error)

	// List returns every catalog record in a partition.
	List(ctx context.Context, partition domain.Partition) ([]domain.DocumentRecord, error)

	// Stats returns the number of stored chunks per partition.
	Stats(ctx context.Context) (map[domain.Partition]int, error)
}
