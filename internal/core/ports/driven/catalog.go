package driven

import (
	"context"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// DocumentCatalog records which documents were ingested and which chunks they produced.
type DocumentCatalog interface {
	// Save inserts or replaces a record. IngestedAt is preserved on replace.
	Save(ctx context.Context, record *domain.DocumentRecord) error

	// Get returns a record, or domain.ErrNotFound.
	Get(ctx context.Context, partition domain.Partition, id string) (*domain.DocumentRecord, error)

	// List returns every record in a partition ordered by title.
	List(ctx context.Context, partition domain.Partition) ([]domain.DocumentRecord, error)

	// Delete removes a record. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, partition domain.Partition, id string) error

	// Close releases resources.
	Close() error
}
