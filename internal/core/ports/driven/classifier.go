package driven

import (
	"context"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// QueryClassifier infers the partition a bare query should search.
// It backs the legacy path where no context hint is supplied.
type QueryClassifier interface {
	Classify(ctx context.Context, query string) (domain.Partition, error)
}

// DocumentValidator rejects structurally invalid documents before chunking.
// Failures wrap domain.ErrInvalidInput.
type DocumentValidator interface {
	Validate(doc domain.Document) error
}
