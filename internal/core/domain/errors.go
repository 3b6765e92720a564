package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedDocument indicates a document type the chunker cannot decompose.
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrNotConfigured indicates a required collaborator has no usable settings.
	ErrNotConfigured = errors.New("not configured")

	// Collaborator Errors.
	//
	// These are wrapped together with the underlying cause, for example
	// fmt.Errorf("%w: %w", ErrEmbeddingFailed, err), so errors.Is matches both.

	// ErrEmbeddingFailed indicates the embedding service failed.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrStoreWriteFailed indicates a vector store upsert or delete failed.
	ErrStoreWriteFailed = errors.New("vector store write failed")

	// ErrStoreQueryFailed indicates a vector store query failed.
	ErrStoreQueryFailed = errors.New("vector store query failed")

	// ErrGenerationFailed indicates the answer-generation service failed.
	ErrGenerationFailed = errors.New("generation failed")
)

// Collaborator names the external collaborator responsible for err.
// Returns "" when err did not originate from a collaborator.
func Collaborator(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmbeddingFailed):
		return "embedding"
	case errors.Is(err, ErrStoreWriteFailed), errors.Is(err, ErrStoreQueryFailed):
		return "vector_store"
	case errors.Is(err, ErrGenerationFailed):
		return "generation"
	default:
		return ""
	}
}

// IsCollaboratorError returns true if err came from an external collaborator.
func IsCollaboratorError(err error) bool {
	return Collaborator(err) != ""
}
