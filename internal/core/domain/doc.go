// Package domain defines the core business entities for dailybit.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Topic, Problem: structured learning content accepted for ingestion
//   - Chunk: the atomic retrieval unit derived from one document section
//   - Partition: an independent retrieval corpus (topics, problems)
//   - QueryContext, Filter: where and how a query is searched
//   - SearchResult, AnswerResult: what callers get back
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
