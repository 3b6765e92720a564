// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Maps text to vectors for ingestion and queries
//   - VectorStore: Partitioned chunk storage with nearest-neighbour query
//   - PostProcessorPipeline: Turns a document into chunks
//   - DocumentValidator: Rejects malformed documents before chunking
//   - QueryClassifier: Picks a partition from query text on the legacy path
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer generation. Without it, answers fail but search still works.
//   - DocumentCatalog: Ingestion bookkeeping. Without it, stale chunks are not pruned.
//   - PromptStore: Customisable prompts. Without it, built-in defaults are used.
//   - MetricsRecorder: Pipeline metrics. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or postprocessor package
package driven
