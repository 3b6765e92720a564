package driven

import (
	"time"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// Answer outcomes reported to MetricsRecorder.
const (
	AnswerGrounded = "grounded"
	AnswerFallback = "fallback"
	AnswerFailed   = "failed"
)

// MetricsRecorder observes pipeline activity.
type MetricsRecorder interface {
	// ObserveIngest records one document ingestion.
	ObserveIngest(partition domain.Partition, chunks int, err error)

	// ObserveSearch records one retrieval.
	ObserveSearch(partition domain.Partition, found int, successful bool, elapsed time.Duration)

	// ObserveAnswer records one answer with its outcome.
	ObserveAnswer(outcome string, elapsed time.Duration)
}
