package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

// Context hint prefixes.
const (
	hintTopicPrefix   = "topic:"
	hintProblemPrefix = "problem:"
)

// ContextResolver decides which partition a query searches and with which filter.
// It performs no I/O on the hint path.
type ContextResolver struct {
	classifier driven.QueryClassifier
}

// NewContextResolver creates a resolver. A nil classifier falls back to
// the keyword classifier for the legacy path.
func NewContextResolver(classifier driven.QueryClassifier) *ContextResolver {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	return &ContextResolver{classifier: classifier}
}

// Resolve parses an optional hint:
//
//   - ""            -> topics, no filter
//   - "topic:X"     -> topics, title = X
//   - "problem:R"   -> problems, title = R OR document_id = R
//   - anything else -> topics, title = hint
func (r *ContextResolver) Resolve(hint string) domain.QueryContext {
	hint = strings.TrimSpace(hint)

	switch {
	case hint == "":
		return domain.QueryContext{Partition: domain.PartitionTopics}

	case strings.HasPrefix(hint, hintTopicPrefix):
		name := strings.TrimSpace(hint[len(hintTopicPrefix):])
		return domain.QueryContext{
			Partition: domain.PartitionTopics,
			Filter:    domain.MatchAll(map[string]string{domain.MetaTitle: name}),
		}

	case strings.HasPrefix(hint, hintProblemPrefix):
		ref := strings.TrimSpace(hint[len(hintProblemPrefix):])
		return domain.QueryContext{
			Partition: domain.PartitionProblems,
			Filter: domain.MatchAny(
				map[string]string{domain.MetaTitle: ref},
				map[string]string{domain.MetaDocumentID: ref},
			),
		}

	default:
		return domain.QueryContext{
			Partition: domain.PartitionTopics,
			Filter:    domain.MatchAll(map[string]string{domain.MetaTitle: hint}),
		}
	}
}

// Classify infers a partition from the query text alone, with no filter.
func (r *ContextResolver) Classify(ctx context.Context, query string) (domain.QueryContext, error) {
	partition, err := r.classifier.Classify(ctx, query)
	if err != nil {
		return domain.QueryContext{}, err
	}
	if !partition.IsValid() {
		partition = domain.PartitionTopics
	}
	return domain.QueryContext{Partition: partition}, nil
}

// problemKeywords is problem-solving vocabulary. Matching is a
// case-insensitive substring test and carries no precision guarantee.
var problemKeywords = []string{
	"solve", "problem", "leetcode", "codeforces", "hackerrank",
	"solution", "approach", "algorithm for", "how to code",
	"implement", "write a function", "coding question",
}

// Ensure KeywordClassifier implements the interface.
var _ driven.QueryClassifier = (*KeywordClassifier)(nil)

// KeywordClassifier routes queries containing problem-solving vocabulary
// to the problems partition and everything else to topics.
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier creates a classifier with the built-in vocabulary.
// Extra keywords are appended, lowercased.
func NewKeywordClassifier(extra ...string) *KeywordClassifier {
	kw := make([]string, 0, len(problemKeywords)+len(extra))
	kw = append(kw, problemKeywords...)
	for _, k := range extra {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return &KeywordClassifier{keywords: kw}
}

// Classify returns PartitionProblems if any keyword occurs in the query.
func (c *KeywordClassifier) Classify(_ context.Context, query string) (domain.Partition, error) {
	q := strings.ToLower(query)
	for _, kw := range c.keywords {
		if strings.Contains(q, kw) {
			return domain.PartitionProblems, nil
		}
	}
	return domain.PartitionTopics, nil
}
