package domain

// Retrieval defaults.
const (
	// DefaultResultLimit is the number of chunks retrieved when the caller gives none.
	DefaultResultLimit = 5

	// MaxResultLimit caps the number of chunks a single query may request.
	MaxResultLimit = 50

	// DefaultSimilarityThreshold is the relevance and success cutoff.
	DefaultSimilarityThreshold = 0.7
)

// Filter restricts a vector query by exact metadata matches.
// A record matches when it satisfies every pair of at least one set in AnyOf.
// An empty filter matches everything.
type Filter struct {
	AnyOf []map[string]string `json:"any_of,omitempty"`
}

// MatchAll returns a filter requiring every pair in m.
func MatchAll(m map[string]string) Filter {
	if len(m) == 0 {
		return Filter{}
	}
	return Filter{AnyOf: []map[string]string{m}}
}

// MatchAny returns a filter satisfied by any one of the given sets.
func MatchAny(sets ...map[string]string) Filter {
	var f Filter
	for _, s := range sets {
		if len(s) > 0 {
			f.AnyOf = append(f.AnyOf, s)
		}
	}
	return f
}

// IsEmpty returns true if the filter matches everything.
func (f Filter) IsEmpty() bool {
	return len(f.AnyOf) == 0
}

// Matches reports whether metadata satisfies the filter.
func (f Filter) Matches(metadata map[string]string) bool {
	if f.IsEmpty() {
		return true
	}
	for _, set := range f.AnyOf {
		ok := true
		for k, v := range set {
			if metadata[k] != v {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// QueryContext selects the partition and filter a query runs against.
type QueryContext struct {
	Partition Partition `json:"partition"`
	Filter    Filter    `json:"filter"`
}

// SearchOptions configures a search or answer request.
type SearchOptions struct {
	// ContextHint is the optional routing hint ("topic:X", "problem:Y", or a raw title).
	ContextHint string

	// Limit is the number of chunks to retrieve (k).
	Limit int

	// Threshold overrides DefaultSimilarityThreshold when non-nil.
	Threshold *float64
}

// EffectiveLimit returns Limit bounded to [1, MaxResultLimit], defaulting when unset.
func (o SearchOptions) EffectiveLimit() int {
	switch {
	case o.Limit <= 0:
		return DefaultResultLimit
	case o.Limit > MaxResultLimit:
		return MaxResultLimit
	default:
		return o.Limit
	}
}

// EffectiveThreshold returns Threshold or the default.
func (o SearchOptions) EffectiveThreshold() float64 {
	if o.Threshold == nil {
		return DefaultSimilarityThreshold
	}
	return *o.Threshold
}

// WithDefaults fills an unset Limit or Threshold from configured defaults.
// Non-positive defaults are ignored.
func (o SearchOptions) WithDefaults(limit int, threshold float64) SearchOptions {
	if o.Limit <= 0 && limit > 0 {
		o.Limit = limit
	}
	if o.Threshold == nil && threshold > 0 {
		t := threshold
		o.Threshold = &t
	}
	return o
}

// RetrievedChunk is a query-time projection of a stored chunk.
type RetrievedChunk struct {
	ID              string            `json:"id"`
	Content         string            `json:"content"`
	Metadata        map[string]string `json:"metadata"`
	SimilarityScore float64           `json:"similarity_score"`
	IsRelevant      bool              `json:"is_relevant"`
	ContextUsed     string            `json:"context_used,omitempty"`
}

// SearchResult summarises one retrieval.
type SearchResult struct {
	Query               string           `json:"query"`
	Partition           Partition        `json:"collection_type"`
	ContextUsed         string           `json:"context_used,omitempty"`
	Successful          bool             `json:"is_successful"`
	TotalChunks         int              `json:"total_chunks_found"`
	RelevantChunks      int              `json:"relevant_chunks_count"`
	Chunks              []RetrievedChunk `json:"chunks"`
	TopSimilarity       float64          `json:"top_similarity_score"`
	SimilarityThreshold float64          `json:"similarity_threshold"`
}

// NewSearchResult builds a summary from scored chunks.
// Chunks must already be ordered by descending similarity.
func NewSearchResult(
	query, contextUsed string, partition Partition, chunks []RetrievedChunk, threshold float64,
) *SearchResult {
	if chunks == nil {
		chunks = []RetrievedChunk{}
	}
	r := &SearchResult{
		Query:               query,
		Partition:           partition,
		ContextUsed:         contextUsed,
		TotalChunks:         len(chunks),
		Chunks:              chunks,
		SimilarityThreshold: threshold,
	}
	for i := range chunks {
		if chunks[i].IsRelevant {
			r.RelevantChunks++
		}
		if i == 0 || chunks[i].SimilarityScore > r.TopSimilarity {
			r.TopSimilarity = chunks[i].SimilarityScore
		}
	}
	r.Successful = SearchSucceeded(chunks, threshold)
	return r
}

// SearchSucceeded reports whether at least one chunk scores at or above threshold.
// Per-chunk relevance uses a strict comparison; success does not.
func SearchSucceeded(chunks []RetrievedChunk, threshold float64) bool {
	for i := range chunks {
		if chunks[i].SimilarityScore >= threshold {
			return true
		}
	}
	return false
}

// ProblemFilter narrows a problem search.
type ProblemFilter struct {
	Difficulty ProblemDifficulty
	Topic      string
}
