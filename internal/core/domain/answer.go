package domain

// Context quality labels reported with an answer.
const (
	ContextQualityHigh = "high"
	ContextQualityLow  = "low"
)

// AnswerResult is the structured outcome of a retrieval-augmented answer.
// It is always returned; failures are reported through Success and Error.
type AnswerResult struct {
	// Success is false when any step of the pipeline failed.
	Success bool `json:"success"`

	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty"`

	// Query is the original user query.
	Query string `json:"query"`

	// ContextUsed echoes the routing hint.
	ContextUsed string `json:"context_used,omitempty"`

	// Response is the generated answer text.
	Response string `json:"response"`

	// Grounded is true when the answer was generated from retrieved context.
	Grounded bool `json:"grounded"`

	// Sources holds every scored chunk, relevant or not.
	Sources []RetrievedChunk `json:"sources"`

	// Search describes how retrieval went.
	Search AnswerSearchMetadata `json:"search_metadata"`

	// LLM identifies the generator.
	LLM LLMMetadata `json:"llm_metadata"`
}

// AnswerSearchMetadata summarises the retrieval behind an answer.
type AnswerSearchMetadata struct {
	Partition           Partition `json:"collection_type,omitempty"`
	ChunksFound         int       `json:"chunks_found"`
	RelevantChunks      int       `json:"relevant_chunks"`
	ContextQuality      string    `json:"context_quality"`
	Fallback            bool      `json:"fallback_to_general_knowledge"`
	SimilarityThreshold float64   `json:"similarity_threshold"`
}

// LLMMetadata identifies the model that produced an answer.
type LLMMetadata struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// FailedAnswer builds the result returned when the pipeline could not complete.
func FailedAnswer(query, contextUsed string, err error) *AnswerResult {
	return &AnswerResult{
		Success:     false,
		Error:       "RAG pipeline failed: " + err.Error(),
		Query:       query,
		ContextUsed: contextUsed,
		Sources:     []RetrievedChunk{},
		Search:      AnswerSearchMetadata{ContextQuality: ContextQualityLow},
	}
}
