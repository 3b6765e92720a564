package domain

// ChunkType tags the document section a chunk was rendered from.
type ChunkType string

// Topic chunk types.
const (
	ChunkCoreConcept           ChunkType = "core_concept"
	ChunkDetailedExplanation   ChunkType = "detailed_explanation"
	ChunkAlgorithmSteps        ChunkType = "algorithm_steps"
	ChunkComplexity            ChunkType = "complexity"
	ChunkCodeExample           ChunkType = "code_example"
	ChunkPracticalApplications ChunkType = "practical_applications"
	ChunkProblemPatterns       ChunkType = "problem_patterns"
	ChunkImplementationGuide   ChunkType = "implementation_guide"
)

// Problem chunk types.
const (
	ChunkProblemDescription ChunkType = "problem_description"
	ChunkExamples           ChunkType = "examples"
	ChunkSolutionApproach   ChunkType = "solution_approach"
	ChunkHintsGuidance      ChunkType = "hints_guidance"
)

// String returns the string representation.
func (t ChunkType) String() string {
	return string(t)
}

// Metadata keys written on every chunk. Values are always strings so
// that any vector store can filter on them with exact matches.
const (
	MetaDocumentID = "document_id"
	MetaTitle      = "title"
	MetaPartition  = "partition"
	MetaChunkType  = "chunk_type"
	MetaDifficulty = "difficulty"

	// Topic-only keys.
	MetaCategory      = "category"
	MetaPrerequisites = "prerequisites"
	MetaRelatedTopics = "related_topics"
	MetaLanguage      = "language"
	MetaExampleIndex  = "example_index"

	// Problem-only keys.
	MetaSource          = "source"
	MetaTopics          = "topics"
	MetaCompanies       = "companies"
	MetaOptimalApproach = "optimal_approach"
	MetaApproachName    = "approach_name"
	MetaTimeComplexity  = "time_complexity"
	MetaSpaceComplexity = "space_complexity"
	MetaIsOptimal       = "is_optimal"
)

// Chunk is the atomic retrieval unit derived from one document section.
// Text always repeats the parent title and section type so that a chunk
// read in isolation is still meaningful.
type Chunk struct {
	// ID is "<document id>_<section tag>" and is stable across re-ingestion.
	ID string `json:"id"`

	// DocumentID links to the parent document.
	DocumentID string `json:"document_id"`

	// Type is the section tag.
	Type ChunkType `json:"chunk_type"`

	// Text is the rendered natural-language section.
	Text string `json:"text"`

	// Metadata is the flat provenance map stored alongside the vector.
	Metadata map[string]string `json:"metadata"`
}
