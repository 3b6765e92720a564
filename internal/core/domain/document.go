package domain

// Document is structured content that can be decomposed into chunks.
// Topic and Problem are the two implementations.
type Document interface {
	// DocumentID returns the caller-supplied identifier, or "" when none was given.
	DocumentID() string

	// DocumentTitle returns the human-readable title.
	DocumentTitle() string

	// Partition returns the corpus the document's chunks belong to.
	Partition() Partition
}

// Ensure content types implement Document.
var (
	_ Document = (*Topic)(nil)
	_ Document = (*Problem)(nil)
)

// Topic is a programming concept: a data structure, algorithm or technique.
type Topic struct {
	ID            string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title         string   `json:"title" yaml:"title" validate:"required"`
	Category      string   `json:"category" yaml:"category" validate:"required"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty" validate:"required"`
	Prerequisites []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	RelatedTopics []string `json:"related_topics,omitempty" yaml:"related_topics,omitempty"`

	Definition          string   `json:"definition" yaml:"definition" validate:"required"`
	KeyIdeas            []string `json:"key_ideas,omitempty" yaml:"key_ideas,omitempty"`
	DetailedExplanation string   `json:"detailed_explanation,omitempty" yaml:"detailed_explanation,omitempty"`
	AlgorithmSteps      []string `json:"algorithm_steps,omitempty" yaml:"algorithm_steps,omitempty"`

	Complexity   *Complexity   `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	CodeExamples []CodeExample `json:"code_examples,omitempty" yaml:"code_examples,omitempty" validate:"dive"`

	UseCases      []string `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`
	Advantages    []string `json:"advantages,omitempty" yaml:"advantages,omitempty"`
	Disadvantages []string `json:"disadvantages,omitempty" yaml:"disadvantages,omitempty"`

	ProblemPatterns     []ProblemPattern `json:"problem_patterns,omitempty" yaml:"problem_patterns,omitempty" validate:"dive"`
	CommonMistakes      []string         `json:"common_mistakes,omitempty" yaml:"common_mistakes,omitempty"`
	ImplementationNotes string           `json:"implementation_notes,omitempty" yaml:"implementation_notes,omitempty"`
}

// DocumentID returns the topic identifier.
func (t *Topic) DocumentID() string { return t.ID }

// DocumentTitle returns the topic title.
func (t *Topic) DocumentTitle() string { return t.Title }

// Partition returns PartitionTopics.
func (t *Topic) Partition() Partition { return PartitionTopics }

// Complexity is the cost table of a topic.
// Time maps an operation name ("search", "insert") to its complexity.
type Complexity struct {
	Time  map[string]string `json:"time,omitempty" yaml:"time,omitempty"`
	Space string            `json:"space,omitempty" yaml:"space,omitempty"`
	Notes string            `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsEmpty returns true if the table carries nothing worth rendering.
func (c *Complexity) IsEmpty() bool {
	return c == nil || (len(c.Time) == 0 && c.Space == "")
}

// CodeExample is a snippet in a single language.
type CodeExample struct {
	Language    string `json:"language" yaml:"language" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Code        string `json:"code" yaml:"code" validate:"required"`
}

// ProblemPattern is a recurring problem shape a topic helps with.
type ProblemPattern struct {
	Name            string   `json:"name" yaml:"name" validate:"required"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	ExampleProblems []string `json:"example_problems,omitempty" yaml:"example_problems,omitempty"`
}

// ProblemDifficulty grades a coding problem.
type ProblemDifficulty string

// Problem difficulties.
const (
	DifficultyEasy   ProblemDifficulty = "easy"
	DifficultyMedium ProblemDifficulty = "medium"
	DifficultyHard   ProblemDifficulty = "hard"
)

// IsValid returns true if the difficulty is recognised.
func (d ProblemDifficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// ProblemSource names the judge site a problem comes from.
type ProblemSource string

// Problem sources.
const (
	SourceLeetCode   ProblemSource = "leetcode"
	SourceCodeforces ProblemSource = "codeforces"
	SourceHackerRank ProblemSource = "hackerrank"
	SourceCustom     ProblemSource = "custom"
)

// Problem is a coding exercise with worked solution approaches.
type Problem struct {
	ID         string            `json:"id,omitempty" yaml:"id,omitempty"`
	Title      string            `json:"title" yaml:"title" validate:"required"`
	Metadata   ProblemMetadata   `json:"metadata" yaml:"metadata"`
	Difficulty ProblemDifficulty `json:"difficulty" yaml:"difficulty" validate:"required,oneof=easy medium hard"`
	Topics     []string          `json:"topics,omitempty" yaml:"topics,omitempty"`
	Companies  []string          `json:"companies,omitempty" yaml:"companies,omitempty"`

	Description string     `json:"description" yaml:"description" validate:"required"`
	Constraints []string   `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Examples    []TestCase `json:"examples,omitempty" yaml:"examples,omitempty"`

	Approaches      []SolutionApproach `json:"approaches,omitempty" yaml:"approaches,omitempty" validate:"dive"`
	OptimalApproach string             `json:"optimal_approach,omitempty" yaml:"optimal_approach,omitempty"`

	Hints          []string `json:"hints,omitempty" yaml:"hints,omitempty"`
	CommonMistakes []string `json:"common_mistakes,omitempty" yaml:"common_mistakes,omitempty"`
	EdgeCases      []string `json:"edge_cases,omitempty" yaml:"edge_cases,omitempty"`

	SimilarProblems   []string `json:"similar_problems,omitempty" yaml:"similar_problems,omitempty"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty" yaml:"follow_up_questions,omitempty"`
}

// DocumentID returns the problem identifier.
func (p *Problem) DocumentID() string { return p.ID }

// DocumentTitle returns the problem title.
func (p *Problem) DocumentTitle() string { return p.Title }

// Partition returns PartitionProblems.
func (p *Problem) Partition() Partition { return PartitionProblems }

// ProblemMetadata records where a problem came from.
type ProblemMetadata struct {
	Source         ProblemSource `json:"source" yaml:"source" validate:"required,oneof=leetcode codeforces hackerrank custom"`
	SourceID       string        `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	Popularity     float64       `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	AcceptanceRate float64       `json:"acceptance_rate,omitempty" yaml:"acceptance_rate,omitempty"`
}

// TestCase is one worked input/output example.
type TestCase struct {
	Input       string `json:"input" yaml:"input"`
	Output      string `json:"output" yaml:"output"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// SolutionApproach is one way of solving a problem.
// Code maps a language name to its implementation.
type SolutionApproach struct {
	Name            string            `json:"name" yaml:"name" validate:"required"`
	TimeComplexity  string            `json:"time_complexity,omitempty" yaml:"time_complexity,omitempty"`
	SpaceComplexity string            `json:"space_complexity,omitempty" yaml:"space_complexity,omitempty"`
	Explanation     string            `json:"explanation" yaml:"explanation" validate:"required"`
	Code            map[string]string `json:"code,omitempty" yaml:"code,omitempty"`
}
