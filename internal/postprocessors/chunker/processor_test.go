package chunker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

func binarySearchTopic() *domain.Topic {
	return &domain.Topic{
		ID:                  "binary-search",
		Title:               "Binary Search",
		Category:            "algorithms",
		Difficulty:          "beginner",
		Definition:          "Search a sorted array by repeatedly halving the interval.",
		KeyIdeas:            []string{"Input must be sorted", "Halve the search space each step"},
		DetailedExplanation: "Compare the target with the middle element and discard the half that cannot contain it.",
		Complexity: &domain.Complexity{
			Time:  map[string]string{"search": "O(log n)"},
			Space: "O(1)",
		},
		CodeExamples: []domain.CodeExample{
			{Language: "python", Description: "Iterative", Code: "def bs(a, x):\n    lo, hi = 0, len(a) - 1"},
		},
	}
}

func fullTopic() *domain.Topic {
	t := binarySearchTopic()
	t.AlgorithmSteps = []string{"Set lo and hi", "Compute mid", "Narrow the range"}
	t.CodeExamples = append(t.CodeExamples, domain.CodeExample{Language: "Go", Code: "func bs() {}"})
	t.UseCases = []string{"Lookup in sorted data"}
	t.Advantages = []string{"Logarithmic time"}
	t.Disadvantages = []string{"Requires sorted input"}
	t.ProblemPatterns = []domain.ProblemPattern{
		{Name: "Search on answer", Description: "Binary search over the result space", ExampleProblems: []string{"Koko Eating Bananas"}},
	}
	t.CommonMistakes = []string{"Off-by-one in the loop condition"}
	t.ImplementationNotes = "Use lo + (hi-lo)/2 to avoid overflow."
	return t
}

func chunkIDs(chunks []domain.Chunk) []string {
	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ID
	}
	return ids
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcessor_Topic_MinimalSectionsSkipped(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), binarySearchTopic(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"binary-search_core",
		"binary-search_explanation",
		"binary-search_complexity",
		"binary-search_code_python_0",
	}
	got := chunkIDs(chunks)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
}

func TestProcessor_Topic_AllSections(t *testing.T) {
	p := New()

	chunks, err := p.Chunk(fullTopic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// core + explanation + steps + complexity + 2 code + applications + patterns + implementation
	if len(chunks) != 9 {
		t.Fatalf("expected 9 chunks, got %d: %v", len(chunks), chunkIDs(chunks))
	}

	wantTypes := []domain.ChunkType{
		domain.ChunkCoreConcept,
		domain.ChunkDetailedExplanation,
		domain.ChunkAlgorithmSteps,
		domain.ChunkComplexity,
		domain.ChunkCodeExample,
		domain.ChunkCodeExample,
		domain.ChunkPracticalApplications,
		domain.ChunkProblemPatterns,
		domain.ChunkImplementationGuide,
	}
	for i, ct := range wantTypes {
		if chunks[i].Type != ct {
			t.Errorf("chunk %d: expected type %s, got %s", i, ct, chunks[i].Type)
		}
		if chunks[i].Metadata[domain.MetaChunkType] != string(ct) {
			t.Errorf("chunk %d: metadata chunk_type mismatch", i)
		}
	}

	if chunks[5].ID != "binary-search_code_go_1" {
		t.Errorf("expected second code chunk id binary-search_code_go_1, got %s", chunks[5].ID)
	}
	if chunks[5].Metadata[domain.MetaLanguage] != "Go" || chunks[5].Metadata[domain.MetaExampleIndex] != "1" {
		t.Errorf("unexpected code metadata: %v", chunks[5].Metadata)
	}
}

func TestProcessor_Topic_TextIsSelfDescribing(t *testing.T) {
	chunks, err := New().Chunk(fullTopic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			t.Errorf("chunk %s has empty text", c.ID)
		}
		if !strings.HasPrefix(c.Text, "Topic: Binary Search\nType: ") {
			t.Errorf("chunk %s does not start with its header: %q", c.ID, c.Text)
		}
		if c.Metadata[domain.MetaTitle] != "Binary Search" {
			t.Errorf("chunk %s missing title metadata", c.ID)
		}
		if c.Metadata[domain.MetaDocumentID] != "binary-search" {
			t.Errorf("chunk %s missing document id metadata", c.ID)
		}
	}

	steps := chunks[2].Text
	if !strings.Contains(steps, "1. Set lo and hi\n2. Compute mid\n3. Narrow the range") {
		t.Errorf("steps not rendered as a numbered list: %q", steps)
	}
}

func TestProcessor_Topic_ComplexityOrderIsStable(t *testing.T) {
	topic := binarySearchTopic()
	topic.Complexity.Time = map[string]string{"search": "O(log n)", "build": "O(n log n)", "insert": "O(n)"}

	chunks, err := New().Chunk(topic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := chunks[2].Text
	want := "Time Complexity:\n- build: O(n log n)\n- insert: O(n)\n- search: O(log n)"
	if !strings.Contains(text, want) {
		t.Errorf("expected sorted complexity table, got %q", text)
	}
}

func TestProcessor_DeterministicIDs(t *testing.T) {
	p := New()
	topic := binarySearchTopic()
	topic.ID = ""

	first, err := p.Chunk(topic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Chunk(topic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(chunkIDs(first), ",") != strings.Join(chunkIDs(second), ",") {
		t.Error("expected identical chunk ids across runs")
	}
	if _, err := uuid.Parse(first[0].DocumentID); err != nil {
		t.Errorf("expected derived uuid document id, got %q", first[0].DocumentID)
	}

	other := New(WithNamespace(uuid.New()))
	if other.DocumentID(topic) == p.DocumentID(topic) {
		t.Error("expected namespace to change derived ids")
	}
}

func TestProcessor_Problem(t *testing.T) {
	problem := &domain.Problem{
		ID:          "two-sum",
		Title:       "Two Sum",
		Difficulty:  domain.DifficultyEasy,
		Metadata:    domain.ProblemMetadata{Source: domain.SourceLeetCode},
		Topics:      []string{"arrays", "hash-table"},
		Description: "Return indices of the two numbers that add up to target.",
		Constraints: []string{"2 <= nums.length <= 10^4"},
		Examples: []domain.TestCase{
			{Input: "nums = [2,7,11,15], target = 9", Output: "[0,1]", Explanation: "2 + 7 = 9"},
		},
		Approaches: []domain.SolutionApproach{
			{Name: "Brute Force", TimeComplexity: "O(n^2)", SpaceComplexity: "O(1)", Explanation: "Try every pair."},
			{
				Name: "Hash Map", TimeComplexity: "O(n)", SpaceComplexity: "O(n)", Explanation: "Store complements.",
				Code: map[string]string{"python": "def two_sum(): ...", "go": "func twoSum() {}"},
			},
		},
		OptimalApproach: "Hash Map",
		Hints:           []string{"Think about complements", "Use a map"},
		EdgeCases:       []string{"Duplicate values"},
	}

	chunks, err := New().Chunk(problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"two-sum_description", "two-sum_examples", "two-sum_approach_0", "two-sum_approach_1", "two-sum_hints"}
	if strings.Join(chunkIDs(chunks), ",") != strings.Join(want, ",") {
		t.Fatalf("expected ids %v, got %v", want, chunkIDs(chunks))
	}

	if chunks[2].Metadata[domain.MetaIsOptimal] != "false" || chunks[3].Metadata[domain.MetaIsOptimal] != "true" {
		t.Error("expected only the hash map approach to be optimal")
	}
	if chunks[0].Metadata[domain.MetaTopics] != "arrays,hash-table" {
		t.Errorf("unexpected topics metadata %q", chunks[0].Metadata[domain.MetaTopics])
	}
	if !strings.Contains(chunks[3].Text, "go:\nfunc twoSum() {}\n\npython:\ndef two_sum(): ...") {
		t.Errorf("code implementations not sorted by language: %q", chunks[3].Text)
	}
	if !strings.Contains(chunks[4].Text, "Hints:\n1. Think about complements\n2. Use a map") {
		t.Errorf("hints not numbered: %q", chunks[4].Text)
	}
	if chunks[4].Type != domain.ChunkHintsGuidance {
		t.Errorf("expected hints_guidance, got %s", chunks[4].Type)
	}
}

func TestProcessor_Problem_DescriptionOnly(t *testing.T) {
	problem := &domain.Problem{
		Title:       "FizzBuzz",
		Difficulty:  domain.DifficultyEasy,
		Metadata:    domain.ProblemMetadata{Source: domain.SourceCustom},
		Description: "Print numbers with substitutions.",
	}

	chunks, err := New().Chunk(problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Type != domain.ChunkProblemDescription {
		t.Errorf("expected description chunk, got %s", chunks[0].Type)
	}
}

type unknownDoc struct{}

func (unknownDoc) DocumentID() string          { return "x" }
func (unknownDoc) DocumentTitle() string       { return "x" }
func (unknownDoc) Partition() domain.Partition { return domain.PartitionTopics }

func TestProcessor_UnsupportedDocument(t *testing.T) {
	_, err := New().Chunk(unknownDoc{})
	if !errors.Is(err, domain.ErrUnsupportedDocument) {
		t.Errorf("expected ErrUnsupportedDocument, got %v", err)
	}
}
