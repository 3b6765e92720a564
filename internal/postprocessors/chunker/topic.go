package chunker

import (
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// topicChunks renders a topic. The core chunk is always present; every
// other section is emitted only when it has content.
func topicChunks(t *domain.Topic, id string) []domain.Chunk {
	base := map[string]string{
		domain.MetaDocumentID:    id,
		domain.MetaTitle:         t.Title,
		domain.MetaPartition:     string(domain.PartitionTopics),
		domain.MetaCategory:      t.Category,
		domain.MetaDifficulty:    t.Difficulty,
		domain.MetaPrerequisites: joinList(t.Prerequisites),
		domain.MetaRelatedTopics: joinList(t.RelatedTopics),
	}

	chunks := make([]domain.Chunk, 0, 7+len(t.CodeExamples))

	core := newSection("Topic", t.Title, "Core Concept").
		header("Category", t.Category, "Difficulty", t.Difficulty).
		field("Definition", t.Definition).
		bullets("Key Ideas", t.KeyIdeas).
		field("Prerequisites", strings.Join(t.Prerequisites, ", "))
	chunks = append(chunks, newChunk(id, "core", domain.ChunkCoreConcept, core.String(), base))

	if strings.TrimSpace(t.DetailedExplanation) != "" {
		s := newSection("Topic", t.Title, "Detailed Explanation").text(t.DetailedExplanation)
		chunks = append(chunks, newChunk(id, "explanation", domain.ChunkDetailedExplanation, s.String(), base))
	}

	if hasAny(t.AlgorithmSteps) {
		s := newSection("Topic", t.Title, "Algorithm Steps").numbered("Step-by-Step Process", t.AlgorithmSteps)
		chunks = append(chunks, newChunk(id, "steps", domain.ChunkAlgorithmSteps, s.String(), base))
	}

	if !t.Complexity.IsEmpty() {
		s := newSection("Topic", t.Title, "Complexity Analysis").
			bullets("Time Complexity", complexityLines(t.Complexity.Time)).
			field("Space Complexity", t.Complexity.Space).
			field("Notes", t.Complexity.Notes)
		chunks = append(chunks, newChunk(id, "complexity", domain.ChunkComplexity, s.String(), base))
	}

	for i, ex := range t.CodeExamples {
		s := newSection("Topic", t.Title, "Code Example").
			header("Language", ex.Language).
			field("Description", ex.Description).
			block("Code", ex.Code)
		tag := "code_" + slug(ex.Language) + "_" + strconv.Itoa(i)
		chunks = append(chunks, newChunk(id, tag, domain.ChunkCodeExample, s.String(), base,
			domain.MetaLanguage, ex.Language,
			domain.MetaExampleIndex, strconv.Itoa(i),
		))
	}

	if hasAny(t.UseCases, t.Advantages, t.Disadvantages) {
		s := newSection("Topic", t.Title, "Practical Applications").
			bullets("Use Cases", t.UseCases).
			bullets("Advantages", t.Advantages).
			bullets("Disadvantages", t.Disadvantages)
		chunks = append(chunks, newChunk(id, "applications", domain.ChunkPracticalApplications, s.String(), base))
	}

	if len(t.ProblemPatterns) > 0 {
		s := newSection("Topic", t.Title, "Problem Patterns")
		for _, pat := range t.ProblemPatterns {
			var b strings.Builder
			b.WriteString("Pattern: " + pat.Name)
			if d := strings.TrimSpace(pat.Description); d != "" {
				b.WriteString("\nDescription: " + d)
			}
			if len(pat.ExampleProblems) > 0 {
				b.WriteString("\nExample Problems: " + strings.Join(pat.ExampleProblems, ", "))
			}
			s.text(b.String())
		}
		chunks = append(chunks, newChunk(id, "patterns", domain.ChunkProblemPatterns, s.String(), base))
	}

	if hasAny(t.CommonMistakes) || strings.TrimSpace(t.ImplementationNotes) != "" {
		s := newSection("Topic", t.Title, "Implementation Guide").
			bullets("Common Mistakes", t.CommonMistakes).
			block("Implementation Notes", t.ImplementationNotes)
		chunks = append(chunks, newChunk(id, "implementation", domain.ChunkImplementationGuide, s.String(), base))
	}

	return chunks
}

// complexityLines renders the time table sorted by operation for stable output.
func complexityLines(time map[string]string) []string {
	ops := make([]string, 0, len(time))
	for op := range time {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	lines := make([]string, 0, len(ops))
	for _, op := range ops {
		lines = append(lines, op+": "+time[op])
	}
	return lines
}
