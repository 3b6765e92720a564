package chunker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// problemChunks renders a problem: description first, then examples,
// one chunk per approach and finally the guidance block.
func problemChunks(p *domain.Problem, id string) []domain.Chunk {
	base := map[string]string{
		domain.MetaDocumentID:      id,
		domain.MetaTitle:           p.Title,
		domain.MetaPartition:       string(domain.PartitionProblems),
		domain.MetaDifficulty:      string(p.Difficulty),
		domain.MetaSource:          string(p.Metadata.Source),
		domain.MetaTopics:          joinList(p.Topics),
		domain.MetaCompanies:       joinList(p.Companies),
		domain.MetaOptimalApproach: p.OptimalApproach,
	}

	chunks := make([]domain.Chunk, 0, 3+len(p.Approaches))

	desc := newSection("Problem", p.Title, "Problem Description").
		header(
			"Difficulty", string(p.Difficulty),
			"Source", string(p.Metadata.Source),
			"Topics", strings.Join(p.Topics, ", "),
		).
		block("Description", p.Description).
		bullets("Constraints", p.Constraints)
	chunks = append(chunks, newChunk(id, "description", domain.ChunkProblemDescription, desc.String(), base))

	if len(p.Examples) > 0 {
		s := newSection("Problem", p.Title, "Examples")
		for i, ex := range p.Examples {
			var b strings.Builder
			fmt.Fprintf(&b, "Example %d:\nInput: %s\nOutput: %s", i+1, ex.Input, ex.Output)
			if e := strings.TrimSpace(ex.Explanation); e != "" {
				b.WriteString("\nExplanation: " + e)
			}
			s.text(b.String())
		}
		chunks = append(chunks, newChunk(id, "examples", domain.ChunkExamples, s.String(), base))
	}

	for i, a := range p.Approaches {
		optimal := a.Name == p.OptimalApproach
		s := newSection("Problem", p.Title, "Solution Approach").
			header(
				"Approach", a.Name,
				"Time Complexity", a.TimeComplexity,
				"Space Complexity", a.SpaceComplexity,
			).
			block("Explanation", a.Explanation)
		if optimal {
			s.text("This is the optimal approach.")
		}
		if code := codeImplementations(a.Code); code != "" {
			s.block("Code Implementations", code)
		}
		chunks = append(chunks, newChunk(id, "approach_"+strconv.Itoa(i), domain.ChunkSolutionApproach, s.String(), base,
			domain.MetaApproachName, a.Name,
			domain.MetaTimeComplexity, a.TimeComplexity,
			domain.MetaSpaceComplexity, a.SpaceComplexity,
			domain.MetaIsOptimal, strconv.FormatBool(optimal),
		))
	}

	if hasAny(p.Hints, p.CommonMistakes, p.EdgeCases, p.FollowUpQuestions, p.SimilarProblems) {
		s := newSection("Problem", p.Title, "Hints and Guidance").
			numbered("Hints", p.Hints).
			bullets("Common Mistakes", p.CommonMistakes).
			bullets("Edge Cases", p.EdgeCases).
			bullets("Follow-up Questions", p.FollowUpQuestions).
			bullets("Similar Problems", p.SimilarProblems)
		chunks = append(chunks, newChunk(id, "hints", domain.ChunkHintsGuidance, s.String(), base))
	}

	return chunks
}

// codeImplementations renders per-language code sorted by language name.
func codeImplementations(code map[string]string) string {
	langs := make([]string, 0, len(code))
	for lang, src := range code {
		if strings.TrimSpace(src) != "" {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)

	parts := make([]string, 0, len(langs))
	for _, lang := range langs {
		parts = append(parts, lang+":\n"+strings.TrimSpace(code[lang]))
	}
	return strings.Join(parts, "\n\n")
}
