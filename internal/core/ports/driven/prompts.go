package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// PromptGroundedAnswer is the system prompt for answers built from retrieved context.
// The template expects a single %s placeholder for the context block.
const PromptGroundedAnswer = "grounded_answer"
