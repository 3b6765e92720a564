package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// contextSeparator joins retrieved chunk texts in the grounded prompt.
const contextSeparator = "\n\n"

// errNoLLM is reported when no generation service was configured.
var errNoLLM = fmt.Errorf("%w: %w", domain.ErrGenerationFailed, errors.New("no LLM service configured"))

// AnswerService combines retrieval with answer generation.
type AnswerService struct {
	resolver  *ContextResolver
	retriever *Retriever
	llm       driven.LLMService
	prompts   driven.PromptStore
	chatOpts  driven.ChatOptions
	metrics   driven.MetricsRecorder
}

// AnswerOption configures an AnswerService.
type AnswerOption func(*AnswerService)

// WithChatOptions sets the generation options passed to the LLM.
func WithChatOptions(opts driven.ChatOptions) AnswerOption {
	return func(s *AnswerService) {
		s.chatOpts = opts
	}
}

// WithAnswerMetrics records answer outcomes.
func WithAnswerMetrics(m driven.MetricsRecorder) AnswerOption {
	return func(s *AnswerService) {
		s.metrics = m
	}
}

// NewAnswerService creates a new answer service.
// The llm parameter is optional; without it every answer fails gracefully.
func NewAnswerService(
	resolver *ContextResolver,
	retriever *Retriever,
	llm driven.LLMService,
	prompts driven.PromptStore,
	opts ...AnswerOption,
) *AnswerService {
	s := &AnswerService{
		resolver:  resolver,
		retriever: retriever,
		llm:       llm,
		prompts:   prompts,
		chatOpts: driven.ChatOptions{
			Temperature: 0.7,
			MaxTokens:   1000,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer runs the full pipeline. It never returns an error; failures are
// reported through the result's Success and Error fields.
func (s *AnswerService) Answer(ctx context.Context, query string, opts domain.SearchOptions) *domain.AnswerResult {
	logger.Section("Answer Generation")
	start := time.Now()

	result, err := s.answer(ctx, query, opts)
	if err != nil {
		logger.Warn("Answer pipeline failed: %v", err)
		s.observe(driven.AnswerFailed, start)
		return domain.FailedAnswer(query, opts.ContextHint, err)
	}

	if result.Grounded {
		s.observe(driven.AnswerGrounded, start)
	} else {
		s.observe(driven.AnswerFallback, start)
	}
	return result
}

func (s *AnswerService) answer(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.AnswerResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, errNoLLM
	}

	qc := s.resolver.Resolve(opts.ContextHint)
	threshold := opts.EffectiveThreshold()

	chunks, err := s.retriever.Retrieve(ctx, query, qc, opts.EffectiveLimit(), threshold)
	if err != nil {
		return nil, err
	}
	for i := range chunks {
		chunks[i].ContextUsed = opts.ContextHint
	}
	summary := domain.NewSearchResult(query, opts.ContextHint, qc.Partition, chunks, threshold)

	messages, err := s.buildMessages(query, chunks)
	if err != nil {
		return nil, err
	}
	grounded := len(chunks) > 0
	logger.Debug("Generating answer with %d context chunks (grounded=%t)", len(chunks), grounded)

	response, err := s.llm.Chat(ctx, messages, s.chatOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(response) == "" {
		return nil, fmt.Errorf("%w: empty response from %s", domain.ErrGenerationFailed, s.llm.ModelName())
	}

	quality := domain.ContextQualityLow
	if summary.Successful {
		quality = domain.ContextQualityHigh
	}

	return &domain.AnswerResult{
		Success:     true,
		Query:       query,
		ContextUsed: opts.ContextHint,
		Response:    response,
		Grounded:    grounded,
		Sources:     summary.Chunks,
		Search: domain.AnswerSearchMetadata{
			Partition:           qc.Partition,
			ChunksFound:         summary.TotalChunks,
			RelevantChunks:      summary.RelevantChunks,
			ContextQuality:      quality,
			Fallback:            !grounded,
			SimilarityThreshold: threshold,
		},
		LLM: domain.LLMMetadata{
			Model:    s.llm.ModelName(),
			Provider: s.llm.Provider(),
		},
	}, nil
}

// buildMessages returns the grounded conversation when chunks exist,
// otherwise the bare user query.
func (s *AnswerService) buildMessages(query string, chunks []domain.RetrievedChunk) ([]driven.ChatMessage, error) {
	user := driven.ChatMessage{Role: driven.RoleUser, Content: query}

	if len(chunks) == 0 {
		return []driven.ChatMessage{user}, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	contextText := strings.Join(texts, contextSeparator)

	template := defaultGroundedPrompt
	if s.prompts != nil {
		loaded, err := s.prompts.Load(driven.PromptGroundedAnswer)
		if err != nil {
			return nil, fmt.Errorf("load prompt %s: %w", driven.PromptGroundedAnswer, err)
		}
		template = loaded
	}

	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: fmt.Sprintf(template, contextText)},
		user,
	}, nil
}

func (s *AnswerService) observe(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveAnswer(outcome, time.Since(start))
	}
}

// defaultGroundedPrompt is used when no PromptStore is wired.
const defaultGroundedPrompt = `You are a programming tutor. Answer the user's question based ONLY on the context below.
If the context does not contain the answer, reply "I don't have enough information about this specific topic."

Context:
%s`
