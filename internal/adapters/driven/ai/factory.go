// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/dailybit/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/dailybit/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/dailybit/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/dailybit/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/dailybit/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/dailybit/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/dailybit/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// PingTimeout bounds connectivity validation.
const PingTimeout = 5 * time.Second

// Services holds the AI collaborators built from settings.
// LLM is nil when no answer provider is configured.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
	Warnings  []string
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.Embedding != nil {
		_ = s.Embedding.Close()
	}
	if s.LLM != nil {
		_ = s.LLM.Close()
	}
}

// Build creates the embedding and LLM services. The embedding service is
// required; an unconfigured or unreachable LLM only produces a warning,
// leaving answers to fail with a structured result.
func Build(ctx context.Context, settings *domain.AppSettings, ping bool) (*Services, error) {
	embedder, err := CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}
	out := &Services{Embedding: embedder}

	if ping {
		if err := pingWithTimeout(ctx, embedder); err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("embedding service unreachable: %v", err))
		}
	}

	llm, err := CreateLLMService(ctx, &settings.LLM)
	switch {
	case err != nil:
		out.Warnings = append(out.Warnings, fmt.Sprintf("LLM disabled: %v", err))
	case llm == nil:
		out.Warnings = append(out.Warnings, "LLM disabled: no provider configured")
	default:
		out.LLM = llm
		if ping {
			if err := pingWithTimeout(ctx, llm); err != nil {
				out.Warnings = append(out.Warnings, fmt.Sprintf("LLM unreachable: %v", err))
			}
		}
	}

	for _, w := range out.Warnings {
		logger.Warn("%s", w)
	}
	return out, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingWithTimeout(ctx context.Context, p pinger) error {
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// CreateEmbeddingService creates the embedding service named by settings.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider", domain.ErrNotConfigured)
	}

	dimensions := domain.EmbeddingDimensions()[settings.Model]

	switch settings.Provider {
	case domain.AIProviderOllama:
		if dimensions == 0 {
			dimensions = ollamaembed.DefaultDimensions
		}
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	default:
		return nil, fmt.Errorf("%w: %s does not provide embeddings", domain.ErrInvalidInput, settings.Provider)
	}
}

// CreateLLMService creates the LLM service named by settings.
// Returns nil, nil when no provider is configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI, domain.AIProviderGroq:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:   settings.APIKey,
			BaseURL:  settings.BaseURL,
			Model:    settings.Model,
			Provider: settings.Provider.String(),
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	default:
		return nil, errors.New("unsupported LLM provider: " + settings.Provider.String())
	}
}
