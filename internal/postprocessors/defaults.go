package postprocessors

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/postprocessors/chunker"
	"github.com/custodia-labs/dailybit/internal/postprocessors/normalise"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("normalise", buildNormalise)
}

// BuildPipeline constructs a pipeline from configuration.
// The first processor must create chunks, so "chunker" is required first.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 || cfg.Processors[0] != "chunker" {
		return nil, fmt.Errorf("%w: pipeline must start with chunker, got %v", domain.ErrInvalidInput, cfg.Processors)
	}

	p := NewPipeline()
	for _, name := range cfg.Processors {
		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		p.Add(proc)
	}
	return p, nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - namespace (string): UUID namespace for derived document IDs
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if ns, ok := cfg["namespace"].(string); ok && ns != "" {
		parsed, err := uuid.Parse(ns)
		if err != nil {
			return nil, fmt.Errorf("chunker namespace: %w", err)
		}
		opts = append(opts, chunker.WithNamespace(parsed))
	}

	return chunker.New(opts...), nil
}

// buildNormalise creates a normalise processor from generic config.
// Supported config keys:
//   - max_blank_lines (int): Consecutive blank lines kept (default: 1)
func buildNormalise(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []normalise.Option

	if _, ok := cfg["max_blank_lines"]; ok {
		opts = append(opts, normalise.WithMaxBlankLines(getIntFromConfig(cfg, "max_blank_lines")))
	}

	return normalise.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
