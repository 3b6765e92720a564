package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailybit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dailybit/internal/core/domain"
)

func newTestSettings(seed map[string]any, env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore(seed)
	svc := NewSettingsService(store)
	svc.getenv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	return svc, store
}

func TestSettingsService_Defaults(t *testing.T) {
	svc, _ := newTestSettings(nil, nil)

	s, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, ":8000", s.Server.Addr)
	assert.Equal(t, domain.AIProviderOllama, s.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", s.Embedding.Model)
	assert.Equal(t, domain.AIProviderGroq, s.LLM.Provider)
	assert.Equal(t, "openai/gpt-oss-120b", s.LLM.Model)
	assert.InDelta(t, 0.7, s.LLM.Temperature, 1e-9)
	assert.Equal(t, 1000, s.LLM.MaxTokens)
	assert.Equal(t, 768, s.VectorStore.Dimensions)
	assert.Equal(t, []string{"chunker", "normalise"}, s.Pipeline.Processors)
	assert.Equal(t, svc.GetDefaults().Retrieval, s.Retrieval)
}

func TestSettingsService_ConfigStoreLayer(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{
		"llm.provider":                   "ollama",
		"llm.temperature":                0.0,
		"embedding.provider":             "openai",
		"embedding.api_key":              "sk-x",
		"vectorstore.backend":            "pgvector",
		"vectorstore.dsn":                "postgres://localhost/dailybit",
		"retrieval.similarity_threshold": 0.5,
		"ingest.pipeline":                []any{"chunker"},
		"server.cors_origins":            []string{"http://localhost:3000"},
	}, nil)

	s, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOllama, s.LLM.Provider)
	assert.Equal(t, "llama3.2", s.LLM.Model)
	assert.InDelta(t, 0.0, s.LLM.Temperature, 1e-9)
	assert.Equal(t, "text-embedding-3-small", s.Embedding.Model)
	assert.Equal(t, 1536, s.VectorStore.Dimensions)
	assert.Equal(t, domain.VectorBackendPgvector, s.VectorStore.Backend)
	assert.InDelta(t, 0.5, s.Retrieval.SimilarityThreshold, 1e-9)
	assert.Equal(t, []string{"chunker"}, s.Pipeline.Processors)
	assert.Equal(t, []string{"http://localhost:3000"}, s.Server.CORSOrigins)
}

func TestSettingsService_InvalidProviderFallsBack(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{"llm.provider": "cohere"}, nil)

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGroq, s.LLM.Provider)
}

func TestSettingsService_EnvOverrides(t *testing.T) {
	svc, _ := newTestSettings(
		map[string]any{"llm.model": "from-file", "server.addr": ":1"},
		map[string]string{
			"GROQ_API_KEY":    "gsk_env",
			"MODEL_NAME":      "llama-3.1-8b-instant",
			"EMBEDDING_MODEL": "mxbai-embed-large",
			"CHROMA_DB_PATH":  "/data/chroma",
			"DATABASE_URL":    "postgres://db/x",
			"REDIS_ADDR":      "redis:6379",
			"API_HOST":        "0.0.0.0",
			"API_PORT":        "9000",
			"LOG_LEVEL":       "DEBUG",
		},
	)

	s, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "gsk_env", s.LLM.APIKey)
	assert.Equal(t, "llama-3.1-8b-instant", s.LLM.Model)
	assert.Equal(t, "mxbai-embed-large", s.Embedding.Model)
	assert.Equal(t, 1024, s.VectorStore.Dimensions)
	assert.Equal(t, "/data/chroma", s.VectorStore.Path)
	assert.Equal(t, "postgres://db/x", s.VectorStore.DSN)
	assert.Equal(t, "redis:6379", s.Redis.Addr)
	assert.Equal(t, "0.0.0.0:9000", s.Server.Addr)
	assert.True(t, s.Log.Verbose)
}

func TestSettingsService_PrefixedEnvWins(t *testing.T) {
	svc, _ := newTestSettings(nil, map[string]string{
		"DAILYBIT_LLM_API_KEY": "primary",
		"GROQ_API_KEY":         "secondary",
		"DAILYBIT_LLM_MODEL":   "m1",
		"MODEL_NAME":           "m2",
		"DAILYBIT_SERVER_ADDR": ":7000",
		"API_PORT":             "9000",
	})

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "primary", s.LLM.APIKey)
	assert.Equal(t, "m1", s.LLM.Model)
	assert.Equal(t, ":7000", s.Server.Addr)
}

func TestSettingsService_ProviderKeyFollowsProvider(t *testing.T) {
	svc, _ := newTestSettings(nil, map[string]string{
		"DAILYBIT_LLM_PROVIDER": "anthropic",
		"GROQ_API_KEY":          "gsk",
		"ANTHROPIC_API_KEY":     "sk-ant",
	})

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, s.LLM.Provider)
	assert.Equal(t, "sk-ant", s.LLM.APIKey)
	assert.Equal(t, "claude-3-5-sonnet-latest", s.LLM.Model)
}

func TestSettingsService_Set(t *testing.T) {
	svc, store := newTestSettings(nil, nil)

	require.NoError(t, svc.Set("llm.provider", "ollama"))
	assert.Equal(t, 1, store.Saves())

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, s.LLM.Provider)

	assert.ErrorIs(t, svc.Set(" ", "x"), domain.ErrInvalidInput)
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		seed    map[string]any
		env     map[string]string
		wantErr error
	}{
		{
			name: "valid",
			env:  map[string]string{"GROQ_API_KEY": "gsk"},
		},
		{
			name:    "missing llm key",
			wantErr: domain.ErrNotConfigured,
		},
		{
			name:    "pgvector without dsn",
			seed:    map[string]any{"vectorstore.backend": "pgvector", "llm.provider": "ollama"},
			wantErr: domain.ErrNotConfigured,
		},
		{
			name:    "unknown backend",
			seed:    map[string]any{"vectorstore.backend": "faiss", "llm.provider": "ollama"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "threshold out of range",
			seed:    map[string]any{"retrieval.similarity_threshold": 1.5, "llm.provider": "ollama"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown cache",
			seed:    map[string]any{"embedding.cache": "memcached", "llm.provider": "ollama"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestSettings(tt.seed, tt.env)
			err := svc.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
