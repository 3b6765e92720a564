package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

func TestNewLLMService_ProviderDefaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      LLMConfig
		baseURL  string
		model    string
		provider string
	}{
		{"openai", LLMConfig{APIKey: "k"}, DefaultBaseURL, DefaultLLMModel, "openai"},
		{"groq", LLMConfig{APIKey: "k", Provider: "groq"}, GroqBaseURL, DefaultGroqModel, "groq"},
		{"explicit", LLMConfig{APIKey: "k", Provider: "groq", BaseURL: "http://x", Model: "m"}, "http://x", "m", "groq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewLLMService(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, s.baseURL)
			assert.Equal(t, tt.model, s.ModelName())
			assert.Equal(t, tt.provider, s.Provider())
		})
	}
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{Provider: "groq"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq")
}

func TestLLMService_Chat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A trie is a prefix tree."}}]}`))
	}))
	defer srv.Close()

	s, err := NewLLMService(LLMConfig{APIKey: "gsk", BaseURL: srv.URL, Provider: "groq"})
	require.NoError(t, err)

	out, err := s.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "context"},
		{Role: driven.RoleUser, Content: "what is a trie"},
	}, driven.ChatOptions{Temperature: 0.7, MaxTokens: 1000})
	require.NoError(t, err)

	assert.Equal(t, "A trie is a prefix tree.", out)
	assert.Equal(t, DefaultGroqModel, got.Model)
	assert.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	assert.Equal(t, 1000, got.MaxTokens)
}

func TestLLMService_Generate_SendsStopWords(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	s, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := s.Generate(context.Background(), "hi", driven.GenerateOptions{StopWords: []string{"\n"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []string{"\n"}, got.Stop)
	assert.Equal(t, driven.RoleUser, got.Messages[0].Role)
}

func TestLLMService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`, "Invalid API Key"},
		{"non-json error", http.StatusBadGateway, `upstream down`, "status 502"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = s.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}}, driven.ChatOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLLMService_ChatRequiresMessages(t *testing.T) {
	s, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)

	_, err = s.Chat(context.Background(), nil, driven.ChatOptions{})
	assert.Error(t, err)
}

func TestLLMService_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}
