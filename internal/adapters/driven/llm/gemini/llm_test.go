package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), Config{})
	assert.Error(t, err)
}

func TestSplitConversation(t *testing.T) {
	system, history, last, err := splitConversation([]driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "use this context"},
		{Role: driven.RoleUser, Content: "what is a heap"},
		{Role: driven.RoleAssistant, Content: "a tree"},
		{Role: driven.RoleUser, Content: "and a min-heap?"},
	})
	require.NoError(t, err)

	assert.Equal(t, "use this context", system)
	assert.Equal(t, "and a min-heap?", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text("a tree"), history[1].Parts[0])
}

func TestSplitConversation_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		messages []driven.ChatMessage
	}{
		{"empty", nil},
		{"only system", []driven.ChatMessage{{Role: driven.RoleSystem, Content: "x"}}},
		{"ends with assistant", []driven.ChatMessage{
			{Role: driven.RoleUser, Content: "q"},
			{Role: driven.RoleAssistant, Content: "a"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := splitConversation(tt.messages)
			assert.Error(t, err)
		})
	}
}

func TestTextFrom(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Sliding "), genai.Text("window.")}},
		}},
	}

	out, err := textFrom(resp)
	require.NoError(t, err)
	assert.Equal(t, "Sliding window.", out)

	_, err = textFrom(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = textFrom(nil)
	assert.Error(t, err)
}
