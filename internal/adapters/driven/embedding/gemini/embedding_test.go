package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingService(context.Background(), Config{})
	assert.Error(t, err)
}

func TestBatchVectors(t *testing.T) {
	resp := &genai.BatchEmbedContentsResponse{
		Embeddings: []*genai.ContentEmbedding{
			{Values: []float32{1, 0}},
			{Values: []float32{0, 1}},
		},
	}

	vectors, err := batchVectors(resp, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)

	// Results do not alias the response.
	resp.Embeddings[0].Values[0] = 9
	assert.Equal(t, float32(1), vectors[0][0])
}

func TestBatchVectors_Mismatch(t *testing.T) {
	_, err := batchVectors(&genai.BatchEmbedContentsResponse{}, 1)
	assert.Error(t, err)

	_, err = batchVectors(nil, 1)
	assert.Error(t, err)

	_, err = batchVectors(&genai.BatchEmbedContentsResponse{Embeddings: []*genai.ContentEmbedding{nil}}, 1)
	assert.Error(t, err)
}
