package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	out := normalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-6)
	assert.InDelta(t, 0.8, out[1], 1e-6)

	zero := []float32{0, 0, 0}
	assert.Equal(t, zero, normalizeVector(zero))
}

func TestOllamaProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "skyline trail", req.Prompt)
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float64{1, 2, 2}})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	res, err := p.Generate(context.Background(), "skyline trail", TaskRetrievalQuery)
	require.NoError(t, err)

	var norm float64
	for _, v := range res.Embedding.Values {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestOllamaProvider_EmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[]}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "nomic-embed-text").Generate(context.Background(), "x", TaskRetrievalQuery)
	assert.Error(t, err)
}

func TestGeminiProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:embedContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var req geminiEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, TaskRetrievalDocument, req.TaskType)
		require.Len(t, req.Content.Parts, 1)
		assert.Equal(t, "camp muir", req.Content.Parts[0].Text)

		_, _ = w.Write([]byte(`{"embedding":{"values":[0.1,0.2]}}`))
	}))
	defer srv.Close()

	res, err := NewGeminiProvider("secret").WithBaseURL(srv.URL).Generate(context.Background(), "camp muir", TaskRetrievalDocument)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, res.Embedding.Values)
}

func TestGeminiProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGeminiProvider("k").WithBaseURL(srv.URL).Generate(context.Background(), "x", TaskRetrievalQuery)
	assert.ErrorContains(t, err, "code 429")
}
