package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"rainier-guide-be/pkg/embedding"
	"rainier-guide-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct{ mock.Mock }

func (m *mockEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	args := m.Called(ctx, text, taskType)
	res, _ := args.Get(0).(*embedding.EmbeddingResponse)
	return res, args.Error(1)
}

type mockIndex struct{ mock.Mock }

func (m *mockIndex) SearchSimilar(ctx context.Context, vector []float32, k int) ([]store.Passage, error) {
	args := m.Called(ctx, vector, k)
	res, _ := args.Get(0).([]store.Passage)
	return res, args.Error(1)
}

func vectorOf(values ...float32) *embedding.EmbeddingResponse {
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: values}}
}

func passages(n int) []store.Passage {
	out := make([]store.Passage, n)
	for i := range out {
		out[i] = store.Passage{Content: "passage", Source: "nps.gov", Score: 1 - float64(i)/10}
	}
	return out
}

func TestRetriever_Retrieve(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	ctx := context.Background()

	t.Run("k zero makes no calls", func(t *testing.T) {
		emb, idx := &mockEmbedder{}, &mockIndex{}
		got, err := NewRetriever(emb, idx, logger).Retrieve(ctx, "permits", 0)

		require.NoError(t, err)
		assert.Empty(t, got)
		emb.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
		idx.AssertNotCalled(t, "SearchSimilar", mock.Anything, mock.Anything, mock.Anything)
	})

	for _, k := range []int{1, 3, 5} {
		t.Run("bounded by k", func(t *testing.T) {
			emb, idx := &mockEmbedder{}, &mockIndex{}
			emb.On("Generate", mock.Anything, "permits", embedding.TaskRetrievalQuery).Return(vectorOf(0.1, 0.2), nil)
			// an index that ignores k must still be truncated
			idx.On("SearchSimilar", mock.Anything, []float32{0.1, 0.2}, k).Return(passages(4), nil)

			got, err := NewRetriever(emb, idx, logger).Retrieve(ctx, "permits", k)

			require.NoError(t, err)
			assert.LessOrEqual(t, len(got), k)
			emb.AssertExpectations(t)
			idx.AssertExpectations(t)
		})
	}

	t.Run("empty index", func(t *testing.T) {
		emb, idx := &mockEmbedder{}, &mockIndex{}
		emb.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(vectorOf(1), nil)
		idx.On("SearchSimilar", mock.Anything, mock.Anything, 3).Return(nil, nil)

		got, err := NewRetriever(emb, idx, logger).Retrieve(ctx, "glaciers", 3)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("embedding failure is unavailable", func(t *testing.T) {
		emb, idx := &mockEmbedder{}, &mockIndex{}
		emb.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("ollama down"))

		_, err := NewRetriever(emb, idx, logger).Retrieve(ctx, "glaciers", 3)

		assert.ErrorIs(t, err, ErrUnavailable)
		idx.AssertNotCalled(t, "SearchSimilar", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("index failure is unavailable", func(t *testing.T) {
		emb, idx := &mockEmbedder{}, &mockIndex{}
		emb.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(vectorOf(1), nil)
		idx.On("SearchSimilar", mock.Anything, mock.Anything, 3).Return(nil, errors.New("connection reset"))

		_, err := NewRetriever(emb, idx, logger).Retrieve(ctx, "glaciers", 3)

		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "connection reset")
	})
}
