package search

import (
	"context"
	"errors"
	"fmt"
	"log"

	"rainier-guide-be/pkg/embedding"
	"rainier-guide-be/pkg/store"
)

// ErrUnavailable wraps every embedding or index failure.
var ErrUnavailable = errors.New("retrieval unavailable")

// DefaultTopK is the number of passages used to ground an answer.
const DefaultTopK = 3

// PassageIndex is a nearest-neighbour lookup over stored passage vectors.
// Results are ordered by descending similarity.
type PassageIndex interface {
	SearchSimilar(ctx context.Context, vector []float32, k int) ([]store.Passage, error)
}

// Retriever embeds a query and asks the index for its nearest passages.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	index             PassageIndex
	logger            *log.Logger
}

func NewRetriever(embeddingProvider embedding.EmbeddingProvider, index PassageIndex, logger *log.Logger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		index:             index,
		logger:            logger,
	}
}

// Retrieve returns at most k passages. k <= 0 returns nothing without touching the collaborators.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]store.Passage, error) {
	if k <= 0 {
		return []store.Passage{}, nil
	}

	// 1. Embed the query
	embeddingRes, err := r.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		r.logger.Printf("[RETRIEVER] embedding failed: %v", err)
		return nil, fmt.Errorf("%w: embed query: %w", ErrUnavailable, err)
	}

	// 2. Nearest neighbours, no similarity threshold
	passages, err := r.index.SearchSimilar(ctx, embeddingRes.Embedding.Values, k)
	if err != nil {
		r.logger.Printf("[RETRIEVER] vector search failed: %v", err)
		return nil, fmt.Errorf("%w: vector search: %w", ErrUnavailable, err)
	}

	if len(passages) > k {
		passages = passages[:k]
	}
	if passages == nil {
		passages = []store.Passage{}
	}

	r.logger.Printf("[RETRIEVER] %d passages for %q", len(passages), query)
	return passages, nil
}
