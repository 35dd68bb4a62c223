package retrieval

import (
	"context"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/filter"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/result"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

// Repository defines the storage contract for retrieval operations.
type Repository interface {
	SearchKNN(
		ctx context.Context, ds source.DataSource,
		vector []float32, filters filter.Expression, topK int,
		metadataKeys []string,
	) ([]result.Candidate, error)

	SearchBM25(
		ctx context.Context, ds source.DataSource,
		query string, filters filter.Expression, topK int,
		metadataKeys []string,
	) ([]result.Candidate, error)

	SupportsTextSearch(ctx context.Context) bool
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
