package ingest

import (
	"context"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

// Repository defines the storage contract for corpus management.
type Repository interface {
	Upsert(ctx context.Context, ds source.DataSource, res *resource.Resource, vector []float32) (bool, error)
	UpsertMulti(ctx context.Context, ds source.DataSource, resources []resource.Resource, vectors [][]float32) error
	Get(ctx context.Context, ds source.DataSource, id string) (resource.Resource, error)
	List(ctx context.Context, ds source.DataSource, cursor string, limit int) ([]resource.Resource, string, error)
	Count(ctx context.Context, ds source.DataSource) (int, error)
	Delete(ctx context.Context, ds source.DataSource, id string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
