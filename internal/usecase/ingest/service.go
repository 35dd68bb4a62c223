// Package ingest manages the per-source corpora: embedding resource content
// and writing it to the store so retrieval has something to search.
package ingest

import (
	"context"
	"fmt"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

// MaxBatchSize bounds a single batch upsert.
const MaxBatchSize = 100

// Service handles corpus ingestion.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates an ingest service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Upsert embeds and stores a single resource. Returns true if created.
func (s *Service) Upsert(
	ctx context.Context, ds source.DataSource, res *resource.Resource,
) (bool, error) {
	if !ds.IsRoutable() {
		return false, fmt.Errorf("%w: %q", domain.ErrDataSourceNotSupported, ds)
	}

	embResult, err := s.embed.Embed(ctx, res.Content())
	if err != nil {
		return false, fmt.Errorf("vectorize content: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(embResult.TotalTokens)

	created, err := s.repo.Upsert(ctx, ds, res, embResult.Embedding)
	if err != nil {
		return false, fmt.Errorf("upsert resource: %w", err)
	}
	return created, nil
}

// UpsertBatch embeds and stores up to MaxBatchSize resources. Embeddings run
// sequentially; the store write is a single pipelined round-trip.
func (s *Service) UpsertBatch(
	ctx context.Context, ds source.DataSource, resources []resource.Resource,
) error {
	if !ds.IsRoutable() {
		return fmt.Errorf("%w: %q", domain.ErrDataSourceNotSupported, ds)
	}
	if len(resources) == 0 {
		return nil
	}
	if len(resources) > MaxBatchSize {
		return fmt.Errorf("%w: batch too large (max %d)", domain.ErrInvalidRequest, MaxBatchSize)
	}

	vectors := make([][]float32, len(resources))
	for i := range resources {
		embResult, err := s.embed.Embed(ctx, resources[i].Content())
		if err != nil {
			return fmt.Errorf("vectorize content %s: %w", resources[i].ID(), err)
		}
		domain.UsageFromContext(ctx).AddTokens(embResult.TotalTokens)
		vectors[i] = embResult.Embedding
	}

	if err := s.repo.UpsertMulti(ctx, ds, resources, vectors); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// Get returns a stored resource.
func (s *Service) Get(ctx context.Context, ds source.DataSource, id string) (resource.Resource, error) {
	if !ds.IsRoutable() {
		return resource.Resource{}, fmt.Errorf("%w: %q", domain.ErrDataSourceNotSupported, ds)
	}
	res, err := s.repo.Get(ctx, ds, id)
	if err != nil {
		return resource.Resource{}, fmt.Errorf("get resource: %w", err)
	}
	return res, nil
}

// List returns stored resources with cursor pagination.
func (s *Service) List(
	ctx context.Context, ds source.DataSource, cursor string, limit int,
) ([]resource.Resource, string, error) {
	if !ds.IsRoutable() {
		return nil, "", fmt.Errorf("%w: %q", domain.ErrDataSourceNotSupported, ds)
	}
	resources, next, err := s.repo.List(ctx, ds, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list resources: %w", err)
	}
	return resources, next, nil
}

// Count returns the corpus size for a data source.
func (s *Service) Count(ctx context.Context, ds source.DataSource) (int, error) {
	if !ds.IsRoutable() {
		return 0, fmt.Errorf("%w: %q", domain.ErrDataSourceNotSupported, ds)
	}
	n, err := s.repo.Count(ctx, ds)
	if err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return n, nil
}

// Delete removes a resource from its corpus.
func (s *Service) Delete(ctx context.Context, ds source.DataSource, id string) error {
	if !ds.IsRoutable() {
		return fmt.Errorf("%w: %q", domain.ErrDataSourceNotSupported, ds)
	}
	if err := s.repo.Delete(ctx, ds, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}
