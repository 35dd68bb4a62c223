// Package retrieval executes the hybrid search behind POST /copilot/retrieval:
// embed the query, run KNN and BM25 in the corpus of the requested data
// source, fuse the rankings, and shape the winners into hits with extracts.
package retrieval

import (
	"context"
	"fmt"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/request"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/result"
)

// candidateMultiplier widens the per-ranking fetch so RRF has enough overlap
// to fuse before the final cut to MaxResults.
const candidateMultiplier = 2

// Service handles retrieval requests.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates a retrieval service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Retrieve runs a hybrid search and returns ranked hits. On backends without
// TEXT search it degrades to semantic-only ranking.
func (s *Service) Retrieve(ctx context.Context, req *request.Request) ([]result.Hit, error) {
	embResult, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(embResult.TotalTokens)

	fetchK := req.MaxResults() * candidateMultiplier

	knn, err := s.repo.SearchKNN(
		ctx, req.DataSource(), embResult.Embedding, req.Filters(), fetchK, req.MetadataKeys(),
	)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	var candidates []result.Candidate
	if s.repo.SupportsTextSearch(ctx) {
		bm25, err := s.repo.SearchBM25(
			ctx, req.DataSource(), req.Query(), req.Filters(), fetchK, req.MetadataKeys(),
		)
		if err != nil {
			return nil, fmt.Errorf("search bm25: %w", err)
		}
		candidates = fuseRRF(knn, bm25, req.MaxResults())
	} else {
		candidates = knn
		if len(candidates) > req.MaxResults() {
			candidates = candidates[:req.MaxResults()]
		}
	}

	hits := make([]result.Hit, 0, len(candidates))
	for i := range candidates {
		hits = append(hits, s.buildHit(&candidates[i], req))
	}
	return hits, nil
}

// buildHit turns a ranked candidate into a hit: content is sliced into
// extracts and metadata is projected down to the requested keys.
func (s *Service) buildHit(c *result.Candidate, req *request.Request) result.Hit {
	extracts := buildExtracts(c.Content(), req.Query())
	metadata := projectMetadata(c.Metadata(), req.MetadataKeys())
	return result.NewHit(c.ID(), c.Type(), c.WebURL(), extracts, metadata, c.Label())
}

// projectMetadata keeps only the requested keys. Keys the resource does not
// carry are skipped, not errored. No requested keys means no metadata.
func projectMetadata(stored map[string]string, keys []string) map[string]string {
	if len(keys) == 0 || len(stored) == 0 {
		return nil
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := stored[k]; ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
