// Package retrieval runs ranked searches over the per-source corpora and
// maps raw index hits into domain candidates.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphmesh/retrieval/internal/db"
	"github.com/graphmesh/retrieval/internal/domain/label"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/filter"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/result"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
	resrepo "github.com/graphmesh/retrieval/internal/repository/resource"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo implements usecase/retrieval.Repository.
type Repo struct {
	store store
}

// New creates a retrieval repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SupportsTextSearch proxies the capability check from the store.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// SearchKNN performs a vector similarity search on a data source corpus with
// filter pre-filtering. metadataKeys limits which stored metadata fields come
// back with each candidate.
func (r *Repo) SearchKNN(
	ctx context.Context, ds source.DataSource,
	vector []float32, filters filter.Expression, topK int,
	metadataKeys []string,
) ([]result.Candidate, error) {
	q := &db.KNNQuery{
		IndexName:    resrepo.IndexName(ds),
		Filters:      filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields(metadataKeys, true),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", ds, err)
	}

	return parseCandidates(sr, ds), nil
}

// SearchBM25 performs a BM25 keyword search on a data source corpus.
func (r *Repo) SearchBM25(
	ctx context.Context, ds source.DataSource,
	query string, filters filter.Expression, topK int,
	metadataKeys []string,
) ([]result.Candidate, error) {
	q := &db.TextQuery{
		IndexName:    resrepo.IndexName(ds),
		Query:        query,
		Filters:      filters,
		TopK:         topK,
		ReturnFields: returnFields(metadataKeys, false),
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25 %s: %w", ds, err)
	}

	return parseCandidates(sr, ds), nil
}

// returnFields lists the hash fields FT.SEARCH should project back.
func returnFields(metadataKeys []string, withScore bool) []string {
	fields := []string{"__content", "__rtype", "__weburl", "__label"}
	if withScore {
		fields = append(fields, "__vector_score")
	}
	for _, k := range metadataKeys {
		fields = append(fields, "m_"+k)
	}
	return fields
}

// parseCandidates converts db.SearchResult into ranked domain candidates.
func parseCandidates(sr *db.SearchResult, ds source.DataSource) []result.Candidate {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	prefix := resrepo.KeyPrefix(ds)
	candidates := make([]result.Candidate, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, prefix)
		candidates = append(candidates, parseEntry(id, entry))
	}

	return candidates
}

func parseEntry(id string, entry db.SearchEntry) result.Candidate {
	var content, webURL string
	var rtype domres.Type
	var lbl label.Label
	var metadata map[string]string

	for k, v := range entry.Fields {
		switch {
		case k == "__content":
			content = v
		case k == "__rtype":
			rtype = domres.Type(v)
		case k == "__weburl":
			webURL = v
		case k == "__label":
			lbl = parseLabel(v)
		case strings.HasPrefix(k, "m_"):
			if metadata == nil {
				metadata = make(map[string]string)
			}
			metadata[strings.TrimPrefix(k, "m_")] = v
		}
	}

	if rtype == "" {
		rtype = domres.TypeUnknownFutureValue
	}

	return result.NewCandidate(id, entry.Score, content, rtype, webURL, metadata, lbl)
}
