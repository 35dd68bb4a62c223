// Package request holds the validated retrieval query.
package request

import (
	"fmt"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/filter"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

// Retrieval parameter limits.
const (
	// MaxQueryLength is the maximum allowed query string length.
	MaxQueryLength = 4096
	// DefaultMaxResults applies when maximumNumberOfResults is absent or non-positive.
	DefaultMaxResults = 10
	// MaxResultsCap is the upper bound the service clamps to. The wire accepts
	// the full int32 range; anything above the cap is reduced to it.
	MaxResultsCap = 25
	// MaxMetadataKeys bounds the resourceMetadata projection list.
	MaxMetadataKeys = 16
)

// Request is a validated retrieval query.
type Request struct {
	query        string
	dataSource   source.DataSource
	filters      filter.Expression
	metadataKeys []string
	maxResults   int
}

// New validates and normalizes retrieval parameters.
// maxResults ≤ 0 falls back to DefaultMaxResults; values above MaxResultsCap
// are clamped. metadataKeys are deduplicated, empty entries dropped.
func New(
	query string,
	ds source.DataSource,
	filters filter.Expression,
	metadataKeys []string,
	maxResults int,
) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("%w: queryString is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: queryString too long (max %d chars)",
			domain.ErrInvalidRequest, MaxQueryLength)
	}
	if !ds.IsValid() {
		return Request{}, fmt.Errorf("%w: unknown dataSource %q", domain.ErrInvalidRequest, ds)
	}
	if !ds.IsRoutable() {
		return Request{}, fmt.Errorf("%w: %q", domain.ErrDataSourceNotSupported, ds)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResultsCap {
		maxResults = MaxResultsCap
	}

	keys := dedupeKeys(metadataKeys)
	if len(keys) > MaxMetadataKeys {
		return Request{}, fmt.Errorf("%w: too many resourceMetadata keys (max %d)",
			domain.ErrInvalidRequest, MaxMetadataKeys)
	}

	return Request{
		query:        query,
		dataSource:   ds,
		filters:      filters,
		metadataKeys: keys,
		maxResults:   maxResults,
	}, nil
}

// Query returns the query text.
func (r *Request) Query() string { return r.query }

// DataSource returns the corpus to retrieve from.
func (r *Request) DataSource() source.DataSource { return r.dataSource }

// Filters returns the parsed filter expression.
func (r *Request) Filters() filter.Expression { return r.filters }

// MetadataKeys returns the requested metadata projection keys.
func (r *Request) MetadataKeys() []string { return r.metadataKeys }

// MaxResults returns the normalized maximum number of hits to return.
func (r *Request) MaxResults() int { return r.maxResults }

func dedupeKeys(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
