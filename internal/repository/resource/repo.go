// Package resource persists corpus items as hashes, one per resource,
// keyed by data source.
package resource

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/graphmesh/retrieval/internal/db"
	"github.com/graphmesh/retrieval/internal/domain"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

// store is the consumer interface for resources (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/ingest.Repository.
type Repo struct {
	store store
}

// New creates a resource repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates a resource. Returns true if created.
func (r *Repo) Upsert(
	ctx context.Context, ds source.DataSource, res *domres.Resource, vector []float32,
) (bool, error) {
	key := resourceKey(ds, res.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(res, vector)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// UpsertMulti stores a batch of resources in a single pipelined round-trip.
// Vectors are positional: vectors[i] belongs to resources[i].
func (r *Repo) UpsertMulti(
	ctx context.Context, ds source.DataSource, resources []domres.Resource, vectors [][]float32,
) error {
	if len(resources) != len(vectors) {
		return fmt.Errorf("resources/vectors length mismatch: %d != %d", len(resources), len(vectors))
	}

	items := make([]db.HashSetItem, len(resources))
	for i := range resources {
		items[i] = db.HashSetItem{
			Key:    resourceKey(ds, resources[i].ID()),
			Fields: buildHashFields(&resources[i], vectors[i]),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi: %w", err)
	}
	return nil
}

// Get returns a resource by ID.
func (r *Repo) Get(ctx context.Context, ds source.DataSource, id string) (domres.Resource, error) {
	key := resourceKey(ds, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domres.Resource{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domres.Resource{}, domain.ErrResourceNotFound
	}
	return parseHashFields(id, m), nil
}

// List returns resources with cursor-based pagination via FT.SEARCH.
func (r *Repo) List(ctx context.Context, ds source.DataSource, cursor string, limit int) (
	[]domres.Resource, string, error,
) {
	if limit <= 0 {
		limit = 20
	}

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor %q: %w", cursor, domain.ErrInvalidRequest)
		}
		offset = parsed
	}

	idxName := IndexName(ds)
	fetchCount := limit + 1

	result, err := r.store.SearchList(ctx, idxName, "*", offset, fetchCount, nil)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("search list %s: %w", ds, err)
	}

	if result == nil || result.Total == 0 {
		return nil, "", nil
	}

	resources := make([]domres.Resource, 0, limit)
	for i, entry := range result.Entries {
		if i >= limit {
			break
		}
		id := extractResourceID(entry.Key, ds)
		resources = append(resources, parseHashFields(id, entry.Fields))
	}

	var nextCursor string
	if len(result.Entries) > limit {
		nextCursor = strconv.Itoa(offset + limit)
	}

	return resources, nextCursor, nil
}

// Count returns the number of resources indexed for a data source.
func (r *Repo) Count(ctx context.Context, ds source.DataSource) (int, error) {
	n, err := r.store.SearchCount(ctx, IndexName(ds), "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("search count %s: %w", ds, err)
	}
	return n, nil
}

// Delete removes a resource.
func (r *Repo) Delete(ctx context.Context, ds source.DataSource, id string) error {
	key := resourceKey(ds, id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrResourceNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// IndexName returns the FT index name for a data source.
func IndexName(ds source.DataSource) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, ds)
}

// KeyPrefix returns the hash key prefix for a data source.
func KeyPrefix(ds source.DataSource) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, ds)
}

func resourceKey(ds source.DataSource, id string) string {
	return KeyPrefix(ds) + id
}

func extractResourceID(key string, ds source.DataSource) string {
	return strings.TrimPrefix(key, KeyPrefix(ds))
}
