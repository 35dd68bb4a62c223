package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphmesh/retrieval/internal/db"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

// HNSWConfig tunes the HNSW vector index.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// buildIndex creates the IndexDefinition for one data source corpus.
// textSearchEnabled adds a TEXT field over __content (BM25 keyword search).
// filterableKeys become TAG fields under the m_ prefix so filterExpression
// terms can pre-filter on them.
func buildIndex(
	ds source.DataSource, vectorDim int,
	textSearchEnabled bool, filterableKeys []string, hnsw HNSWConfig,
) (*db.IndexDefinition, error) {
	if vectorDim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive")
	}

	def := &db.IndexDefinition{
		Name:        IndexName(ds),
		StorageType: db.StorageHash,
		Prefixes:    []string{KeyPrefix(ds)},
		Fields:      make([]db.IndexField, 0, len(filterableKeys)+3),
	}

	def.Fields = append(def.Fields, db.IndexField{
		Name: fieldType,
		Type: db.IndexFieldTag,
	})

	for _, key := range filterableKeys {
		def.Fields = append(def.Fields, db.IndexField{
			Name: metaPrefix + key,
			Type: db.IndexFieldTag,
		})
	}

	if textSearchEnabled {
		def.Fields = append(def.Fields, db.IndexField{
			Name: fieldContent,
			Type: db.IndexFieldText,
		})
	}

	def.Fields = append(def.Fields, db.IndexField{
		Name:              fieldVector,
		Alias:             "vector",
		Type:              db.IndexFieldVector,
		VectorAlgo:        db.VectorHNSW,
		VectorDim:         vectorDim,
		VectorDistance:    db.DistanceCosine,
		VectorM:           hnsw.M,
		VectorEFConstruct: hnsw.EFConstruct,
	})

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("index for %s: %w", ds, err)
	}

	return def, nil
}

// EnsureIndexes creates the FT index for every routable data source.
// Existing indexes are left untouched.
func EnsureIndexes(
	ctx context.Context, mgr db.IndexManager,
	vectorDim int, filterableKeys []string, hnsw HNSWConfig,
) error {
	textSearch := mgr.SupportsTextSearch(ctx)

	for _, ds := range source.Routable {
		def, err := buildIndex(ds, vectorDim, textSearch, filterableKeys, hnsw)
		if err != nil {
			return err
		}
		if err := mgr.CreateIndex(ctx, def); err != nil {
			if errors.Is(err, db.ErrIndexExists) {
				continue
			}
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
	}
	return nil
}
