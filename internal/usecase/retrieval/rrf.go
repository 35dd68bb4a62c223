package retrieval

import (
	"sort"

	"github.com/graphmesh/retrieval/internal/domain/retrieval/result"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges KNN and BM25 candidates via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// When a resource appears in both lists, the KNN candidate's fields are kept.
func fuseRRF(knn, bm25 []result.Candidate, topK int) []result.Candidate {
	type scored struct {
		cand  result.Candidate
		score float64
	}

	merged := make(map[string]*scored)

	for rank, c := range knn {
		s := 1.0 / float64(rrfK+rank+1)
		merged[c.ID()] = &scored{cand: c, score: s}
	}

	for rank, c := range bm25 {
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[c.ID()]; ok {
			existing.score += s
		} else {
			merged[c.ID()] = &scored{cand: c, score: s}
		}
	}

	fused := make([]result.Candidate, 0, len(merged))
	for _, s := range merged {
		fused = append(fused, s.cand.WithScore(s.score))
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score() != fused[j].Score() {
			return fused[i].Score() > fused[j].Score()
		}
		return fused[i].ID() < fused[j].ID()
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}

	return fused
}
