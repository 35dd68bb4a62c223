// Package result holds retrieval search output: ranked candidates from the
// index and the hits built from them.
package result

import (
	"github.com/graphmesh/retrieval/internal/domain/label"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
)

// Candidate is a single ranked match straight from the index, before extract
// slicing and metadata projection.
type Candidate struct {
	id       string
	score    float64
	content  string
	rtype    resource.Type
	webURL   string
	metadata map[string]string
	lbl      label.Label
}

// NewCandidate creates a ranked candidate.
func NewCandidate(
	id string, score float64, content string,
	t resource.Type, webURL string,
	metadata map[string]string, lbl label.Label,
) Candidate {
	return Candidate{
		id: id, score: score, content: content,
		rtype: t, webURL: webURL, metadata: metadata, lbl: lbl,
	}
}

// ID returns the resource identifier.
func (c *Candidate) ID() string { return c.id }

// Score returns the relevance score.
func (c *Candidate) Score() float64 { return c.score }

// Content returns the full resource content.
func (c *Candidate) Content() string { return c.content }

// Type returns the resource type.
func (c *Candidate) Type() resource.Type { return c.rtype }

// WebURL returns the resource web address ("" if none).
func (c *Candidate) WebURL() string { return c.webURL }

// Metadata returns the stored metadata bag.
func (c *Candidate) Metadata() map[string]string { return c.metadata }

// Label returns the sensitivity label (zero if unlabeled).
func (c *Candidate) Label() label.Label { return c.lbl }

// WithScore returns a copy of the candidate with a replaced score.
func (c Candidate) WithScore(score float64) Candidate {
	c.score = score
	return c
}

// Hit is one matched resource as returned to the caller. Extracts preserve
// in-document order.
type Hit struct {
	resourceID string
	rtype      resource.Type
	webURL     string
	extracts   []string
	metadata   map[string]string
	lbl        label.Label
}

// NewHit builds a hit from its parts.
func NewHit(
	resourceID string, t resource.Type, webURL string,
	extracts []string, metadata map[string]string, lbl label.Label,
) Hit {
	return Hit{
		resourceID: resourceID, rtype: t, webURL: webURL,
		extracts: extracts, metadata: metadata, lbl: lbl,
	}
}

// ResourceID returns the matched resource identifier.
func (h *Hit) ResourceID() string { return h.resourceID }

// Type returns the matched resource type.
func (h *Hit) Type() resource.Type { return h.rtype }

// WebURL returns the resource web address ("" if none).
func (h *Hit) WebURL() string { return h.webURL }

// Extracts returns the snippets in document order.
func (h *Hit) Extracts() []string { return h.extracts }

// Metadata returns the projected metadata.
func (h *Hit) Metadata() map[string]string { return h.metadata }

// Label returns the sensitivity label (zero if unlabeled).
func (h *Hit) Label() label.Label { return h.lbl }
