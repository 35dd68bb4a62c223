package chi

import (
	"fmt"

	"github.com/graphmesh/retrieval/internal/domain/label"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/result"
	"github.com/graphmesh/retrieval/pkg/graph"
)

// responseFromHits shapes ranked hits into the wire envelope. Hit order is
// preserved; extracts keep document order.
func responseFromHits(hits []result.Hit) graph.RetrievalResponse {
	wireHits := make([]graph.RetrievalHit, len(hits))
	for i := range hits {
		wireHits[i] = hitToWire(&hits[i])
	}
	return graph.RetrievalResponse{RetrievalHits: wireHits}
}

func hitToWire(h *result.Hit) graph.RetrievalHit {
	extracts := make([]graph.RetrievalExtract, len(h.Extracts()))
	for i, text := range h.Extracts() {
		t := text
		extracts[i] = graph.RetrievalExtract{Text: &t}
	}

	hit := graph.RetrievalHit{
		Extracts:     extracts,
		ResourceType: graph.ResourceType(h.Type()),
	}

	if url := h.WebURL(); url != "" {
		hit.WebURL = &url
	}

	if meta := h.Metadata(); len(meta) > 0 {
		hit.ResourceMetadata = &graph.ResourceMetadataDictionary{Values: meta}
	}

	if lbl := h.Label(); !lbl.IsZero() {
		hit.SensitivityLabel = labelToWire(lbl)
	}

	return hit
}

func labelToWire(lbl label.Label) *graph.SensitivityLabelInfo {
	info := &graph.SensitivityLabelInfo{}

	id := lbl.ID()
	info.SensitivityLabelID = &id

	if v := lbl.DisplayName(); v != "" {
		info.DisplayName = &v
	}
	if v := lbl.Color(); v != "" {
		info.Color = &v
	}
	if v := lbl.Tooltip(); v != "" {
		info.Tooltip = &v
	}
	if v := lbl.Priority(); v != 0 {
		info.Priority = graph.Int32Ptr(v)
	}
	encrypted := lbl.IsEncrypted()
	info.IsEncrypted = &encrypted

	return info
}

// --- Admin wire types ---

// upsertResourceRequest is the PUT body for a single corpus resource.
type upsertResourceRequest struct {
	Content          string                `json:"content"`
	ResourceType     string                `json:"resourceType,omitempty"`
	WebURL           string                `json:"webUrl,omitempty"`
	Metadata         map[string]string     `json:"metadata,omitempty"`
	SensitivityLabel *sensitivityLabelBody `json:"sensitivityLabel,omitempty"`
}

// batchUpsertRequest is the POST /batch body.
type batchUpsertRequest struct {
	Resources []batchUpsertItem `json:"resources"`
}

type batchUpsertItem struct {
	ID string `json:"id"`
	upsertResourceRequest
}

type sensitivityLabelBody struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Color       string `json:"color,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
	Priority    int32  `json:"priority,omitempty"`
	IsEncrypted bool   `json:"isEncrypted,omitempty"`
}

// resourceResponse is the admin view of a stored resource.
type resourceResponse struct {
	ID               string                `json:"id"`
	Content          string                `json:"content"`
	ResourceType     string                `json:"resourceType"`
	WebURL           string                `json:"webUrl,omitempty"`
	Metadata         map[string]string     `json:"metadata,omitempty"`
	SensitivityLabel *sensitivityLabelBody `json:"sensitivityLabel,omitempty"`
}

// resourceListResponse is the paginated admin listing.
type resourceListResponse struct {
	Items      []resourceResponse `json:"items"`
	Total      int                `json:"total"`
	HasMore    bool               `json:"hasMore"`
	NextCursor *string            `json:"nextCursor,omitempty"`
}

func resourceFromRequest(id string, req *upsertResourceRequest) (domres.Resource, error) {
	var lbl label.Label
	if req.SensitivityLabel != nil {
		lbl = label.New(
			req.SensitivityLabel.ID,
			req.SensitivityLabel.DisplayName,
			req.SensitivityLabel.Color,
			req.SensitivityLabel.Tooltip,
			req.SensitivityLabel.Priority,
			req.SensitivityLabel.IsEncrypted,
		)
	}

	res, err := domres.New(
		id, req.Content, domres.Type(req.ResourceType), req.WebURL, req.Metadata, lbl,
	)
	if err != nil {
		return domres.Resource{}, fmt.Errorf("build resource: %w", err)
	}
	return res, nil
}

func resourceToResponse(res *domres.Resource) resourceResponse {
	resp := resourceResponse{
		ID:           res.ID(),
		Content:      res.Content(),
		ResourceType: string(res.Type()),
		WebURL:       res.WebURL(),
		Metadata:     res.Metadata(),
	}
	if lbl := res.Label(); !lbl.IsZero() {
		resp.SensitivityLabel = &sensitivityLabelBody{
			ID:          lbl.ID(),
			DisplayName: lbl.DisplayName(),
			Color:       lbl.Color(),
			Tooltip:     lbl.Tooltip(),
			Priority:    lbl.Priority(),
			IsEncrypted: lbl.IsEncrypted(),
		}
	}
	return resp
}
