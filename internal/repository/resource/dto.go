package resource

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strings"

	"github.com/graphmesh/retrieval/internal/domain/label"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
)

// Reserved hash field names. Metadata keys are stored under the "m_" prefix
// so they can never collide with these.
const (
	fieldContent = "__content"
	fieldVector  = "__vector"
	fieldType    = "__rtype"
	fieldWebURL  = "__weburl"
	fieldLabel   = "__label"

	metaPrefix = "m_"
)

// labelDTO is the stored JSON form of a sensitivity label.
type labelDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Color       string `json:"color,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
	Priority    int32  `json:"priority,omitempty"`
	IsEncrypted bool   `json:"isEncrypted,omitempty"`
}

// buildHashFields converts a resource plus its embedding into a flat
// map[string]string for HSET.
func buildHashFields(res *domres.Resource, vector []float32) map[string]string {
	m := make(map[string]string, 5+len(res.Metadata()))
	m[fieldContent] = res.Content()
	m[fieldVector] = vectorToBytes(vector)
	m[fieldType] = string(res.Type())
	if res.WebURL() != "" {
		m[fieldWebURL] = res.WebURL()
	}
	if lbl := res.Label(); !lbl.IsZero() {
		m[fieldLabel] = marshalLabel(lbl)
	}
	for k, v := range res.Metadata() {
		m[metaPrefix+k] = v
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Resource.
func parseHashFields(id string, m map[string]string) domres.Resource {
	var content, webURL string
	var rtype domres.Type
	var lbl label.Label
	metadata := make(map[string]string)

	for k, v := range m {
		switch {
		case k == fieldContent:
			content = v
		case k == fieldVector:
			// embedding is not surfaced on reads
		case k == fieldType:
			rtype = domres.Type(v)
		case k == fieldWebURL:
			webURL = v
		case k == fieldLabel:
			lbl = unmarshalLabel(v)
		case strings.HasPrefix(k, metaPrefix):
			metadata[strings.TrimPrefix(k, metaPrefix)] = v
		}
	}

	if rtype == "" {
		rtype = domres.TypeUnknownFutureValue
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	return domres.Reconstruct(id, content, rtype, webURL, metadata, lbl)
}

func marshalLabel(lbl label.Label) string {
	data, err := json.Marshal(labelDTO{
		ID:          lbl.ID(),
		DisplayName: lbl.DisplayName(),
		Color:       lbl.Color(),
		Tooltip:     lbl.Tooltip(),
		Priority:    lbl.Priority(),
		IsEncrypted: lbl.IsEncrypted(),
	})
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalLabel(s string) label.Label {
	var dto labelDTO
	if err := json.Unmarshal([]byte(s), &dto); err != nil {
		return label.Label{}
	}
	return label.New(dto.ID, dto.DisplayName, dto.Color, dto.Tooltip, dto.Priority, dto.IsEncrypted)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
