package retrieval

import (
	"encoding/json"

	"github.com/graphmesh/retrieval/internal/domain/label"
)

// labelDTO mirrors the stored JSON form of a sensitivity label.
type labelDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Color       string `json:"color,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
	Priority    int32  `json:"priority,omitempty"`
	IsEncrypted bool   `json:"isEncrypted,omitempty"`
}

func parseLabel(s string) label.Label {
	var dto labelDTO
	if err := json.Unmarshal([]byte(s), &dto); err != nil {
		return label.Label{}
	}
	return label.New(dto.ID, dto.DisplayName, dto.Color, dto.Tooltip, dto.Priority, dto.IsEncrypted)
}
