// Package label holds sensitivity label information attached to indexed
// resources and returned on retrieval hits.
package label

// Label is an immutable sensitivity label.
type Label struct {
	id          string
	displayName string
	color       string
	tooltip     string
	priority    int32
	isEncrypted bool
}

// New creates a sensitivity label. An empty id yields the zero Label,
// which IsZero reports.
func New(id, displayName, color, tooltip string, priority int32, isEncrypted bool) Label {
	if id == "" {
		return Label{}
	}
	return Label{
		id:          id,
		displayName: displayName,
		color:       color,
		tooltip:     tooltip,
		priority:    priority,
		isEncrypted: isEncrypted,
	}
}

// IsZero reports whether the label is unset.
func (l Label) IsZero() bool { return l.id == "" }

// ID returns the label identifier.
func (l Label) ID() string { return l.id }

// DisplayName returns the human-readable label name.
func (l Label) DisplayName() string { return l.displayName }

// Color returns the label color.
func (l Label) Color() string { return l.color }

// Tooltip returns the label tooltip.
func (l Label) Tooltip() string { return l.tooltip }

// Priority returns the label ordering priority.
func (l Label) Priority() int32 { return l.priority }

// IsEncrypted reports whether the labeled content is encrypted.
func (l Label) IsEncrypted() bool { return l.isEncrypted }
