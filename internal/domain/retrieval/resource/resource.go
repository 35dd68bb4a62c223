// Package resource holds indexed corpus items and their types.
package resource

import (
	"fmt"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/label"
)

// MaxContentLength bounds the indexed content of a single resource.
const MaxContentLength = 1 << 20

// Type identifies the kind of a resource.
type Type string

// Resource type members, mirroring the wire enum.
const (
	TypeSite               Type = "site"
	TypeList               Type = "list"
	TypeListItem           Type = "listItem"
	TypeDrive              Type = "drive"
	TypeDriveItem          Type = "driveItem"
	TypeExternalItem       Type = "externalItem"
	TypeMail               Type = "mail"
	TypeCalendarEvent      Type = "calendarEvent"
	TypeTeamsMessage       Type = "teamsMessage"
	TypePerson             Type = "person"
	TypeUnknownFutureValue Type = "unknownFutureValue"
)

// IsValid reports whether t is a member of the enum.
func (t Type) IsValid() bool {
	switch t {
	case TypeSite, TypeList, TypeListItem, TypeDrive, TypeDriveItem,
		TypeExternalItem, TypeMail, TypeCalendarEvent, TypeTeamsMessage,
		TypePerson, TypeUnknownFutureValue:
		return true
	}
	return false
}

// Resource is an indexed corpus item.
type Resource struct {
	id       string
	content  string
	rtype    Type
	webURL   string
	metadata map[string]string
	lbl      label.Label
}

// New validates and creates a Resource.
func New(
	id, content string, t Type, webURL string,
	metadata map[string]string, lbl label.Label,
) (Resource, error) {
	if id == "" {
		return Resource{}, fmt.Errorf("%w: resource id is required", domain.ErrInvalidRequest)
	}
	if content == "" {
		return Resource{}, fmt.Errorf("%w: resource content is required", domain.ErrInvalidRequest)
	}
	if len(content) > MaxContentLength {
		return Resource{}, fmt.Errorf("%w: resource content too large (max %d bytes)",
			domain.ErrInvalidRequest, MaxContentLength)
	}
	if t == "" {
		t = TypeUnknownFutureValue
	}
	if !t.IsValid() {
		return Resource{}, fmt.Errorf("%w: unknown resource type %q", domain.ErrInvalidRequest, t)
	}
	return Resource{
		id:       id,
		content:  content,
		rtype:    t,
		webURL:   webURL,
		metadata: metadata,
		lbl:      lbl,
	}, nil
}

// Reconstruct rebuilds a Resource from storage without validation.
func Reconstruct(
	id, content string, t Type, webURL string,
	metadata map[string]string, lbl label.Label,
) Resource {
	return Resource{
		id: id, content: content, rtype: t,
		webURL: webURL, metadata: metadata, lbl: lbl,
	}
}

// ID returns the resource identifier.
func (r *Resource) ID() string { return r.id }

// Content returns the indexed text content.
func (r *Resource) Content() string { return r.content }

// Type returns the resource type.
func (r *Resource) Type() Type { return r.rtype }

// WebURL returns the resource web address ("" if none).
func (r *Resource) WebURL() string { return r.webURL }

// Metadata returns the resource metadata bag.
func (r *Resource) Metadata() map[string]string { return r.metadata }

// Label returns the sensitivity label (zero if unlabeled).
func (r *Resource) Label() label.Label { return r.lbl }
