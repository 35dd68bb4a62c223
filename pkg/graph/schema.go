package graph

import (
	"encoding/json"
	"fmt"
)

// OData type discriminators. Every serialized entity carries its tag in the
// "@odata.type" field; decoding rejects a missing or mismatched tag.
const (
	ODataTypeRetrievalResponse          = "#microsoft.graph.retrievalResponse"
	ODataTypeRetrievalHit               = "#microsoft.graph.retrievalHit"
	ODataTypeRetrievalExtract           = "#microsoft.graph.retrievalExtract"
	ODataTypeResourceMetadataDictionary = "#microsoft.graph.searchResourceMetadataDictionary"
	ODataTypeSensitivityLabelInfo       = "#microsoft.graph.searchSensitivityLabelInfo"
)

// Deprecation metadata of the retrieval action, surfaced to callers via
// response headers.
const (
	DeprecationDate      = "2024-02-23"
	SunsetDate           = "2025-12-31"
	DeprecatedVersionTag = "2024-12/PrivatePreview:retrievalAPI"
)

// DataSource selects the corpus a retrieval runs against.
// The set is closed except for the unknownFutureValue sentinel, reserved for
// members added server-side before clients are updated.
type DataSource string

// Data source members.
const (
	DataSourceSharePoint         DataSource = "sharePoint"
	DataSourceOneDriveBusiness   DataSource = "oneDriveBusiness"
	DataSourceExternalItem       DataSource = "externalItem"
	DataSourceMail               DataSource = "mail"
	DataSourceCalendar           DataSource = "calendar"
	DataSourceTeams              DataSource = "teams"
	DataSourcePeople             DataSource = "people"
	DataSourceSharePointEmbedded DataSource = "sharePointEmbedded"
	DataSourceUnknownFutureValue DataSource = "unknownFutureValue"
)

var dataSources = map[DataSource]struct{}{
	DataSourceSharePoint:         {},
	DataSourceOneDriveBusiness:   {},
	DataSourceExternalItem:       {},
	DataSourceMail:               {},
	DataSourceCalendar:           {},
	DataSourceTeams:              {},
	DataSourcePeople:             {},
	DataSourceSharePointEmbedded: {},
	DataSourceUnknownFutureValue: {},
}

// IsValid reports whether ds is a member of the enum (sentinel included).
func (ds DataSource) IsValid() bool {
	_, ok := dataSources[ds]
	return ok
}

// UnmarshalJSON enforces enum membership at decode time.
func (ds *DataSource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dataSource: %w", err)
	}
	v := DataSource(s)
	if !v.IsValid() {
		return fmt.Errorf("dataSource: %q is not a member of the enum", s)
	}
	*ds = v
	return nil
}

// ResourceType identifies the kind of resource a hit points at.
type ResourceType string

// Resource type members.
const (
	ResourceTypeSite               ResourceType = "site"
	ResourceTypeList               ResourceType = "list"
	ResourceTypeListItem           ResourceType = "listItem"
	ResourceTypeDrive              ResourceType = "drive"
	ResourceTypeDriveItem          ResourceType = "driveItem"
	ResourceTypeExternalItem       ResourceType = "externalItem"
	ResourceTypeMail               ResourceType = "mail"
	ResourceTypeCalendarEvent      ResourceType = "calendarEvent"
	ResourceTypeTeamsMessage       ResourceType = "teamsMessage"
	ResourceTypePerson             ResourceType = "person"
	ResourceTypeUnknownFutureValue ResourceType = "unknownFutureValue"
)

var resourceTypes = map[ResourceType]struct{}{
	ResourceTypeSite:               {},
	ResourceTypeList:               {},
	ResourceTypeListItem:           {},
	ResourceTypeDrive:              {},
	ResourceTypeDriveItem:          {},
	ResourceTypeExternalItem:       {},
	ResourceTypeMail:               {},
	ResourceTypeCalendarEvent:      {},
	ResourceTypeTeamsMessage:       {},
	ResourceTypePerson:             {},
	ResourceTypeUnknownFutureValue: {},
}

// IsValid reports whether rt is a member of the enum (sentinel included).
func (rt ResourceType) IsValid() bool {
	_, ok := resourceTypes[rt]
	return ok
}

// UnmarshalJSON enforces enum membership at decode time.
func (rt *ResourceType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("resourceType: %w", err)
	}
	v := ResourceType(s)
	if !v.IsValid() {
		return fmt.Errorf("resourceType: %q is not a member of the enum", s)
	}
	*rt = v
	return nil
}

// Int32 bounds on the wire.
const (
	Int32Min = -2147483648
	Int32Max = 2147483647
)

// Int32 is a JSON integer restricted to the signed 32-bit range.
// Decoding rejects fractional values and values outside [Int32Min, Int32Max].
type Int32 int32

// UnmarshalJSON parses the value as an exact integer within int32 bounds.
func (v *Int32) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("int32: %w", err)
	}
	i, err := n.Int64()
	if err != nil {
		return fmt.Errorf("int32: %q is not an integer", n.String())
	}
	if i < Int32Min || i > Int32Max {
		return fmt.Errorf("int32: %d is out of range [%d, %d]", i, Int32Min, Int32Max)
	}
	*v = Int32(i)
	return nil
}

// Int32Ptr returns a pointer to v, for optional request fields.
func Int32Ptr(v int32) *Int32 {
	p := Int32(v)
	return &p
}

// RetrievalRequest is the POST /copilot/retrieval body.
// No individual field is marked required by the schema; only the body itself
// is. Server-side semantics reject an empty queryString or dataSource.
type RetrievalRequest struct {
	QueryString            string     `json:"queryString,omitempty"`
	DataSource             DataSource `json:"dataSource,omitempty"`
	FilterExpression       *string    `json:"filterExpression,omitempty"`
	ResourceMetadata       []*string  `json:"resourceMetadata,omitempty"`
	MaximumNumberOfResults *Int32     `json:"maximumNumberOfResults,omitempty"`
}

// RetrievalResponse is the top-level result envelope.
type RetrievalResponse struct {
	ODataType     string         `json:"@odata.type"`
	RetrievalHits []RetrievalHit `json:"retrievalHits"`
}

// MarshalJSON always emits the discriminator and a non-null hits array.
func (r RetrievalResponse) MarshalJSON() ([]byte, error) {
	type alias RetrievalResponse
	a := alias(r)
	a.ODataType = ODataTypeRetrievalResponse
	if a.RetrievalHits == nil {
		a.RetrievalHits = []RetrievalHit{}
	}
	return json.Marshal(a)
}

// UnmarshalJSON rejects a missing or foreign discriminator.
func (r *RetrievalResponse) UnmarshalJSON(data []byte) error {
	type alias RetrievalResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.ODataType != ODataTypeRetrievalResponse {
		return fmt.Errorf("retrievalResponse: @odata.type is %q, want %q",
			a.ODataType, ODataTypeRetrievalResponse)
	}
	*r = RetrievalResponse(a)
	return nil
}

// RetrievalHit is one matched resource. Extracts preserve in-document order;
// hits preserve ranking order within the response.
type RetrievalHit struct {
	ODataType        string                      `json:"@odata.type"`
	Extracts         []RetrievalExtract          `json:"extracts"`
	ResourceType     ResourceType                `json:"resourceType,omitempty"`
	WebURL           *string                     `json:"webUrl"`
	ResourceMetadata *ResourceMetadataDictionary `json:"resourceMetadata,omitempty"`
	SensitivityLabel *SensitivityLabelInfo       `json:"sensitivityLabel,omitempty"`
}

// MarshalJSON always emits the discriminator and a non-null extracts array.
func (h RetrievalHit) MarshalJSON() ([]byte, error) {
	type alias RetrievalHit
	a := alias(h)
	a.ODataType = ODataTypeRetrievalHit
	if a.Extracts == nil {
		a.Extracts = []RetrievalExtract{}
	}
	return json.Marshal(a)
}

// UnmarshalJSON rejects a missing or foreign discriminator.
func (h *RetrievalHit) UnmarshalJSON(data []byte) error {
	type alias RetrievalHit
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.ODataType != ODataTypeRetrievalHit {
		return fmt.Errorf("retrievalHit: @odata.type is %q, want %q",
			a.ODataType, ODataTypeRetrievalHit)
	}
	*h = RetrievalHit(a)
	return nil
}

// RetrievalExtract is a text snippet taken from a hit.
type RetrievalExtract struct {
	ODataType string  `json:"@odata.type"`
	Text      *string `json:"text"`
}

// MarshalJSON always emits the discriminator.
func (e RetrievalExtract) MarshalJSON() ([]byte, error) {
	type alias RetrievalExtract
	a := alias(e)
	a.ODataType = ODataTypeRetrievalExtract
	return json.Marshal(a)
}

// UnmarshalJSON rejects a missing or foreign discriminator.
func (e *RetrievalExtract) UnmarshalJSON(data []byte) error {
	type alias RetrievalExtract
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.ODataType != ODataTypeRetrievalExtract {
		return fmt.Errorf("retrievalExtract: @odata.type is %q, want %q",
			a.ODataType, ODataTypeRetrievalExtract)
	}
	*e = RetrievalExtract(a)
	return nil
}

// ResourceMetadataDictionary is an open string map carrying per-resource
// metadata next to the required discriminator.
type ResourceMetadataDictionary struct {
	Values map[string]string
}

// MarshalJSON flattens Values alongside the discriminator.
func (d ResourceMetadataDictionary) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(d.Values)+1)
	for k, v := range d.Values {
		m[k] = v
	}
	m["@odata.type"] = ODataTypeResourceMetadataDictionary
	return json.Marshal(m)
}

// UnmarshalJSON collects string entries and validates the discriminator.
func (d *ResourceMetadataDictionary) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if tag := m["@odata.type"]; tag != ODataTypeResourceMetadataDictionary {
		return fmt.Errorf("resourceMetadata: @odata.type is %q, want %q",
			tag, ODataTypeResourceMetadataDictionary)
	}
	delete(m, "@odata.type")
	d.Values = m
	return nil
}

// SensitivityLabelInfo carries the classification label of a hit.
// All fields besides the discriminator are nullable and read-only.
type SensitivityLabelInfo struct {
	ODataType          string  `json:"@odata.type"`
	Color              *string `json:"color"`
	DisplayName        *string `json:"displayName"`
	IsEncrypted        *bool   `json:"isEncrypted"`
	Priority           *Int32  `json:"priority"`
	SensitivityLabelID *string `json:"sensitivityLabelId"`
	Tooltip            *string `json:"tooltip"`
}

// MarshalJSON always emits the discriminator.
func (l SensitivityLabelInfo) MarshalJSON() ([]byte, error) {
	type alias SensitivityLabelInfo
	a := alias(l)
	a.ODataType = ODataTypeSensitivityLabelInfo
	return json.Marshal(a)
}

// UnmarshalJSON rejects a missing or foreign discriminator.
func (l *SensitivityLabelInfo) UnmarshalJSON(data []byte) error {
	type alias SensitivityLabelInfo
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.ODataType != ODataTypeSensitivityLabelInfo {
		return fmt.Errorf("sensitivityLabel: @odata.type is %q, want %q",
			a.ODataType, ODataTypeSensitivityLabelInfo)
	}
	*l = SensitivityLabelInfo(a)
	return nil
}
