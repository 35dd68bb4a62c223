// Package source defines the data sources a retrieval can run against.
package source

// DataSource selects the corpus for a retrieval.
type DataSource string

// Data source members. The set mirrors the wire enum: closed, with an
// unknownFutureValue sentinel for forward compatibility.
const (
	SharePoint         DataSource = "sharePoint"
	OneDriveBusiness   DataSource = "oneDriveBusiness"
	ExternalItem       DataSource = "externalItem"
	Mail               DataSource = "mail"
	Calendar           DataSource = "calendar"
	Teams              DataSource = "teams"
	People             DataSource = "people"
	SharePointEmbedded DataSource = "sharePointEmbedded"
	UnknownFutureValue DataSource = "unknownFutureValue"
)

// Routable lists the sources the service can actually execute against.
// UnknownFutureValue is a valid enum member but never routable.
var Routable = []DataSource{
	SharePoint,
	OneDriveBusiness,
	ExternalItem,
	Mail,
	Calendar,
	Teams,
	People,
	SharePointEmbedded,
}

// IsValid reports whether ds is a member of the enum (sentinel included).
func (ds DataSource) IsValid() bool {
	switch ds {
	case SharePoint, OneDriveBusiness, ExternalItem, Mail,
		Calendar, Teams, People, SharePointEmbedded, UnknownFutureValue:
		return true
	}
	return false
}

// IsRoutable reports whether the service can execute a retrieval against ds.
func (ds DataSource) IsRoutable() bool {
	return ds.IsValid() && ds != UnknownFutureValue
}

// String returns the wire form of the data source.
func (ds DataSource) String() string { return string(ds) }
