package models

import "strings"

// Fields NetBox manages itself. They never survive an export.
var ServerManagedFields = []string{
	"id",
	"url",
	"display",
	"display_url",
	"created",
	"last_updated",
	"custom_fields",
}

// Page is the envelope NetBox wraps every collection response in.
type Page struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Object `json:"results"`
}

// HasNext reports whether the server announced another page.
func (p Page) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// Descriptor identifies one collection endpoint, e.g. dcim/devices.
type Descriptor struct {
	Category string `json:"category"`
	Type     string `json:"type"`
}

// Endpoint returns "<category>/<type>".
func (d Descriptor) Endpoint() string {
	return d.Category + "/" + d.Type
}

// Resolve returns the collection path relative to the API root.
func (d Descriptor) Resolve() string {
	return d.Endpoint() + "/"
}

// FileName returns the relative path of the tabular file holding d.
func (d Descriptor) FileName() string {
	return d.Endpoint() + ".csv"
}

func (d Descriptor) String() string {
	return d.Endpoint()
}

// ParseDescriptor splits "dcim/devices" (optionally with surrounding slashes
// or a .csv suffix) into a Descriptor.
func ParseDescriptor(s string) (Descriptor, bool) {
	s = strings.TrimSuffix(strings.Trim(s, "/"), ".csv")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Descriptor{}, false
	}
	return Descriptor{Category: parts[0], Type: parts[1]}, true
}
