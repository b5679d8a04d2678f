package mapi

import "encoding/json"

// Link represents a single pagination or resource link.
type Link struct {
	Href string `json:"href" yaml:"href"`
}

// PageLinks represents the links object of a JSON:API collection response.
type PageLinks struct {
	Self string `json:"self,omitempty" yaml:"self,omitempty"`
	Next string `json:"next,omitempty" yaml:"next,omitempty"`
	Prev string `json:"prev,omitempty" yaml:"prev,omitempty"`
}

// ListResponse is one page of a JSON:API collection. Resource objects are kept
// opaque; this layer performs no schema validation.
type ListResponse struct {
	Data     []json.RawMessage `json:"data"`
	Included []json.RawMessage `json:"included,omitempty"`
	Links    PageLinks         `json:"links"`
}

// SingleResponse is a JSON:API response carrying exactly one resource object.
type SingleResponse struct {
	Data     json.RawMessage   `json:"data"`
	Included []json.RawMessage `json:"included,omitempty"`
}

// PagedResult is the envelope returned by auto-paginated list operations.
// Included objects are omitted when the result was compacted.
type PagedResult struct {
	Data       []json.RawMessage `json:"data"                  yaml:"data"`
	Included   []json.RawMessage `json:"included,omitempty"    yaml:"included,omitempty"`
	Fetched    int               `json:"fetched"               yaml:"fetched"`
	Truncated  bool              `json:"truncated"             yaml:"truncated"`
	Compacted  bool              `json:"compacted"             yaml:"compacted"`
	DetailHint string            `json:"detail_hint,omitempty" yaml:"detail_hint,omitempty"`
}

// Relationship represents a to-one relationship.
type Relationship struct {
	Data *RelationshipData `json:"data,omitempty" yaml:"data,omitempty"`
}

// RelationshipData identifies the related resource.
type RelationshipData struct {
	Type string `json:"type" yaml:"type"`
	ID   string `json:"id"   yaml:"id"`
}
