package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// generateSchema reflects a JSON schema for a tool's argument struct. Schemas
// are self-contained (no $refs) so they can be handed to an agent verbatim.
func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}

	var value T

	return reflector.Reflect(&value)
}

// ListArgs are the shared arguments of every list tool.
type ListArgs struct {
	Filter     string   `json:"filter,omitempty"      jsonschema:"description=Filter expression, e.g. equals(email,\"a@example.com\")."`
	Sort       string   `json:"sort,omitempty"        jsonschema:"description=Sort field; prefix with - for descending."`
	PageSize   int      `json:"page_size,omitempty"   jsonschema:"description=Items requested per page."`
	FetchAll   *bool    `json:"fetch_all,omitempty"   jsonschema:"description=Walk every page (default true). False fetches only the first page."`
	MaxResults int      `json:"max_results,omitempty" jsonschema:"description=Cap on assembled items (default 500). The result is marked truncated when hit."`
	Compact    *bool    `json:"compact,omitempty"     jsonschema:"description=Project each item down to a small attribute set (default true)."`
	Fields     []string `json:"fields,omitempty"      jsonschema:"description=Attribute allow-list used when compacting."`
}

// queryParams converts the arguments into JSON:API query parameters.
func (a *ListArgs) queryParams() *mapi.QueryParams {
	params := mapi.NewQueryParams()

	if a.PageSize > 0 {
		params.WithPageSize(a.PageSize)
	}

	if a.Filter != "" {
		params.WithFilter(a.Filter)
	}

	if a.Sort != "" {
		params.WithSort(a.Sort)
	}

	return params
}

// paginationOptions converts the arguments into pagination options, falling
// back to the given compact fields and detail hint when the caller supplied
// none.
func (a *ListArgs) paginationOptions(defaultFields []string, detailHint string) *mapi.PaginationOptions {
	opts := mapi.DefaultPaginationOptions()

	if a.FetchAll != nil {
		opts.FetchAll = *a.FetchAll
	}

	if a.MaxResults > 0 {
		opts.MaxResults = a.MaxResults
	}

	if a.Compact != nil {
		opts.Compact = *a.Compact
	}

	opts.CompactFields = a.Fields
	if len(opts.CompactFields) == 0 {
		opts.CompactFields = defaultFields
	}

	opts.DetailHint = detailHint

	return opts
}

// GetArgs are the arguments of every single-resource tool.
type GetArgs struct {
	ID      string   `json:"id"                jsonschema:"required,description=The resource identifier."`
	Include []string `json:"include,omitempty" jsonschema:"description=Related resource types to side-load."`
}

func (a *GetArgs) queryParams() *mapi.QueryParams {
	params := mapi.NewQueryParams()

	if len(a.Include) > 0 {
		params.WithInclude(a.Include...)
	}

	return params
}

// CreateProfileArgs are the arguments of the create_profile tool.
type CreateProfileArgs struct {
	Attributes map[string]interface{} `json:"attributes" jsonschema:"required,description=Profile attributes, e.g. email, first_name, properties."`
}

// UpdateProfileArgs are the arguments of the update_profile tool.
type UpdateProfileArgs struct {
	ID         string                 `json:"id"         jsonschema:"required,description=The profile identifier."`
	Attributes map[string]interface{} `json:"attributes" jsonschema:"required,description=Attributes to change; omitted attributes are left untouched."`
}

// DeleteCampaignArgs are the arguments of the delete_campaign tool.
type DeleteCampaignArgs struct {
	ID string `json:"id" jsonschema:"required,description=The campaign identifier."`
}

// CreateEventArgs are the arguments of the create_event tool.
type CreateEventArgs struct {
	Payload json.RawMessage `json:"payload" jsonschema:"required,description=The full JSON:API event payload, passed through verbatim."`
}

// DeletedResult acknowledges a successful deletion.
type DeletedResult struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// AcceptedResult acknowledges an accepted ingestion.
type AcceptedResult struct {
	Accepted bool `json:"accepted"`
}
