package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// Default attribute allow-lists used when a list tool compacts without an
// explicit field selection. The matching get tool returns the full object.
var (
	profileCompactFields  = []string{"email", "first_name", "last_name"}
	campaignCompactFields = []string{"name", "status", "created_at"}
	segmentCompactFields  = []string{"name", "created", "updated"}
	metricCompactFields   = []string{"name", "created"}
	templateCompactFields = []string{"name", "created", "updated"}
	eventCompactFields    = []string{"datetime", "event_properties"}
)

// NewCatalog builds the full tool catalog over a client. Registration order is
// the order tools are presented to an agent.
func NewCatalog(client mapi.Client) (*Registry, error) {
	registry := NewRegistry()

	catalog := []*Tool{
		{
			Name:        "list_profiles",
			Description: "List customer profiles. Results are paginated automatically and compacted to a small attribute set; use get_profile for the full object.",
			InputSchema: generateSchema[ListArgs](),
			Handler:     listHandler(client.Profiles().List, profileCompactFields, "get_profile"),
		},
		{
			Name:        "get_profile",
			Description: "Get one customer profile with all attributes.",
			InputSchema: generateSchema[GetArgs](),
			Handler:     getHandler(client.Profiles().Get),
		},
		{
			Name:        "create_profile",
			Description: "Create a customer profile from a set of attributes.",
			InputSchema: generateSchema[CreateProfileArgs](),
			Handler: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var parsed CreateProfileArgs
				if err := unmarshalArgs(args, &parsed); err != nil {
					return nil, err
				}

				return client.Profiles().Create(ctx, parsed.Attributes)
			},
		},
		{
			Name:        "update_profile",
			Description: "Update attributes of an existing customer profile.",
			InputSchema: generateSchema[UpdateProfileArgs](),
			Handler: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var parsed UpdateProfileArgs
				if err := unmarshalArgs(args, &parsed); err != nil {
					return nil, err
				}

				return client.Profiles().Update(ctx, parsed.ID, parsed.Attributes)
			},
		},
		{
			Name:        "list_campaigns",
			Description: "List campaigns. Results are paginated automatically and compacted; use get_campaign for the full object.",
			InputSchema: generateSchema[ListArgs](),
			Handler:     listHandler(client.Campaigns().List, campaignCompactFields, "get_campaign"),
		},
		{
			Name:        "get_campaign",
			Description: "Get one campaign with all attributes.",
			InputSchema: generateSchema[GetArgs](),
			Handler:     getHandler(client.Campaigns().Get),
		},
		{
			Name:        "delete_campaign",
			Description: "Delete a campaign.",
			InputSchema: generateSchema[DeleteCampaignArgs](),
			Handler: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var parsed DeleteCampaignArgs
				if err := unmarshalArgs(args, &parsed); err != nil {
					return nil, err
				}

				if parsed.ID == "" {
					return nil, &mapi.APIError{
						Kind:    mapi.ErrorKindValidation,
						Message: "Validation failed: id is required",
					}
				}

				if err := client.Campaigns().Delete(ctx, parsed.ID); err != nil {
					return nil, err
				}

				return DeletedResult{Deleted: true, ID: parsed.ID}, nil
			},
		},
		{
			Name:        "list_segments",
			Description: "List audience segments. Results are paginated automatically and compacted; use get_segment for the full object.",
			InputSchema: generateSchema[ListArgs](),
			Handler:     listHandler(client.Segments().List, segmentCompactFields, "get_segment"),
		},
		{
			Name:        "get_segment",
			Description: "Get one audience segment with all attributes.",
			InputSchema: generateSchema[GetArgs](),
			Handler:     getHandler(client.Segments().Get),
		},
		{
			Name:        "list_metrics",
			Description: "List tracked metrics. Results are paginated automatically and compacted; use get_metric for the full object.",
			InputSchema: generateSchema[ListArgs](),
			Handler:     listHandler(client.Metrics().List, metricCompactFields, "get_metric"),
		},
		{
			Name:        "get_metric",
			Description: "Get one tracked metric with all attributes.",
			InputSchema: generateSchema[GetArgs](),
			Handler:     getHandler(client.Metrics().Get),
		},
		{
			Name:        "list_templates",
			Description: "List message templates. Results are paginated automatically and compacted; use get_template for the full object.",
			InputSchema: generateSchema[ListArgs](),
			Handler:     listHandler(client.Templates().List, templateCompactFields, "get_template"),
		},
		{
			Name:        "get_template",
			Description: "Get one message template with all attributes.",
			InputSchema: generateSchema[GetArgs](),
			Handler:     getHandler(client.Templates().Get),
		},
		{
			Name:        "list_events",
			Description: "List recorded events. Results are paginated automatically and compacted.",
			InputSchema: generateSchema[ListArgs](),
			Handler:     listHandler(client.Events().List, eventCompactFields, ""),
		},
		{
			Name:        "create_event",
			Description: "Record an event by submitting a full JSON:API event payload.",
			InputSchema: generateSchema[CreateEventArgs](),
			Handler: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var parsed CreateEventArgs
				if err := unmarshalArgs(args, &parsed); err != nil {
					return nil, err
				}

				if err := client.Events().Create(ctx, parsed.Payload); err != nil {
					return nil, err
				}

				return AcceptedResult{Accepted: true}, nil
			},
		},
	}

	for _, tool := range catalog {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// listFunc is the common shape of every resource list operation.
type listFunc func(ctx context.Context, params *mapi.QueryParams, opts *mapi.PaginationOptions) (*mapi.PagedResult, error)

// getFunc is the common shape of every single-resource get operation.
type getFunc func(ctx context.Context, id string, params *mapi.QueryParams) (*mapi.SingleResponse, error)

func listHandler(list listFunc, defaultFields []string, detailHint string) Handler {
	return func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		var parsed ListArgs
		if err := unmarshalArgs(args, &parsed); err != nil {
			return nil, err
		}

		return list(ctx, parsed.queryParams(), parsed.paginationOptions(defaultFields, detailHint))
	}
}

func getHandler(get getFunc) Handler {
	return func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		var parsed GetArgs
		if err := unmarshalArgs(args, &parsed); err != nil {
			return nil, err
		}

		if parsed.ID == "" {
			return nil, &mapi.APIError{
				Kind:    mapi.ErrorKindValidation,
				Message: "Validation failed: id is required",
			}
		}

		return get(ctx, parsed.ID, parsed.queryParams())
	}
}

// unmarshalArgs parses tool arguments, turning malformed input into a
// validation failure the agent can correct.
func unmarshalArgs(args json.RawMessage, target interface{}) error {
	if len(args) == 0 {
		return nil
	}

	if err := json.Unmarshal(args, target); err != nil {
		return &mapi.APIError{
			Kind:    mapi.ErrorKindValidation,
			Message: fmt.Sprintf("Validation failed: invalid tool arguments: %s", err),
		}
	}

	return nil
}
