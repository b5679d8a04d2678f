package client

import (
	"context"
	"fmt"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// TemplatesClient implements mapi.TemplatesClient.
type TemplatesClient struct {
	client *Client
}

// NewTemplatesClient creates a new templates client.
func NewTemplatesClient(client *Client) *TemplatesClient {
	return &TemplatesClient{client: client}
}

// List implements mapi.TemplatesClient.List.
func (c *TemplatesClient) List(ctx context.Context, params *mapi.QueryParams, opts *mapi.PaginationOptions) (*mapi.PagedResult, error) {
	result, err := mapi.FetchAllPages(ctx, c.client.listPage("/api/templates", params, mapi.ResourceTypeTemplates), opts)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	return result, nil
}

// Get implements mapi.TemplatesClient.Get.
func (c *TemplatesClient) Get(ctx context.Context, id string, params *mapi.QueryParams) (*mapi.SingleResponse, error) {
	path := fmt.Sprintf("/api/templates/%s", id)

	result, err := c.client.getSingle(ctx, path, params, mapi.ResourceTypeTemplates)
	if err != nil {
		return nil, fmt.Errorf("getting template: %w", err)
	}

	return result, nil
}
