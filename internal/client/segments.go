package client

import (
	"context"
	"fmt"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// SegmentsClient implements mapi.SegmentsClient.
type SegmentsClient struct {
	client *Client
}

// NewSegmentsClient creates a new segments client.
func NewSegmentsClient(client *Client) *SegmentsClient {
	return &SegmentsClient{client: client}
}

// List implements mapi.SegmentsClient.List.
func (c *SegmentsClient) List(ctx context.Context, params *mapi.QueryParams, opts *mapi.PaginationOptions) (*mapi.PagedResult, error) {
	result, err := mapi.FetchAllPages(ctx, c.client.listPage("/api/segments", params, mapi.ResourceTypeSegments), opts)
	if err != nil {
		return nil, fmt.Errorf("listing segments: %w", err)
	}

	return result, nil
}

// Get implements mapi.SegmentsClient.Get.
func (c *SegmentsClient) Get(ctx context.Context, id string, params *mapi.QueryParams) (*mapi.SingleResponse, error) {
	path := fmt.Sprintf("/api/segments/%s", id)

	result, err := c.client.getSingle(ctx, path, params, mapi.ResourceTypeSegments)
	if err != nil {
		return nil, fmt.Errorf("getting segment: %w", err)
	}

	return result, nil
}
