package client

import (
	"context"
	"fmt"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// MetricsClient implements mapi.MetricsClient.
type MetricsClient struct {
	client *Client
}

// NewMetricsClient creates a new metrics client.
func NewMetricsClient(client *Client) *MetricsClient {
	return &MetricsClient{client: client}
}

// List implements mapi.MetricsClient.List.
func (c *MetricsClient) List(ctx context.Context, params *mapi.QueryParams, opts *mapi.PaginationOptions) (*mapi.PagedResult, error) {
	result, err := mapi.FetchAllPages(ctx, c.client.listPage("/api/metrics", params, mapi.ResourceTypeMetrics), opts)
	if err != nil {
		return nil, fmt.Errorf("listing metrics: %w", err)
	}

	return result, nil
}

// Get implements mapi.MetricsClient.Get.
func (c *MetricsClient) Get(ctx context.Context, id string, params *mapi.QueryParams) (*mapi.SingleResponse, error) {
	path := fmt.Sprintf("/api/metrics/%s", id)

	result, err := c.client.getSingle(ctx, path, params, mapi.ResourceTypeMetrics)
	if err != nil {
		return nil, fmt.Errorf("getting metric: %w", err)
	}

	return result, nil
}
