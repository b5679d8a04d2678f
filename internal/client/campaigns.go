package client

import (
	"context"
	"fmt"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// CampaignsClient implements mapi.CampaignsClient.
type CampaignsClient struct {
	client *Client
}

// NewCampaignsClient creates a new campaigns client.
func NewCampaignsClient(client *Client) *CampaignsClient {
	return &CampaignsClient{client: client}
}

// List implements mapi.CampaignsClient.List.
func (c *CampaignsClient) List(ctx context.Context, params *mapi.QueryParams, opts *mapi.PaginationOptions) (*mapi.PagedResult, error) {
	result, err := mapi.FetchAllPages(ctx, c.client.listPage("/api/campaigns", params, mapi.ResourceTypeCampaigns), opts)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}

	return result, nil
}

// Get implements mapi.CampaignsClient.Get.
func (c *CampaignsClient) Get(ctx context.Context, id string, params *mapi.QueryParams) (*mapi.SingleResponse, error) {
	path := fmt.Sprintf("/api/campaigns/%s", id)

	result, err := c.client.getSingle(ctx, path, params, mapi.ResourceTypeCampaigns)
	if err != nil {
		return nil, fmt.Errorf("getting campaign: %w", err)
	}

	return result, nil
}

// Delete implements mapi.CampaignsClient.Delete. A successful delete drops all
// cached campaign reads.
func (c *CampaignsClient) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/campaigns/%s", id)

	_, err := c.client.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting campaign: %w", err)
	}

	c.client.invalidate(ctx, mapi.ResourceTypeCampaigns)

	return nil
}
