package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// ProfilesClient implements mapi.ProfilesClient.
type ProfilesClient struct {
	client *Client
}

// NewProfilesClient creates a new profiles client.
func NewProfilesClient(client *Client) *ProfilesClient {
	return &ProfilesClient{client: client}
}

// List implements mapi.ProfilesClient.List.
func (c *ProfilesClient) List(ctx context.Context, params *mapi.QueryParams, opts *mapi.PaginationOptions) (*mapi.PagedResult, error) {
	result, err := mapi.FetchAllPages(ctx, c.client.listPage("/api/profiles", params, mapi.ResourceTypeProfiles), opts)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	return result, nil
}

// Get implements mapi.ProfilesClient.Get.
func (c *ProfilesClient) Get(ctx context.Context, id string, params *mapi.QueryParams) (*mapi.SingleResponse, error) {
	path := fmt.Sprintf("/api/profiles/%s", id)

	result, err := c.client.getSingle(ctx, path, params, mapi.ResourceTypeProfiles)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return result, nil
}

// Create implements mapi.ProfilesClient.Create. A successful create drops all
// cached profile reads.
func (c *ProfilesClient) Create(ctx context.Context, attributes map[string]interface{}) (*mapi.SingleResponse, error) {
	body := map[string]interface{}{
		"data": map[string]interface{}{
			"type":       "profile",
			"attributes": attributes,
		},
	}

	resp, err := c.client.httpClient.Post(ctx, "/api/profiles", body)
	if err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	c.client.invalidate(ctx, mapi.ResourceTypeProfiles)

	var result mapi.SingleResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing profile response: %w", err)
	}

	return &result, nil
}

// Update implements mapi.ProfilesClient.Update. A successful update drops all
// cached profile reads.
func (c *ProfilesClient) Update(ctx context.Context, id string, attributes map[string]interface{}) (*mapi.SingleResponse, error) {
	path := fmt.Sprintf("/api/profiles/%s", id)
	body := map[string]interface{}{
		"data": map[string]interface{}{
			"type":       "profile",
			"id":         id,
			"attributes": attributes,
		},
	}

	resp, err := c.client.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	c.client.invalidate(ctx, mapi.ResourceTypeProfiles)

	var result mapi.SingleResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing profile response: %w", err)
	}

	return &result, nil
}
