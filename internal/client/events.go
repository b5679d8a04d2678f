package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// EventsClient implements mapi.EventsClient.
type EventsClient struct {
	client *Client
}

// NewEventsClient creates a new events client.
func NewEventsClient(client *Client) *EventsClient {
	return &EventsClient{client: client}
}

// List implements mapi.EventsClient.List.
func (c *EventsClient) List(ctx context.Context, params *mapi.QueryParams, opts *mapi.PaginationOptions) (*mapi.PagedResult, error) {
	result, err := mapi.FetchAllPages(ctx, c.client.listPage("/api/events", params, mapi.ResourceTypeEvents), opts)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	return result, nil
}

// Create implements mapi.EventsClient.Create. The payload is passed through
// verbatim; event ingestion returns 202 with no body on success.
func (c *EventsClient) Create(ctx context.Context, payload json.RawMessage) error {
	_, err := c.client.httpClient.Post(ctx, "/api/events", payload)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}

	c.client.invalidate(ctx, mapi.ResourceTypeEvents)

	return nil
}
