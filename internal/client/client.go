// Package client wires the resource surface of the API onto the request
// executor and the response cache.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/veridian-io/mapi-client/internal/constants"
	"github.com/veridian-io/mapi-client/internal/http"
	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// Static errors for err113 compliance.
var (
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
	ErrConfigRequired      = errors.New("config is required")
)

// Client implements the mapi.Client interface.
type Client struct {
	httpClient *http.Client
	cache      *mapi.CacheManager
	backend    mapi.Cache
	logger     mapi.Logger

	// Resource clients
	profiles  mapi.ProfilesClient
	campaigns mapi.CampaignsClient
	segments  mapi.SegmentsClient
	metrics   mapi.MetricsClient
	templates mapi.TemplatesClient
	events    mapi.EventsClient
}

// New creates a client from configuration. The API key is validated before
// any network activity; cache backend construction happens here so the whole
// client shares one CacheManager.
func New(config *mapi.Config) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	httpOpts := buildHTTPOptions(config)

	httpClient, err := http.NewClient(config.APIEndpoint, config.APIKey, httpOpts...)
	if err != nil {
		return nil, err
	}

	backend, err := buildCacheBackend(config)
	if err != nil {
		return nil, err
	}

	cacheManager := mapi.NewCacheManager(backend, mapi.DefaultCachingPolicy())
	if config.CacheDisabled {
		cacheManager.SetEnabled(false)
	}

	client := &Client{
		httpClient: httpClient,
		cache:      cacheManager,
		backend:    backend,
		logger:     config.Logger,
	}

	client.profiles = NewProfilesClient(client)
	client.campaigns = NewCampaignsClient(client)
	client.segments = NewSegmentsClient(client)
	client.metrics = NewMetricsClient(client)
	client.templates = NewTemplatesClient(client)
	client.events = NewEventsClient(client)

	return client, nil
}

func buildHTTPOptions(config *mapi.Config) []http.Option {
	var opts []http.Option

	if config.Timeout > 0 {
		opts = append(opts, http.WithTimeout(config.Timeout))
	}

	if config.RetryMax > 0 {
		opts = append(opts, http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.KeyPrefix != "" {
		opts = append(opts, http.WithKeyPrefix(config.KeyPrefix))
	}

	if config.AuthScheme != "" {
		opts = append(opts, http.WithAuthScheme(config.AuthScheme))
	}

	if config.Revision != "" {
		opts = append(opts, http.WithRevision(constants.DefaultRevisionHeader, config.Revision))
	}

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
		opts = append(opts, http.WithDebug(config.Debug))
	}

	return opts
}

func buildCacheBackend(config *mapi.Config) (mapi.Cache, error) {
	if config.CacheDisabled {
		return mapi.NewNoOpCache(), nil
	}

	backend, err := mapi.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("building cache backend: %w", err)
	}

	return backend, nil
}

// Profiles returns the profiles resource client.
func (c *Client) Profiles() mapi.ProfilesClient {
	return c.profiles
}

// Campaigns returns the campaigns resource client.
func (c *Client) Campaigns() mapi.CampaignsClient {
	return c.campaigns
}

// Segments returns the segments resource client.
func (c *Client) Segments() mapi.SegmentsClient {
	return c.segments
}

// Metrics returns the metrics resource client.
func (c *Client) Metrics() mapi.MetricsClient {
	return c.metrics
}

// Templates returns the templates resource client.
func (c *Client) Templates() mapi.TemplatesClient {
	return c.templates
}

// Events returns the events resource client.
func (c *Client) Events() mapi.EventsClient {
	return c.events
}

// CacheStats returns a snapshot of the response cache counters.
func (c *Client) CacheStats() mapi.CacheStats {
	return c.cache.GetStats()
}

// Close releases cache resources.
func (c *Client) Close() error {
	if closer, ok := c.backend.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}

// HTTPClient exposes the underlying executor for callers composing raw
// requests (the tool registry's passthrough operations).
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// CacheManager exposes the shared cache manager.
func (c *Client) CacheManager() *mapi.CacheManager {
	return c.cache
}

// getJSON performs a cached GET: cache hit returns the stored body, a miss
// performs the exchange and stores a successful body under the declared
// resource type's TTL. Cache failures never fail the request.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, resourceType mapi.ResourceType) ([]byte, error) {
	cacheable := c.cache.ShouldCache("GET", path, 200)
	key := c.cache.GetCacheKey("GET", path, flattenQuery(query))

	if cacheable {
		if data, err := c.cache.Get(ctx, key); err == nil {
			return data, nil
		}
	}

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	if cacheable {
		_ = c.cache.SetForType(ctx, key, resp.Body, resourceType)
	}

	return resp.Body, nil
}

// listPage builds a PageFetcher over a collection path. Each fetch reuses the
// caller's query parameters with only the cursor replaced, so every page of
// the same logical request shares filter and sort semantics.
func (c *Client) listPage(path string, params *mapi.QueryParams, resourceType mapi.ResourceType) mapi.PageFetcher {
	return func(ctx context.Context, cursor string) (*mapi.ListResponse, error) {
		query := params.ToValues()
		if cursor != "" {
			query.Set("page[cursor]", cursor)
		}

		body, err := c.getJSON(ctx, path, query, resourceType)
		if err != nil {
			return nil, err
		}

		var page mapi.ListResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing list response: %w", err)
		}

		return &page, nil
	}
}

// getSingle fetches one resource object through the cache.
func (c *Client) getSingle(ctx context.Context, path string, params *mapi.QueryParams, resourceType mapi.ResourceType) (*mapi.SingleResponse, error) {
	body, err := c.getJSON(ctx, path, params.ToValues(), resourceType)
	if err != nil {
		return nil, err
	}

	var result mapi.SingleResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing resource response: %w", err)
	}

	return &result, nil
}

// invalidate drops all cached reads for a resource type after a mutation.
func (c *Client) invalidate(ctx context.Context, resourceType mapi.ResourceType) {
	_, _ = c.cache.InvalidateType(ctx, resourceType)
}

func flattenQuery(query url.Values) map[string]string {
	if len(query) == 0 {
		return nil
	}

	params := make(map[string]string, len(query))
	for key := range query {
		params[key] = query.Get(key)
	}

	return params
}
