package mapi

import (
	"context"
	"encoding/json"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a mapi.Client.
//
// # Credentials
//
// APIKey is sent on every request as "<AuthScheme> <APIKey>". The key must be
// non-empty and carry the expected prefix ("pk_" unless KeyPrefix overrides
// it); construction fails fast with an auth error otherwise, before any
// network activity.
//
// # Wire contract
//
// The Revision header pins the API version and the client negotiates the
// JSON:API media type. Header values are an external-API contract; override
// them here when targeting a different deployment.
type Config struct {
	// APIEndpoint is the base URL for the API (e.g. "https://a.mapi.example").
	APIEndpoint string

	// APIKey is the private API credential.
	APIKey string

	// KeyPrefix overrides the expected credential prefix. Empty uses "pk_".
	KeyPrefix string

	// AuthScheme overrides the Authorization scheme. Empty uses "Bearer".
	AuthScheme string

	// Revision overrides the pinned API version header value.
	Revision string

	// Timeout is the per-request timeout. Zero uses the 30s default.
	Timeout time.Duration

	// RetryMax enables transparent retries for transient failures when > 0.
	// The default is no retries; failures surface to the caller unchanged.
	RetryMax int

	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Debug enables verbose HTTP request/response logging when a Logger is set.
	Debug bool

	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger

	// Cache selects and configures the response cache backend. Nil uses the
	// in-memory default.
	Cache *CacheConfig

	// CacheDisabled turns response caching off entirely.
	CacheDisabled bool
}

// ProfilesClient provides access to profile resources.
type ProfilesClient interface {
	List(ctx context.Context, params *QueryParams, opts *PaginationOptions) (*PagedResult, error)
	Get(ctx context.Context, id string, params *QueryParams) (*SingleResponse, error)
	Create(ctx context.Context, attributes map[string]interface{}) (*SingleResponse, error)
	Update(ctx context.Context, id string, attributes map[string]interface{}) (*SingleResponse, error)
}

// CampaignsClient provides access to campaign resources.
type CampaignsClient interface {
	List(ctx context.Context, params *QueryParams, opts *PaginationOptions) (*PagedResult, error)
	Get(ctx context.Context, id string, params *QueryParams) (*SingleResponse, error)
	Delete(ctx context.Context, id string) error
}

// SegmentsClient provides access to segment resources.
type SegmentsClient interface {
	List(ctx context.Context, params *QueryParams, opts *PaginationOptions) (*PagedResult, error)
	Get(ctx context.Context, id string, params *QueryParams) (*SingleResponse, error)
}

// MetricsClient provides access to metric resources.
type MetricsClient interface {
	List(ctx context.Context, params *QueryParams, opts *PaginationOptions) (*PagedResult, error)
	Get(ctx context.Context, id string, params *QueryParams) (*SingleResponse, error)
}

// TemplatesClient provides access to template resources.
type TemplatesClient interface {
	List(ctx context.Context, params *QueryParams, opts *PaginationOptions) (*PagedResult, error)
	Get(ctx context.Context, id string, params *QueryParams) (*SingleResponse, error)
}

// EventsClient provides access to event resources.
type EventsClient interface {
	List(ctx context.Context, params *QueryParams, opts *PaginationOptions) (*PagedResult, error)
	Create(ctx context.Context, payload json.RawMessage) error
}

// Client is the full resource surface of the API.
type Client interface {
	Profiles() ProfilesClient
	Campaigns() CampaignsClient
	Segments() SegmentsClient
	Metrics() MetricsClient
	Templates() TemplatesClient
	Events() EventsClient

	// CacheStats returns a snapshot of the response cache counters.
	CacheStats() CacheStats

	// Close releases cache resources (janitor goroutine, NATS connection).
	Close() error
}
