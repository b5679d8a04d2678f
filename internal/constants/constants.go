package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for a single API request.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are disabled unless explicitly configured.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination limits.
const (
	// DefaultMaxResults caps the number of items assembled by auto-pagination.
	DefaultMaxResults = 500

	// DefaultPageSize is the page size requested from the API.
	DefaultPageSize = 50

	// MaxPageSize is the largest page size the API accepts.
	MaxPageSize = 100
)

// Cache sizing and lifetimes.
const (
	// DefaultCacheSize is the maximum number of cache entries.
	DefaultCacheSize = 1000

	// CacheJanitorInterval is how often expired entries are swept.
	CacheJanitorInterval = 60 * time.Second

	// CacheEvictionFraction is the share of entries evicted under size pressure.
	CacheEvictionFraction = 0.2

	// DefaultCacheTTL applies to resource types without a declared TTL.
	DefaultCacheTTL = 5 * time.Minute

	// ProfilesCacheTTL is the TTL for profile reads.
	ProfilesCacheTTL = 5 * time.Minute

	// SegmentsCacheTTL is the TTL for segment reads.
	SegmentsCacheTTL = 5 * time.Minute

	// ListsCacheTTL is the TTL for list reads.
	ListsCacheTTL = 5 * time.Minute

	// CampaignsCacheTTL is the TTL for campaign reads.
	CampaignsCacheTTL = 10 * time.Minute

	// FlowsCacheTTL is the TTL for flow reads.
	FlowsCacheTTL = 10 * time.Minute

	// EventsCacheTTL is the TTL for event reads.
	EventsCacheTTL = 2 * time.Minute

	// MetricsCacheTTL is the TTL for metric reads.
	MetricsCacheTTL = 1 * time.Hour

	// TemplatesCacheTTL is the TTL for template reads.
	TemplatesCacheTTL = 1 * time.Hour
)

// Wire protocol defaults. Header names and values are an external-API
// contract and can be overridden through client options.
const (
	// DefaultAuthScheme prefixes the credential in the Authorization header.
	DefaultAuthScheme = "Bearer"

	// DefaultKeyPrefix is the expected prefix of a valid API key.
	DefaultKeyPrefix = "pk_"

	// DefaultRevisionHeader carries the pinned API version.
	DefaultRevisionHeader = "Revision"

	// DefaultRevision is the API version every request is pinned to.
	DefaultRevision = "2024-10-15"

	// ContentTypeJSONAPI is the JSON:API media type.
	ContentTypeJSONAPI = "application/vnd.api+json"
)

// Output formats.
const (
	// FormatJSON for JSON output.
	FormatJSON = "json"

	// FormatYAML for YAML output.
	FormatYAML = "yaml"
)

// JSON formatting.
const (
	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)
