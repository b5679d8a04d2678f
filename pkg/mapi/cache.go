package mapi

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/veridian-io/mapi-client/internal/constants"
)

// Static errors for cache lookups.
var (
	ErrCacheKeyNotFound   = errors.New("cache: key not found")
	ErrCacheEntryExpired  = errors.New("cache: entry expired")
	ErrNilCacheValue      = errors.New("cache: nil value")
	ErrCacheWriteDisabled = errors.New("cache: disabled")
)

// CacheEntry is one cached response value. Entries are owned by the cache for
// their lifetime and are never served past ExpiresAt.
type CacheEntry struct {
	Key            string       `json:"key"`
	Data           []byte       `json:"data"`
	ResourceType   ResourceType `json:"resource_type"`
	CreatedAt      time.Time    `json:"created_at"`
	LastAccessedAt time.Time    `json:"last_accessed_at"`
	ExpiresAt      time.Time    `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Cache is the storage backend contract. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
	Invalidate(ctx context.Context, match func(*CacheEntry) bool) (int, error)
}

// MemoryCache is an in-memory, size-bounded cache with lazy expiry on lookup
// and approximate-LRU eviction under size pressure.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	maxSize int
	done    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
}

// Get retrieves an entry. An expired entry is deleted as a side effect and
// reported as a miss; a hit updates the entry's last access time.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheKeyNotFound
	}

	if entry.Expired(time.Now()) {
		delete(c.entries, key)

		return nil, ErrCacheEntryExpired
	}

	entry.LastAccessedAt = time.Now()

	return entry, nil
}

// Set stores an entry, evicting the least-recently-accessed ~20% of entries
// first when the cache is full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if entry == nil {
		return ErrNilCacheValue
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.entries[key] = entry

	return nil
}

// evictOldestLocked removes the oldest entries by last access time. Callers
// must hold the mutex.
func (c *MemoryCache) evictOldestLocked() {
	count := int(float64(c.maxSize) * constants.CacheEvictionFraction)
	if count < 1 {
		count = 1
	}

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].LastAccessedAt.Before(c.entries[keys[j]].LastAccessedAt)
	})

	if count > len(keys) {
		count = len(keys)
	}

	for _, key := range keys[:count] {
		delete(c.entries, key)
	}
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// Has checks if a non-expired entry exists without touching access time.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]

	return ok && !entry.Expired(time.Now())
}

// Invalidate removes all entries the match function selects and returns the
// number removed.
func (c *MemoryCache) Invalidate(ctx context.Context, match func(*CacheEntry) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0

	for key, entry := range c.entries {
		if match(entry) {
			delete(c.entries, key)

			removed++
		}
	}

	return removed, nil
}

// Cleanup eagerly removes all expired entries. Correctness never depends on
// this; lookups already treat expired entries as absent.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	for key, entry := range c.entries {
		if entry.Expired(now) {
			delete(c.entries, key)
		}
	}
}

// Len returns the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// StartJanitor begins a background sweep of expired entries at the given
// interval. Close stops it.
func (c *MemoryCache) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = constants.CacheJanitorInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-c.done:
				return
			}
		}
	}()
}

// Close stops the background janitor, if started.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })

	return nil
}

// ResourceType tags a cache entry with the API resource family it came from.
// Each operation declares its type explicitly; the tag selects the entry TTL.
type ResourceType string

const (
	// ResourceTypeProfiles tags profile reads.
	ResourceTypeProfiles ResourceType = "profiles"

	// ResourceTypeSegments tags segment reads.
	ResourceTypeSegments ResourceType = "segments"

	// ResourceTypeLists tags list reads.
	ResourceTypeLists ResourceType = "lists"

	// ResourceTypeCampaigns tags campaign reads.
	ResourceTypeCampaigns ResourceType = "campaigns"

	// ResourceTypeFlows tags flow reads.
	ResourceTypeFlows ResourceType = "flows"

	// ResourceTypeEvents tags event reads.
	ResourceTypeEvents ResourceType = "events"

	// ResourceTypeMetrics tags metric reads.
	ResourceTypeMetrics ResourceType = "metrics"

	// ResourceTypeTemplates tags template reads.
	ResourceTypeTemplates ResourceType = "templates"

	// ResourceTypeDefault tags reads from undeclared routes.
	ResourceTypeDefault ResourceType = "default"
)

// routeRule binds a path prefix to a resource type for untyped callers.
type routeRule struct {
	prefix       string
	resourceType ResourceType
}

// CacheStats tracks cache effectiveness counters.
type CacheStats struct {
	Hits      int64 `json:"hits"      yaml:"hits"`
	Misses    int64 `json:"misses"    yaml:"misses"`
	Sets      int64 `json:"sets"      yaml:"sets"`
	Evictions int64 `json:"evictions" yaml:"evictions"`
}

// GetHitRate returns the fraction of lookups served from cache.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CachingPolicy decides which exchanges are cacheable.
type CachingPolicy struct {
	CacheGET     bool
	CachePOST    bool
	CacheErrors  bool
	IncludePaths []string
	ExcludePaths []string
}

// DefaultCachingPolicy caches successful GET responses only.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET: true,
	}
}

// ShouldCache reports whether a response for the given exchange is cacheable.
func (p *CachingPolicy) ShouldCache(method, path string, status int) bool {
	switch method {
	case "GET":
		if !p.CacheGET {
			return false
		}
	case "POST":
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if !p.CacheErrors && (status < 200 || status >= 300) {
		return false
	}

	for _, excluded := range p.ExcludePaths {
		if strings.HasPrefix(path, excluded) {
			return false
		}
	}

	if len(p.IncludePaths) > 0 {
		for _, included := range p.IncludePaths {
			if strings.HasPrefix(path, included) {
				return true
			}
		}

		return false
	}

	return true
}

// CacheManager derives cache keys, maps resource types to TTLs, and fronts a
// Cache backend with hit/miss accounting. It is constructed explicitly and
// passed by reference to whoever owns the request path.
type CacheManager struct {
	mu      sync.Mutex
	cache   Cache
	policy  *CachingPolicy
	ttls    map[ResourceType]time.Duration
	routes  []routeRule
	enabled bool
	stats   CacheStats
}

// NewCacheManager creates a manager over the given backend. A nil policy uses
// DefaultCachingPolicy; the TTL table and route rules for the standard
// resource families are registered at construction.
func NewCacheManager(cache Cache, policy *CachingPolicy) *CacheManager {
	if policy == nil {
		policy = DefaultCachingPolicy()
	}

	manager := &CacheManager{
		cache:   cache,
		policy:  policy,
		ttls:    make(map[ResourceType]time.Duration),
		enabled: true,
	}

	manager.SetTTL(ResourceTypeProfiles, constants.ProfilesCacheTTL)
	manager.SetTTL(ResourceTypeSegments, constants.SegmentsCacheTTL)
	manager.SetTTL(ResourceTypeLists, constants.ListsCacheTTL)
	manager.SetTTL(ResourceTypeCampaigns, constants.CampaignsCacheTTL)
	manager.SetTTL(ResourceTypeFlows, constants.FlowsCacheTTL)
	manager.SetTTL(ResourceTypeEvents, constants.EventsCacheTTL)
	manager.SetTTL(ResourceTypeMetrics, constants.MetricsCacheTTL)
	manager.SetTTL(ResourceTypeTemplates, constants.TemplatesCacheTTL)
	manager.SetTTL(ResourceTypeDefault, constants.DefaultCacheTTL)

	manager.RegisterRoute("/api/profiles", ResourceTypeProfiles)
	manager.RegisterRoute("/api/segments", ResourceTypeSegments)
	manager.RegisterRoute("/api/lists", ResourceTypeLists)
	manager.RegisterRoute("/api/campaigns", ResourceTypeCampaigns)
	manager.RegisterRoute("/api/flows", ResourceTypeFlows)
	manager.RegisterRoute("/api/events", ResourceTypeEvents)
	manager.RegisterRoute("/api/metrics", ResourceTypeMetrics)
	manager.RegisterRoute("/api/templates", ResourceTypeTemplates)

	return manager
}

// SetTTL declares or overrides the TTL for a resource type.
func (m *CacheManager) SetTTL(resourceType ResourceType, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ttls[resourceType] = ttl
}

// TTLFor returns the TTL for a resource type, falling back to the default.
func (m *CacheManager) TTLFor(resourceType ResourceType) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl, ok := m.ttls[resourceType]; ok {
		return ttl
	}

	return m.ttls[ResourceTypeDefault]
}

// RegisterRoute binds a path prefix to a resource type. Routes exist only as
// a fallback for callers that do not declare their type.
func (m *CacheManager) RegisterRoute(prefix string, resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.routes = append(m.routes, routeRule{prefix: prefix, resourceType: resourceType})
}

// ResourceTypeForPath resolves a request path to a registered resource type.
func (m *CacheManager) ResourceTypeForPath(path string) ResourceType {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, route := range m.routes {
		if strings.HasPrefix(path, route.prefix) {
			return route.resourceType
		}
	}

	return ResourceTypeDefault
}

// GetCacheKey derives a deterministic key from the request signature. Equal
// inputs always produce equal keys; parameters are serialized in sorted order.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	if len(params) == 0 {
		return method + ":" + path
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var builder strings.Builder

	builder.WriteString(method)
	builder.WriteString(":")
	builder.WriteString(path)
	builder.WriteString(":")

	for i, key := range keys {
		if i > 0 {
			builder.WriteString("&")
		}

		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(params[key])
	}

	return builder.String()
}

// Enabled reports whether the cache is globally enabled.
func (m *CacheManager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.enabled
}

// SetEnabled globally enables or disables the cache.
func (m *CacheManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = enabled
}

// Get returns the cached value for a key, or an error on miss or expiry.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	if !m.Enabled() || m.cache == nil {
		return nil, ErrCacheKeyNotFound
	}

	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.recordMiss()

		return nil, err
	}

	m.recordHit()

	return entry.Data, nil
}

// Set stores a value under a key with an explicit TTL. Disabled caches and
// nil values make this a no-op.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.setEntry(ctx, key, data, ResourceTypeDefault, ttl)
}

// SetForType stores a value tagged with its declared resource type, using the
// type's TTL from the table.
func (m *CacheManager) SetForType(ctx context.Context, key string, data []byte, resourceType ResourceType) error {
	return m.setEntry(ctx, key, data, resourceType, m.TTLFor(resourceType))
}

func (m *CacheManager) setEntry(ctx context.Context, key string, data []byte, resourceType ResourceType, ttl time.Duration) error {
	if !m.Enabled() || m.cache == nil || data == nil {
		return nil
	}

	now := time.Now()

	entry := &CacheEntry{
		Key:            key,
		Data:           data,
		ResourceType:   resourceType,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(ttl),
	}

	err := m.cache.Set(ctx, key, entry)
	if err != nil {
		return err
	}

	m.recordSet()

	return nil
}

// InvalidateType removes all entries tagged with a resource type. Callers
// that mutate a resource use this to avoid serving stale reads.
func (m *CacheManager) InvalidateType(ctx context.Context, resourceType ResourceType) (int, error) {
	if m.cache == nil {
		return 0, nil
	}

	removed, err := m.cache.Invalidate(ctx, func(entry *CacheEntry) bool {
		return entry.ResourceType == resourceType
	})

	m.recordEvictions(removed)

	return removed, err
}

// InvalidatePattern removes all entries whose key contains the substring.
func (m *CacheManager) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	if m.cache == nil {
		return 0, nil
	}

	removed, err := m.cache.Invalidate(ctx, func(entry *CacheEntry) bool {
		return strings.Contains(entry.Key, pattern)
	})

	m.recordEvictions(removed)

	return removed, err
}

// ShouldCache reports whether the manager's policy allows caching an exchange.
func (m *CacheManager) ShouldCache(method, path string, status int) bool {
	return m.policy.ShouldCache(method, path, status)
}

// GetStats returns a snapshot of the cache counters.
func (m *CacheManager) GetStats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stats
}

func (m *CacheManager) recordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Hits++
}

func (m *CacheManager) recordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Misses++
}

func (m *CacheManager) recordSet() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Sets++
}

func (m *CacheManager) recordEvictions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Evictions += int64(count)
}
