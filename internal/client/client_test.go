package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-io/mapi-client/internal/client"
	"github.com/veridian-io/mapi-client/pkg/mapi"
)

func newTestClient(t *testing.T, serverURL string) *client.Client {
	t.Helper()

	c, err := client.New(&mapi.Config{
		APIEndpoint: serverURL,
		APIKey:      "pk_test-key",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		c, err := client.New(nil)
		require.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		t.Parallel()

		c, err := client.New(&mapi.Config{APIKey: "pk_test-key"})
		require.ErrorIs(t, err, client.ErrAPIEndpointRequired)
		assert.Nil(t, c)
	})

	t.Run("invalid key surfaces as auth error", func(t *testing.T) {
		t.Parallel()

		c, err := client.New(&mapi.Config{
			APIEndpoint: "https://api.example.com",
			APIKey:      "wrong-prefix",
		})
		require.Error(t, err)
		assert.Nil(t, c)
		assert.True(t, mapi.IsAuth(err))
	})
}

func TestClient_CachedReads(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		_, _ = writer.Write([]byte(`{"data":{"type":"segment","id":"seg-1","attributes":{"name":"VIP"}}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	first, err := c.Segments().Get(context.Background(), "seg-1", nil)
	require.NoError(t, err)

	second, err := c.Segments().Get(context.Background(), "seg-1", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load())
	assert.JSONEq(t, string(first.Data), string(second.Data))

	stats := c.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestClient_CacheKeyedByQuery(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		_, _ = writer.Write([]byte(`{"data":{"type":"segment","id":"seg-1"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Segments().Get(context.Background(), "seg-1", nil)
	require.NoError(t, err)

	_, err = c.Segments().Get(context.Background(), "seg-1", mapi.NewQueryParams().WithInclude("tags"))
	require.NoError(t, err)

	// Different query signatures must never share a cache entry.
	assert.Equal(t, int64(2), hits.Load())
}

func TestClient_CacheDisabled(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		_, _ = writer.Write([]byte(`{"data":{"type":"template","id":"tpl-1"}}`))
	}))
	defer server.Close()

	c, err := client.New(&mapi.Config{
		APIEndpoint:   server.URL,
		APIKey:        "pk_test-key",
		CacheDisabled: true,
	})
	require.NoError(t, err)

	defer func() { _ = c.Close() }()

	_, err = c.Templates().Get(context.Background(), "tpl-1", nil)
	require.NoError(t, err)

	_, err = c.Templates().Get(context.Background(), "tpl-1", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), hits.Load())
}

func TestClient_RevisionFromConfig(t *testing.T) {
	t.Parallel()

	var revision atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		revision.Store(request.Header.Get("Revision"))
		_, _ = writer.Write([]byte(`{"data":{"type":"segment","id":"seg-1"}}`))
	}))
	defer server.Close()

	c, err := client.New(&mapi.Config{
		APIEndpoint: server.URL,
		APIKey:      "pk_test-key",
		Revision:    "2099-01-01",
	})
	require.NoError(t, err)

	defer func() { _ = c.Close() }()

	_, err = c.Segments().Get(context.Background(), "seg-1", nil)
	require.NoError(t, err)

	// The configured revision must reach the wire instead of the default.
	assert.Equal(t, "2099-01-01", revision.Load())
}

func TestClient_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"errors":[{"detail":"no such metric"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Metrics().Get(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.True(t, mapi.IsNotFound(err))

	_, err = c.Metrics().Get(context.Background(), "missing", nil)
	require.Error(t, err)

	assert.Equal(t, int64(2), hits.Load())
}

func TestClient_ListPagination(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		cursor := request.URL.Query().Get("page[cursor]")

		switch cursor {
		case "":
			fmt.Fprintf(writer, `{"data":[{"type":"metric","id":"m-1"},{"type":"metric","id":"m-2"}],"links":{"next":"http://%s/api/metrics?page%%5Bcursor%%5D=c2"}}`, request.Host)
		case "c2":
			_, _ = writer.Write([]byte(`{"data":[{"type":"metric","id":"m-3"}],"links":{}}`))
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	result, err := c.Metrics().List(context.Background(), nil, &mapi.PaginationOptions{FetchAll: true, MaxResults: 100})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.False(t, result.Truncated)
}

func TestClient_Close(t *testing.T) {
	t.Parallel()

	c, err := client.New(&mapi.Config{
		APIEndpoint: "https://api.example.com",
		APIKey:      "pk_test-key",
	})
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestClient_ResourceAccessors(t *testing.T) {
	t.Parallel()

	c, err := client.New(&mapi.Config{
		APIEndpoint: "https://api.example.com",
		APIKey:      "pk_test-key",
	})
	require.NoError(t, err)

	defer func() { _ = c.Close() }()

	assert.NotNil(t, c.Profiles())
	assert.NotNil(t, c.Campaigns())
	assert.NotNil(t, c.Segments())
	assert.NotNil(t, c.Metrics())
	assert.NotNil(t, c.Templates())
	assert.NotNil(t, c.Events())
	assert.NotNil(t, c.HTTPClient())
	assert.NotNil(t, c.CacheManager())
}

func TestClient_ListResponseParsing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"data":[{"type":"template","id":"tpl-1","attributes":{"name":"Welcome"}}],"links":{}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	result, err := c.Templates().List(context.Background(), nil, &mapi.PaginationOptions{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)

	var item struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}

	require.NoError(t, json.Unmarshal(result.Data[0], &item))
	assert.Equal(t, "template", item.Type)
	assert.Equal(t, "tpl-1", item.ID)
}
