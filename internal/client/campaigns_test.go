package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

func TestCampaignsClient_Delete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "DELETE", request.Method)
		assert.Equal(t, "/api/campaigns/cmp-1", request.URL.Path)
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	err := c.Campaigns().Delete(context.Background(), "cmp-1")
	require.NoError(t, err)
}

func TestCampaignsClient_Delete_InvalidatesCache(t *testing.T) {
	t.Parallel()

	var gets atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodDelete {
			writer.WriteHeader(http.StatusNoContent)

			return
		}

		gets.Add(1)
		_, _ = writer.Write([]byte(`{"data":[{"type":"campaign","id":"cmp-1"}],"links":{}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Campaigns().List(context.Background(), nil, &mapi.PaginationOptions{})
	require.NoError(t, err)

	require.NoError(t, c.Campaigns().Delete(context.Background(), "cmp-1"))

	_, err = c.Campaigns().List(context.Background(), nil, &mapi.PaginationOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), gets.Load())
}

func TestCampaignsClient_Delete_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"errors":[{"detail":"no such campaign"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	err := c.Campaigns().Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, mapi.IsNotFound(err))
}
