package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mapihttp "github.com/veridian-io/mapi-client/internal/http"
	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

func TestNewClient_KeyValidation(t *testing.T) {
	t.Parallel()
	t.Run("empty key fails fast", func(t *testing.T) {
		t.Parallel()

		client, err := mapihttp.NewClient("https://api.example.com", "")
		require.Error(t, err)
		assert.Nil(t, client)
		assert.True(t, mapi.IsAuth(err))
	})

	t.Run("missing prefix fails fast", func(t *testing.T) {
		t.Parallel()

		client, err := mapihttp.NewClient("https://api.example.com", "sk_wrong-kind")
		require.Error(t, err)
		assert.Nil(t, client)
		assert.True(t, mapi.IsAuth(err))
		assert.Contains(t, err.Error(), "pk_")
	})

	t.Run("custom prefix honored", func(t *testing.T) {
		t.Parallel()

		client, err := mapihttp.NewClient("https://api.example.com", "tk_test-key",
			mapihttp.WithKeyPrefix("tk_"))
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("valid key succeeds", func(t *testing.T) {
		t.Parallel()

		client, err := mapihttp.NewClient("https://api.example.com", "pk_test-key")
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/profiles", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer pk_test-key", request.Header.Get("Authorization"))
			assert.Equal(t, "2024-10-15", request.Header.Get("Revision"))
			assert.Equal(t, "application/vnd.api+json", request.Header.Get("Accept"))

			response := map[string]string{"id": "profile-1"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client, err := mapihttp.NewClient(server.URL, "pk_test-key")
		require.NoError(t, err)

		req := &mapihttp.Request{
			Method: "GET",
			Path:   "/api/profiles",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "profile-1", result["id"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/profiles", request.URL.Path)
			assert.Equal(t, "50", request.URL.Query().Get("page[size]"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := mapihttp.NewClient(server.URL, "pk_test-key")
		require.NoError(t, err)

		req := &mapihttp.Request{
			Method: "GET",
			Path:   "/api/profiles",
			Query:  url.Values{"page[size]": []string{"50"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/vnd.api+json", request.Header.Get("Content-Type"))

			var body map[string]interface{}

			err := json.NewDecoder(request.Body).Decode(&body)
			require.NoError(t, err)
			assert.Equal(t, "profile", body["type"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client, err := mapihttp.NewClient(server.URL, "pk_test-key")
		require.NoError(t, err)

		req := &mapihttp.Request{
			Method: "POST",
			Path:   "/api/profiles",
			Body:   map[string]interface{}{"type": "profile"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := mapihttp.NewClient(server.URL, "pk_test-key")
		require.NoError(t, err)

		req := &mapihttp.Request{
			Method:  "GET",
			Path:    "/api/profiles",
			Headers: map[string]string{"X-Custom": "custom-value"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("204 response has nil body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client, err := mapihttp.NewClient(server.URL, "pk_test-key")
		require.NoError(t, err)

		resp, err := client.Delete(context.Background(), "/api/campaigns/cmp-1")
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)
		assert.Nil(t, resp.Body)
	})

	t.Run("revision override", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "2025-01-15", request.Header.Get("X-API-Revision"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := mapihttp.NewClient(server.URL, "pk_test-key",
			mapihttp.WithRevision("X-API-Revision", "2025-01-15"))
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "/api/profiles", nil)
		require.NoError(t, err)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		headers    map[string]string
		checkError func(t *testing.T, err error)
	}{
		{
			name:   "401 is auth",
			status: http.StatusUnauthorized,
			body:   `{"errors":[{"detail":"Invalid API key"}]}`,
			checkError: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, mapi.IsAuth(err))
				assert.Contains(t, err.Error(), "Invalid API key")
			},
		},
		{
			name:   "403 is auth",
			status: http.StatusForbidden,
			body:   `{"errors":[{"detail":"Missing scope"}]}`,
			checkError: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, mapi.IsAuth(err))
			},
		},
		{
			name:   "404 is not found",
			status: http.StatusNotFound,
			body:   `{"errors":[{"detail":"No such profile"}]}`,
			checkError: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, mapi.IsNotFound(err))
			},
		},
		{
			name:    "429 carries retry-after",
			status:  http.StatusTooManyRequests,
			body:    `{"errors":[{"detail":"Throttled"}]}`,
			headers: map[string]string{"Retry-After": "30"},
			checkError: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, mapi.IsRateLimit(err))

				var apiErr *mapi.APIError

				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, 30*time.Second, apiErr.RetryAfter)
			},
		},
		{
			name:   "422 is validation with structured errors",
			status: http.StatusUnprocessableEntity,
			body:   `{"errors":[{"code":"invalid","title":"Invalid field","detail":"email is malformed","source":{"pointer":"/data/attributes/email"}}]}`,
			checkError: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, mapi.IsValidation(err))

				var apiErr *mapi.APIError

				require.ErrorAs(t, err, &apiErr)
				require.Len(t, apiErr.Errors, 1)
				assert.Equal(t, "/data/attributes/email", apiErr.Errors[0].Source.Pointer)
			},
		},
		{
			name:   "500 is generic",
			status: http.StatusInternalServerError,
			body:   `{"errors":[{"detail":"boom"}]}`,
			checkError: func(t *testing.T, err error) {
				t.Helper()

				var apiErr *mapi.APIError

				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, mapi.ErrorKindGeneric, apiErr.Kind)
				assert.Equal(t, 500, apiErr.Status)
			},
		},
		{
			name:   "malformed body still classifies",
			status: http.StatusBadRequest,
			body:   `<html>not json</html>`,
			checkError: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, mapi.IsValidation(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				for key, value := range tt.headers {
					writer.Header().Set(key, value)
				}

				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := mapihttp.NewClient(server.URL, "pk_test-key")
			require.NoError(t, err)

			resp, err := client.Get(context.Background(), "/api/profiles", nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
			tt.checkError(t, err)
		})
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := mapihttp.NewClient(server.URL, "pk_test-key")
	require.NoError(t, err)

	req := &mapihttp.Request{
		Method:  "GET",
		Path:    "/api/profiles",
		Timeout: 50 * time.Millisecond,
	}

	resp, err := client.Do(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, mapi.IsTimeout(err))

	var apiErr *mapi.APIError

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, mapi.ErrorKindGeneric, apiErr.Kind)
	assert.Equal(t, http.StatusRequestTimeout, apiErr.Status)
}

func TestClient_Do_TransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
	server.Close()

	client, err := mapihttp.NewClient(server.URL, "pk_test-key")
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "/api/profiles", nil)
	require.Error(t, err)
	assert.Nil(t, resp)

	var apiErr *mapi.APIError

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, mapi.ErrorKindGeneric, apiErr.Kind)
	assert.Equal(t, 0, apiErr.Status)
}

func TestClient_Do_Interceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var observed []string

	chain := mapi.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, req *mapi.Request) error {
		observed = append(observed, "request:"+req.Path)

		return nil
	})
	chain.AddResponseInterceptor(func(ctx context.Context, req *mapi.Request, resp *mapi.Response) error {
		observed = append(observed, "response:"+req.Path)

		return nil
	})

	client, err := mapihttp.NewClient(server.URL, "pk_test-key",
		mapihttp.WithInterceptors(chain))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/api/segments", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"request:/api/segments", "response:/api/segments"}, observed)
}

func TestClient_Do_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := &MockLogger{}
	client, err := mapihttp.NewClient(server.URL, "pk_test-key",
		mapihttp.WithLogger(logger),
		mapihttp.WithDebug(true))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/api/profiles", nil)
	require.NoError(t, err)
	assert.Len(t, logger.logs, 2)
}

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		call   func(client *mapihttp.Client, serverURL string) (*mapihttp.Response, error)
	}{
		{
			name:   "Get",
			method: "GET",
			call: func(client *mapihttp.Client, serverURL string) (*mapihttp.Response, error) {
				return client.Get(context.Background(), "/api/profiles", nil)
			},
		},
		{
			name:   "Post",
			method: "POST",
			call: func(client *mapihttp.Client, serverURL string) (*mapihttp.Response, error) {
				return client.Post(context.Background(), "/api/profiles", map[string]string{"k": "v"})
			},
		},
		{
			name:   "Patch",
			method: "PATCH",
			call: func(client *mapihttp.Client, serverURL string) (*mapihttp.Response, error) {
				return client.Patch(context.Background(), "/api/profiles", map[string]string{"k": "v"})
			},
		},
		{
			name:   "Delete",
			method: "DELETE",
			call: func(client *mapihttp.Client, serverURL string) (*mapihttp.Response, error) {
				return client.Delete(context.Background(), "/api/profiles")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, tt.method, request.Method)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client, err := mapihttp.NewClient(server.URL, "pk_test-key")
			require.NoError(t, err)

			resp, err := tt.call(client, server.URL)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}
