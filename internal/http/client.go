// Package http implements the request executor: one network exchange per
// call against the API endpoint, with credential/version headers, JSON:API
// content negotiation, timeout-driven cancellation, and error classification.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/veridian-io/mapi-client/internal/constants"
	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// Request describes one API exchange. Instances are constructed fresh per
// call and never reused.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	// Timeout overrides the client default for this request only.
	Timeout time.Duration
}

// Response is the decoded-enough result of one exchange. Body is nil for
// 204 responses.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client performs single API exchanges. It never retries unless retry support
// was explicitly enabled, never recovers from classified failures, and leaves
// payload validation to its callers.
type Client struct {
	baseURL        string
	apiKey         string
	keyPrefix      string
	authScheme     string
	revisionHeader string
	revision       string
	userAgent      string
	timeout        time.Duration
	httpClient     *retryablehttp.Client
	interceptors   *mapi.InterceptorChain
	logger         mapi.Logger
	debug          bool
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the logger for HTTP operations.
func WithLogger(logger mapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithKeyPrefix overrides the expected credential prefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Client) {
		c.keyPrefix = prefix
	}
}

// WithAuthScheme overrides the Authorization header scheme.
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		c.authScheme = scheme
	}
}

// WithRevision overrides the API version header name and value.
func WithRevision(header, value string) Option {
	return func(c *Client) {
		c.revisionHeader = header
		c.revision = value
	}
}

// WithRetryConfig enables transparent retries for transient failures. The
// default is no retries at all; callers decide how to react to rate limits.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithInterceptors sets the interceptor chain run around every exchange.
func WithInterceptors(chain *mapi.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a request executor for the given endpoint and credential.
// The credential is validated before any network activity: an empty key or a
// key without the expected prefix fails with an auth error immediately.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil

	client := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		apiKey:         apiKey,
		keyPrefix:      constants.DefaultKeyPrefix,
		authScheme:     constants.DefaultAuthScheme,
		revisionHeader: constants.DefaultRevisionHeader,
		revision:       constants.DefaultRevision,
		userAgent:      "mapi-client/1.0",
		timeout:        constants.DefaultHTTPTimeout,
		httpClient:     retryClient,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		return nil, &mapi.APIError{
			Kind:    mapi.ErrorKindAuth,
			Message: "API key is required",
		}
	}

	if client.keyPrefix != "" && !strings.HasPrefix(client.apiKey, client.keyPrefix) {
		return nil, &mapi.APIError{
			Kind:    mapi.ErrorKindAuth,
			Message: fmt.Sprintf("API key must start with %q", client.keyPrefix),
		}
	}

	return client, nil
}

// Do performs exactly one exchange for the request. Non-2xx responses are
// classified into the error taxonomy; the response is still returned so
// callers can inspect status and headers. Transport failures and timeouts
// yield a nil response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyBytes []byte

	if req.Body != nil {
		var err error

		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.setHeaders(httpReq, req)

	interceptReq := &mapi.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: httpReq.Header,
		Body:    bodyBytes,
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, interceptReq)
		if err != nil {
			return nil, err
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(err, timeout)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, mapi.NewTransportError(err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if httpResp.StatusCode == nethttp.StatusNoContent {
		resp.Body = nil
	}

	var respErr error
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		respErr = mapi.ClassifyResponse(httpResp.StatusCode, respBody, httpResp.Header)
	}

	if c.interceptors != nil {
		interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, interceptReq, &mapi.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
			Error:      respErr,
		})
		if interceptErr != nil {
			return resp, interceptErr
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
			"status": resp.StatusCode,
		})
	}

	return resp, respErr
}

// setHeaders attaches the credential, API version, content negotiation, and
// caller-supplied headers.
func (c *Client) setHeaders(httpReq *retryablehttp.Request, req *Request) {
	httpReq.Header.Set("Authorization", c.authScheme+" "+c.apiKey)
	httpReq.Header.Set(c.revisionHeader, c.revision)
	httpReq.Header.Set("Accept", constants.ContentTypeJSONAPI)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", constants.ContentTypeJSONAPI)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
}

// classifyTransportError distinguishes the timeout condition from other raw
// transport failures; neither carries an HTTP status.
func (c *Client) classifyTransportError(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return mapi.NewTimeoutError(timeout)
	}

	return mapi.NewTransportError(err)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}
