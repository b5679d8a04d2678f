// Package mapiclient provides the main entry point for creating API clients.
package mapiclient

import (
	"fmt"
	"strings"

	"github.com/veridian-io/mapi-client/internal/client"
	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// New creates a fully assembled client: validated credential, request
// executor, response cache, and every resource client sharing them.
func New(config *mapi.Config) (mapi.Client, error) {
	if config == nil {
		return nil, client.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, client.ErrAPIEndpointRequired
	}

	// Normalize API endpoint
	apiEndpoint := strings.TrimSuffix(config.APIEndpoint, "/")
	if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
		apiEndpoint = "https://" + apiEndpoint
	}

	config.APIEndpoint = apiEndpoint

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewWithAPIKey creates a client from just an endpoint and a key, using
// defaults for everything else.
func NewWithAPIKey(endpoint, apiKey string) (mapi.Client, error) {
	return New(&mapi.Config{
		APIEndpoint: endpoint,
		APIKey:      apiKey,
	})
}
