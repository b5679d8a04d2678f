// Package commands implements the mapi CLI commands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/veridian-io/mapi-client/internal/constants"
	"github.com/veridian-io/mapi-client/pkg/mapi"
	"github.com/veridian-io/mapi-client/pkg/mapiclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Common static errors used throughout the commands package.
var (
	ErrAPIEndpointRequired = errors.New("API endpoint is required (use --api, MAPI_API, or mapi login)")
	ErrAPIKeyRequired      = errors.New("API key is required (use --key, MAPI_KEY, or mapi login)")
	ErrResourceIDRequired  = errors.New("resource id is required")
	ErrToolNameRequired    = errors.New("tool name is required")
)

// CLIConfig is the persisted CLI configuration.
type CLIConfig struct {
	API      string `yaml:"api,omitempty"`
	Key      string `yaml:"key,omitempty"`
	Revision string `yaml:"revision,omitempty"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".mapi", "config.yml"), nil
}

// saveConfig persists the configuration with owner-only permissions; the file
// holds the API key.
func saveConfig(config *CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// newClient assembles a client from viper, which already merges flags,
// environment, and the persisted config file in that order of precedence.
func newClient() (mapi.Client, error) {
	endpoint := viper.GetString("api")
	key := viper.GetString("key")

	if endpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	if key == "" {
		return nil, ErrAPIKeyRequired
	}

	config := &mapi.Config{
		APIEndpoint:   endpoint,
		APIKey:        key,
		Revision:      viper.GetString("revision"),
		CacheDisabled: viper.GetBool("no-cache"),
	}

	client, err := mapiclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func encodeJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode as JSON: %w", err)
	}

	return nil
}

func encodeYAML(value interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode as YAML: %w", err)
	}

	return nil
}

// resourceRow is a flattened JSON:API resource object for table output.
type resourceRow struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Attributes map[string]interface{} `json:"attributes"`
}

func parseRows(items []json.RawMessage) []resourceRow {
	rows := make([]resourceRow, 0, len(items))

	for _, item := range items {
		var row resourceRow
		if json.Unmarshal(item, &row) == nil {
			rows = append(rows, row)
		}
	}

	return rows
}

// attributeColumns returns the union of attribute names across rows, sorted,
// so a table has one column per attribute that actually occurs.
func attributeColumns(rows []resourceRow) []string {
	seen := make(map[string]bool)

	for _, row := range rows {
		for name := range row.Attributes {
			seen[name] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}

	sort.Strings(columns)

	return columns
}

func attributeString(row resourceRow, name string) string {
	value, ok := row.Attributes[name]
	if !ok || value == nil {
		return ""
	}

	if text, ok := value.(string); ok {
		return text
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(data)
}
