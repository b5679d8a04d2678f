package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/veridian-io/mapi-client/pkg/mapi"
	"github.com/veridian-io/mapi-client/pkg/mapiclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		apiKey      string
		revision    string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store API credentials",
		Long:  "Validate an API endpoint and key, then persist them to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("API endpoint: ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
			}

			if apiEndpoint == "" {
				return ErrAPIEndpointRequired
			}

			if apiKey == "" {
				apiKey = viper.GetString("key")
			}

			if apiKey == "" {
				fmt.Print("API key: ")

				byteKey, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}

				apiKey = strings.TrimSpace(string(byteKey))

				fmt.Println()
			}

			if apiKey == "" {
				return ErrAPIKeyRequired
			}

			config := &mapi.Config{
				APIEndpoint: apiEndpoint,
				APIKey:      apiKey,
				Revision:    revision,
			}

			client, err := mapiclient.New(config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			defer func() { _ = client.Close() }()

			// Verify the credential with the cheapest possible read.
			params := mapi.NewQueryParams().WithPageSize(1)
			opts := &mapi.PaginationOptions{FetchAll: false, MaxResults: 1}

			_, err = client.Metrics().List(cmd.Context(), params, opts)
			if err != nil && !mapi.IsNotFound(err) {
				return fmt.Errorf("credential check failed: %w", err)
			}

			err = saveConfig(&CLIConfig{
				API:      config.APIEndpoint,
				Key:      apiKey,
				Revision: revision,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Logged in to %s\n", config.APIEndpoint)

			return nil
		},
	}

	cmd.Flags().StringVar(&apiEndpoint, "api", "", "API endpoint URL")
	cmd.Flags().StringVar(&apiKey, "key", "", "API key (prompted when omitted)")
	cmd.Flags().StringVar(&revision, "revision", "", "pin a specific API revision")

	return cmd
}
