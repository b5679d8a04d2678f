package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veridian-io/mapi-client/internal/tools"
)

// NewToolsCommand creates the tools command group.
func NewToolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and invoke the agent tool catalog",
	}

	cmd.AddCommand(newToolsListCommand())
	cmd.AddCommand(newToolsCallCommand())

	return cmd
}

func newToolsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			registry, err := tools.NewCatalog(client)
			if err != nil {
				return fmt.Errorf("failed to build tool catalog: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON, OutputFormatYAML:
				catalog := make([]map[string]interface{}, 0, len(registry.Tools()))
				for _, tool := range registry.Tools() {
					catalog = append(catalog, map[string]interface{}{
						"name":         tool.Name,
						"description":  tool.Description,
						"input_schema": tool.InputSchema,
					})
				}

				if viper.GetString("output") == OutputFormatYAML {
					return encodeYAML(catalog)
				}

				return encodeJSON(catalog)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "Description")

				for _, tool := range registry.Tools() {
					_ = table.Append(tool.Name, tool.Description)
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

func newToolsCallCommand() *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call NAME",
		Short: "Invoke a tool by name",
		Long:  "Invoke a tool with JSON arguments. The result, success or failure, is printed as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return ErrToolNameRequired
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			registry, err := tools.NewCatalog(client)
			if err != nil {
				return fmt.Errorf("failed to build tool catalog: %w", err)
			}

			result := registry.Execute(cmd.Context(), args[0], json.RawMessage(rawArgs))

			var pretty interface{}
			if err := json.Unmarshal(result, &pretty); err != nil {
				fmt.Println(string(result))

				return nil
			}

			return encodeJSON(pretty)
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "{}", "tool arguments as a JSON object")

	return cmd
}
