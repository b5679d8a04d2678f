package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCampaignsCommand creates the campaigns command group.
func NewCampaignsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "Manage campaigns",
	}

	cmd.AddCommand(newCampaignsListCommand())
	cmd.AddCommand(newCampaignsGetCommand())
	cmd.AddCommand(newCampaignsDeleteCommand())

	return cmd
}

func newCampaignsListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			result, err := client.Campaigns().List(cmd.Context(), flags.queryParams(), flags.paginationOptions())
			if err != nil {
				return fmt.Errorf("failed to list campaigns: %w", err)
			}

			return outputPagedResult(result)
		},
	}

	flags.register(cmd)

	return cmd
}

func newCampaignsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get one campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			result, err := client.Campaigns().Get(cmd.Context(), args[0], nil)
			if err != nil {
				return fmt.Errorf("failed to get campaign: %w", err)
			}

			return outputSingle(result)
		},
	}
}

func newCampaignsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			if err := client.Campaigns().Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete campaign: %w", err)
			}

			fmt.Printf("Deleted campaign %s\n", args[0])

			return nil
		},
	}
}
