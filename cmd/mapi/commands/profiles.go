package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewProfilesCommand creates the profiles command group.
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage customer profiles",
	}

	cmd.AddCommand(newProfilesListCommand())
	cmd.AddCommand(newProfilesGetCommand())

	return cmd
}

func newProfilesListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customer profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			result, err := client.Profiles().List(cmd.Context(), flags.queryParams(), flags.paginationOptions())
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}

			return outputPagedResult(result)
		},
	}

	flags.register(cmd)

	return cmd
}

func newProfilesGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Get one customer profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return ErrResourceIDRequired
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			result, err := client.Profiles().Get(cmd.Context(), args[0], nil)
			if err != nil {
				return fmt.Errorf("failed to get profile: %w", err)
			}

			return outputSingle(result)
		},
	}

	return cmd
}
