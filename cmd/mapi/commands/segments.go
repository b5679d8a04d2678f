package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSegmentsCommand creates the segments command group.
func NewSegmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Manage audience segments",
	}

	cmd.AddCommand(newSegmentsListCommand())
	cmd.AddCommand(newSegmentsGetCommand())

	return cmd
}

func newSegmentsListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audience segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			result, err := client.Segments().List(cmd.Context(), flags.queryParams(), flags.paginationOptions())
			if err != nil {
				return fmt.Errorf("failed to list segments: %w", err)
			}

			return outputPagedResult(result)
		},
	}

	flags.register(cmd)

	return cmd
}

func newSegmentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get one audience segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			result, err := client.Segments().Get(cmd.Context(), args[0], nil)
			if err != nil {
				return fmt.Errorf("failed to get segment: %w", err)
			}

			return outputSingle(result)
		},
	}
}
