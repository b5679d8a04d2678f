package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return encodeJSON(info)
			case OutputFormatYAML:
				return encodeYAML(info)
			default:
				fmt.Printf("mapi version %s (commit: %s, built: %s)\n", version, commit, date)

				return nil
			}
		},
	}
}
