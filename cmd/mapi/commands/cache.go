package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewCacheCommand creates the cache command group.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the response cache",
	}

	cmd.AddCommand(newCacheStatsCommand())

	return cmd
}

func newCacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show response cache counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			stats := client.CacheStats()

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return encodeJSON(stats)
			case OutputFormatYAML:
				return encodeYAML(stats)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Counter", "Value")

				_ = table.Append("Hits", strconv.FormatInt(stats.Hits, 10))
				_ = table.Append("Misses", strconv.FormatInt(stats.Misses, 10))
				_ = table.Append("Sets", strconv.FormatInt(stats.Sets, 10))
				_ = table.Append("Evictions", strconv.FormatInt(stats.Evictions, 10))
				_ = table.Append("Hit rate", fmt.Sprintf("%.0f%%", stats.GetHitRate()*100))

				_ = table.Render()

				return nil
			}
		},
	}
}
