package commands

import (
	"github.com/spf13/cobra"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// listFlags are the flags shared by every list subcommand.
type listFlags struct {
	filter     string
	sortBy     string
	pageSize   int
	firstPage  bool
	maxResults int
	fields     []string
	full       bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.filter, "filter", "", "filter expression")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "sort field (prefix with - for descending)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "items requested per page")
	cmd.Flags().BoolVar(&f.firstPage, "first-page", false, "fetch only the first page")
	cmd.Flags().IntVar(&f.maxResults, "max-results", 0, "cap on assembled items (default 500)")
	cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "attribute allow-list for compact output")
	cmd.Flags().BoolVar(&f.full, "full", false, "return full objects instead of compacting")
}

func (f *listFlags) queryParams() *mapi.QueryParams {
	params := mapi.NewQueryParams()

	if f.pageSize > 0 {
		params.WithPageSize(f.pageSize)
	}

	if f.filter != "" {
		params.WithFilter(f.filter)
	}

	if f.sortBy != "" {
		params.WithSort(f.sortBy)
	}

	return params
}

func (f *listFlags) paginationOptions() *mapi.PaginationOptions {
	opts := mapi.DefaultPaginationOptions()
	opts.FetchAll = !f.firstPage

	if f.maxResults > 0 {
		opts.MaxResults = f.maxResults
	}

	opts.Compact = !f.full && len(f.fields) > 0
	opts.CompactFields = f.fields

	return opts
}
