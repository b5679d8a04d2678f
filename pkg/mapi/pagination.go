package mapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/veridian-io/mapi-client/internal/constants"
)

// PageFetcher performs one page fetch. An empty cursor requests the first
// page; subsequent cursors come from the previous page's next link.
type PageFetcher func(ctx context.Context, cursor string) (*ListResponse, error)

// PaginationOptions controls auto-pagination and compaction of list results.
type PaginationOptions struct {
	// FetchAll walks every page when true; false fetches only the first page.
	FetchAll bool

	// MaxResults caps the assembled item count. Zero or negative means the
	// default (500).
	MaxResults int

	// Compact projects each item's attributes down to CompactFields.
	Compact bool

	// CompactFields is the attribute allow-list applied when compacting.
	CompactFields []string

	// DetailHint names the operation that retrieves one item in full detail.
	// Attached to the result only when compaction was applied.
	DetailHint string
}

// DefaultPaginationOptions returns the options applied when the caller passes
// nil: fetch everything up to the default cap, compact mode on.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		FetchAll:   true,
		MaxResults: constants.DefaultMaxResults,
		Compact:    true,
	}
}

// NextCursor extracts the opaque cursor from a next-page link. A missing or
// unparseable link yields an empty cursor, which callers treat as the end of
// pagination rather than an error.
func NextCursor(links PageLinks) string {
	if links.Next == "" {
		return ""
	}

	parsed, err := url.Parse(links.Next)
	if err != nil {
		return ""
	}

	return parsed.Query().Get("page[cursor]")
}

// FetchAllPages assembles a list result by repeatedly following the next-page
// cursor. Pages are fetched strictly in order; the loop stops when no cursor
// remains, when single-page mode was requested, or when the item count
// reaches the cap (setting Truncated). Fetch errors propagate unchanged.
func FetchAllPages(ctx context.Context, fetch PageFetcher, opts *PaginationOptions) (*PagedResult, error) {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = constants.DefaultMaxResults
	}

	page, err := fetch(ctx, "")
	if err != nil {
		return nil, err
	}

	data := append([]json.RawMessage(nil), page.Data...)
	included := append([]json.RawMessage(nil), page.Included...)
	truncated := false

	if opts.FetchAll {
		cursor := NextCursor(page.Links)

		for cursor != "" && len(data) < maxResults {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("pagination cancelled: %w", err)
			}

			page, err = fetch(ctx, cursor)
			if err != nil {
				return nil, err
			}

			data = append(data, page.Data...)
			included = append(included, page.Included...)
			cursor = NextCursor(page.Links)
		}

		if len(data) >= maxResults && cursor != "" {
			truncated = true
		}
	}

	if len(data) > maxResults {
		data = data[:maxResults]
		truncated = true
	}

	result := &PagedResult{
		Data:      data,
		Included:  included,
		Fetched:   len(data),
		Truncated: truncated,
	}

	if opts.Compact && len(opts.CompactFields) > 0 {
		compacted, err := CompactResources(data, opts.CompactFields)
		if err != nil {
			return nil, err
		}

		result.Data = compacted
		result.Included = nil
		result.Compacted = true
		result.DetailHint = opts.DetailHint
	}

	return result, nil
}
