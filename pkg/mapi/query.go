package mapi

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams builds JSON:API query parameters. Empty or absent values are
// omitted from the serialized form.
type QueryParams struct {
	PageSize int
	Cursor   string
	Filter   string
	Sort     string
	Include  []string
	Fields   map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Fields: make(map[string][]string),
	}
}

// WithPageSize sets the requested page size.
func (q *QueryParams) WithPageSize(size int) *QueryParams {
	q.PageSize = size

	return q
}

// WithCursor sets the opaque page cursor.
func (q *QueryParams) WithCursor(cursor string) *QueryParams {
	q.Cursor = cursor

	return q
}

// WithFilter sets the filter expression.
func (q *QueryParams) WithFilter(filter string) *QueryParams {
	q.Filter = filter

	return q
}

// WithSort sets the sort field (prefix with "-" for descending).
func (q *QueryParams) WithSort(sort string) *QueryParams {
	q.Sort = sort

	return q
}

// WithInclude appends related resource types to side-load.
func (q *QueryParams) WithInclude(types ...string) *QueryParams {
	q.Include = append(q.Include, types...)

	return q
}

// WithFields replaces the sparse fieldset for a resource type.
func (q *QueryParams) WithFields(resourceType string, fields ...string) *QueryParams {
	if q.Fields == nil {
		q.Fields = make(map[string][]string)
	}

	q.Fields[resourceType] = fields

	return q
}

// ToValues serializes the parameters to url.Values, omitting empties.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.PageSize > 0 {
		values.Set("page[size]", strconv.Itoa(q.PageSize))
	}

	if q.Cursor != "" {
		values.Set("page[cursor]", q.Cursor)
	}

	if q.Filter != "" {
		values.Set("filter", q.Filter)
	}

	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}

	if len(q.Include) > 0 {
		values.Set("include", strings.Join(q.Include, ","))
	}

	for resourceType, fields := range q.Fields {
		if len(fields) > 0 {
			values.Set("fields["+resourceType+"]", strings.Join(fields, ","))
		}
	}

	return values
}
