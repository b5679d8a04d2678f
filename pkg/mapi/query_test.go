package mapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	t.Run("nil receiver", func(t *testing.T) {
		t.Parallel()

		var params *mapi.QueryParams

		assert.Empty(t, params.ToValues())
	})

	t.Run("empty omits everything", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, mapi.NewQueryParams().ToValues())
	})

	t.Run("full serialization", func(t *testing.T) {
		t.Parallel()

		params := mapi.NewQueryParams().
			WithPageSize(50).
			WithCursor("abc").
			WithFilter(`equals(status,"active")`).
			WithSort("-created").
			WithInclude("lists", "tags").
			WithFields("profile", "email", "first_name")

		values := params.ToValues()
		assert.Equal(t, "50", values.Get("page[size]"))
		assert.Equal(t, "abc", values.Get("page[cursor]"))
		assert.Equal(t, `equals(status,"active")`, values.Get("filter"))
		assert.Equal(t, "-created", values.Get("sort"))
		assert.Equal(t, "lists,tags", values.Get("include"))
		assert.Equal(t, "email,first_name", values.Get("fields[profile]"))
	})

	t.Run("empty fieldset omitted", func(t *testing.T) {
		t.Parallel()

		params := mapi.NewQueryParams().WithFields("profile")
		assert.Empty(t, params.ToValues())
	})
}
