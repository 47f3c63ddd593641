package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQueryDefaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.True(t, filter.WithPagination)
}

func TestParseFilterFromQueryCapsLimit(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "99999")

	filter := ParseFilterFromQuery(values)
	assert.Equal(t, MaxLimit, filter.Limit)
}

func TestParseFilterFromQueryPageToOffset(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "50")
	values.Set("page", "3")

	filter := ParseFilterFromQuery(values)
	assert.Equal(t, 100, filter.Offset)
}

func TestParseFilterFromQuerySortAndFilter(t *testing.T) {
	values := url.Values{}
	values.Set("sort[created_at]", "desc")
	values.Set("filter[status]", "OPEN")
	values.Set("search", "Silva")

	filter := ParseFilterFromQuery(values)
	assert.Equal(t, "desc", filter.Sort["created_at"])
	assert.Equal(t, "OPEN", filter.Filter["status"])
	assert.Equal(t, "Silva", filter.Search)
}

func TestParseFilterFromQueryWithoutPagination(t *testing.T) {
	values := url.Values{}
	values.Set("withPagination", "false")

	filter := ParseFilterFromQuery(values)
	assert.False(t, filter.WithPagination)
}
