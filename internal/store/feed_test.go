package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeedQueryNoFilters(t *testing.T) {
	query, args := buildFeedQuery(FeedFilter{Limit: 100})

	assert.Contains(t, query, "ORDER BY p.id ASC")
	assert.NotContains(t, query, "p.id >")
	// only the LIMIT argument, set to limit+1 for next-page detection
	require.Len(t, args, 1)
	assert.Equal(t, 101, args[0])
}

func TestBuildFeedQueryCursor(t *testing.T) {
	query, args := buildFeedQuery(FeedFilter{AfterID: 42, Limit: 10})

	assert.Contains(t, query, "p.id > $1")
	require.Len(t, args, 2)
	assert.Equal(t, int64(42), args[0])
	assert.Equal(t, 11, args[1])
}

func TestBuildFeedQueryAllFilters(t *testing.T) {
	min := int64(1000)
	max := int64(5000)
	f := FeedFilter{
		AfterID:  7,
		Brand:    "ASOS",
		Category: "dresses",
		InStock:  true,
		PriceMin: &min,
		PriceMax: &max,
		Limit:    25,
	}

	query, args := buildFeedQuery(f)

	assert.Contains(t, query, "p.id > $1")
	assert.Contains(t, query, "b.name = $2")
	assert.Contains(t, query, "p.category = $3")
	assert.Contains(t, query, "v.in_stock = TRUE")
	assert.Contains(t, query, ">= $4")
	assert.Contains(t, query, "<= $5")
	assert.Contains(t, query, "LIMIT $6")

	require.Len(t, args, 6)
	assert.Equal(t, int64(7), args[0])
	assert.Equal(t, "ASOS", args[1])
	assert.Equal(t, "dresses", args[2])
	assert.Equal(t, min, args[3])
	assert.Equal(t, max, args[4])
	assert.Equal(t, 26, args[5])
}

func TestBuildFeedQuerySingleSortKey(t *testing.T) {
	// the keyset cursor is only correct under a single ascending sort key
	query, _ := buildFeedQuery(FeedFilter{Limit: 10})
	assert.Equal(t, 1, strings.Count(query, "ORDER BY p.id ASC"))
	assert.NotContains(t, query, "ORDER BY p.id ASC,")
}

func TestFeedConditionsArgOffset(t *testing.T) {
	where, args := feedConditions(FeedFilter{Brand: "H&M", Category: "tops"}, 3)

	assert.Contains(t, where, "b.name = $4")
	assert.Contains(t, where, "p.category = $5")
	assert.Len(t, args, 2)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "h&m", Slugify("H&M"))
	assert.Equal(t, "calvin-klein", Slugify("Calvin Klein"))
}
